package pmx

import (
	"fmt"

	"pmx-toolkit/internal/binio"
)

// Decode parses a PMX file. Recoverable issues (nonstandard magic, global
// count or version, trailing bytes) are returned as warnings; anything else
// that prevents a faithful model is a *DecodeError.
func Decode(data []byte) (*Model, []Warning, error) {
	d := &decoder{r: binio.NewReader(data)}
	m := &Model{}
	steps := []func(*Model) error{
		d.header,
		d.vertices,
		d.faces,
		d.textureTable,
		d.materials,
		d.bones,
		d.morphs,
		d.frames,
		d.rigidBodies,
		d.joints,
	}
	for _, step := range steps {
		if err := step(m); err != nil {
			return nil, d.warnings, err
		}
	}
	if d.v21 {
		if err := d.softBodies(m); err != nil {
			return nil, d.warnings, err
		}
	}
	if n := d.r.Remaining(); n > 0 {
		d.warn(WarnTrailingBytes, d.r.Offset(), fmt.Sprintf("%d bytes after the last section", n))
	}
	return m, d.warnings, nil
}

func (d *decoder) faces(m *Model) error {
	const section = "faces"
	r := d.r
	n := r.Count(d.idx.vertex.Size())
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	if n%3 != 0 {
		return d.fail(section, -1, fmt.Errorf("%w: %d face indices is not a multiple of 3", ErrInvalidValue, n))
	}
	m.Faces = make([]Face, n/3)
	for i := range m.Faces {
		f := &m.Faces[i]
		for k := range f {
			f[k] = r.Index(d.idx.vertex)
		}
	}
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	return nil
}
