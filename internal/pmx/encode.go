package pmx

import (
	"pmx-toolkit/internal/binio"
)

// Encode validates m and serializes it with the narrowest index widths that
// fit its collections.
func Encode(m *Model) ([]byte, error) {
	if err := Validate(m); err != nil {
		return nil, err
	}
	p, err := lookahead(m)
	if err != nil {
		return nil, &EncodeError{Section: "header", Index: -1, Err: err}
	}
	e := &encoder{
		w:        binio.NewWriter(sizeHint(m)),
		v21:      m.Header.IsV21(),
		extraUVs: m.Header.AdditionalUVs,
		idx:      p.idx,
		texIndex: p.texIndex,
	}
	steps := []func(*Model) error{
		e.header,
		e.vertices,
		e.faces,
		func(*Model) error { return e.textureTable(p.textures) },
		e.materials,
		e.bones,
		e.morphs,
		e.frames,
		e.rigidBodies,
		e.joints,
	}
	if e.v21 {
		steps = append(steps, e.softBodies)
	}
	for _, step := range steps {
		if err := step(m); err != nil {
			return nil, err
		}
	}
	return e.w.Bytes(), nil
}

// sizeHint estimates the output size from the bulk sections.
func sizeHint(m *Model) int {
	return 256 +
		len(m.Vertices)*(64+16*m.Header.AdditionalUVs) +
		len(m.Faces)*12 +
		len(m.Materials)*160 +
		len(m.Bones)*96 +
		len(m.RigidBodies)*96 +
		len(m.Joints)*140
}

func (e *encoder) faces(m *Model) error {
	w := e.w
	w.Count(len(m.Faces) * 3)
	for i, f := range m.Faces {
		for _, v := range f {
			w.Index(e.idx.vertex, v)
		}
		if w.Err() != nil {
			return e.fail("faces", i)
		}
	}
	return nil
}
