package pmx

import (
	"fmt"

	"pmx-toolkit/internal/binio"
	"pmx-toolkit/internal/mathutil"
)

// indexWidths holds the per-file representation of every reference category.
// The header codec fills it once; section codecs only read it.
type indexWidths struct {
	vertex   binio.IndexKind
	texture  binio.IndexKind
	material binio.IndexKind
	bone     binio.IndexKind
	morph    binio.IndexKind
	rigid    binio.IndexKind
}

// decoder is the state of one decode pass.
type decoder struct {
	r        *binio.Reader
	v21      bool
	extraUVs int
	idx      indexWidths
	textures []string
	warnings []Warning
	invalid  error // first out-of-range flag byte of the current entity
}

func (d *decoder) warn(kind WarningKind, offset int, msg string) {
	d.warnings = append(d.warnings, Warning{Kind: kind, Offset: offset, Message: msg})
}

// fail wraps err with the section being parsed. Reader failures report the
// offset where they happened; semantic failures report the cursor.
func (d *decoder) fail(section string, index int, err error) error {
	off := d.r.Offset()
	if d.r.Err() != nil {
		off = d.r.ErrOffset()
	}
	return &DecodeError{Section: section, Index: index, Offset: off, Err: err}
}

// flag reads a one-byte boolean. Values other than 0 and 1 are recorded
// and reported by the next check.
func (d *decoder) flag(what string) bool {
	v := d.r.U8()
	if v > 1 && d.r.Err() == nil && d.invalid == nil {
		d.invalid = fmt.Errorf("%w: %s %d", ErrInvalidValue, what, v)
	}
	return v == 1
}

// check fails the entity on a reader error or a recorded invalid flag.
func (d *decoder) check(section string, index int) error {
	if err := d.r.Err(); err != nil {
		return d.fail(section, index, err)
	}
	if d.invalid != nil {
		return d.fail(section, index, d.invalid)
	}
	return nil
}

func (d *decoder) ref(k binio.IndexKind) Ref {
	return Ref(d.r.Index(k))
}

func (d *decoder) vec3() mathutil.Vec3 {
	var v mathutil.Vec3
	d.r.Floats(v[:])
	return v
}

func (d *decoder) vec4() mathutil.Vec4 {
	var v mathutil.Vec4
	d.r.Floats(v[:])
	return v
}

// texturePath resolves a texture-table reference read from a material.
func (d *decoder) texturePath(r Ref) (string, error) {
	if r == NoRef {
		return "", nil
	}
	if !r.In(len(d.textures)) {
		return "", fmtRange("texture", int(r), len(d.textures))
	}
	return d.textures[r], nil
}

// encoder is the state of one encode pass.
type encoder struct {
	w        *binio.Writer
	v21      bool
	extraUVs int
	idx      indexWidths
	texIndex map[string]int
}

func (e *encoder) fail(section string, index int) error {
	return &EncodeError{Section: section, Index: index, Err: e.w.Err()}
}

func (e *encoder) ref(k binio.IndexKind, r Ref) {
	e.w.Index(k, int(r))
}

func (e *encoder) vec3(v mathutil.Vec3) {
	e.w.Floats(v[:])
}

func (e *encoder) vec4(v mathutil.Vec4) {
	e.w.Floats(v[:])
}

// textureRef maps a texture path back to its table position.
func (e *encoder) textureRef(path string) {
	if path == "" {
		e.w.Index(e.idx.texture, int(NoRef))
		return
	}
	e.w.Index(e.idx.texture, e.texIndex[path])
}
