package pmx

import (
	"fmt"
	"math"

	"pmx-toolkit/internal/binio"
)

// headerBlock is the fixed prefix of every PMX file.
type headerBlock struct {
	Magic   [4]byte
	Version float32
	Globals uint8
}

// knownGlobals is the number of global-flag bytes with a defined meaning.
const knownGlobals = 8

func (d *decoder) header(m *Model) error {
	const section = "header"
	r := d.r
	var hb headerBlock
	r.Unpack(&hb)
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	h := &m.Header
	h.Magic = hb.Magic
	h.Version = hb.Version
	if hb.Magic != Magic {
		d.warn(WarnMagic, 0, fmt.Sprintf("magic %q, want %q", hb.Magic[:], Magic[:]))
	}
	if hb.Version != Version20 && hb.Version != Version21 {
		d.warn(WarnVersion, 4, fmt.Sprintf("version %v, decoding with the 2.0 layout", hb.Version))
	}
	d.v21 = h.IsV21()

	if hb.Globals != knownGlobals {
		d.warn(WarnGlobalCount, 8, fmt.Sprintf("%d global flags, only the first %d are understood", hb.Globals, knownGlobals))
	}
	if hb.Globals < knownGlobals {
		return d.fail(section, -1, fmt.Errorf("%w: %d global flags cannot select index widths", ErrInvalidValue, hb.Globals))
	}
	globals := r.Bytes(int(hb.Globals))
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	if n := len(globals) - knownGlobals; n > 0 {
		h.ExtraGlobals = globals[knownGlobals:]
	}

	h.Encoding = binio.Encoding(globals[0])
	if !h.Encoding.Valid() {
		return d.fail(section, -1, fmt.Errorf("%w: selector %d", ErrUnsupportedEncoding, globals[0]))
	}
	r.SetEncoding(h.Encoding)

	h.AdditionalUVs = int(globals[1])
	if h.AdditionalUVs > 4 {
		return d.fail(section, -1, fmt.Errorf("%w: %d additional UVs", ErrInvalidValue, h.AdditionalUVs))
	}
	d.extraUVs = h.AdditionalUVs

	var ok bool
	if d.idx.vertex, ok = binio.VertexKind(globals[2]); !ok {
		return d.fail(section, -1, fmt.Errorf("%w: vertex index size %d", ErrInvalidIndexWidth, globals[2]))
	}
	signed := []struct {
		name string
		dst  *binio.IndexKind
		size uint8
	}{
		{"texture", &d.idx.texture, globals[3]},
		{"material", &d.idx.material, globals[4]},
		{"bone", &d.idx.bone, globals[5]},
		{"morph", &d.idx.morph, globals[6]},
		{"rigid body", &d.idx.rigid, globals[7]},
	}
	for _, s := range signed {
		if *s.dst, ok = binio.SignedKind(s.size); !ok {
			return d.fail(section, -1, fmt.Errorf("%w: %s index size %d", ErrInvalidIndexWidth, s.name, s.size))
		}
	}

	h.Name = r.Text()
	h.NameEn = r.Text()
	h.Comment = r.Text()
	h.CommentEn = r.Text()
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	return nil
}

// plan is the result of the encode lookahead pass.
type plan struct {
	idx      indexWidths
	textures []string
	texIndex map[string]int
}

// TextureTable returns the texture table Encode writes for m: m.Textures in
// order, then every path a material references that is not already listed.
// Empty paths and builtin toons are left out.
func TextureTable(m *Model) []string {
	table, _ := textureTable(m)
	return table
}

func textureTable(m *Model) ([]string, map[string]int) {
	var table []string
	index := make(map[string]int, len(m.Textures))
	add := func(path string) {
		if path == "" {
			return
		}
		if _, ok := index[path]; ok {
			return
		}
		index[path] = len(table)
		table = append(table, path)
	}
	for _, t := range m.Textures {
		add(t)
	}
	for _, mat := range m.Materials {
		add(mat.Texture)
		add(mat.Sphere)
		if tt, ok := mat.Toon.(TextureToon); ok {
			add(string(tt))
		}
	}
	return table, index
}

// lookahead counts every collection, builds the texture table and picks the
// narrowest index width for each category. It runs before any byte is written.
func lookahead(m *Model) (plan, error) {
	var p plan
	p.textures, p.texIndex = textureTable(m)

	var err error
	if p.idx.vertex, err = vertexWidth(len(m.Vertices)); err != nil {
		return p, fmt.Errorf("vertices: %w", err)
	}
	counts := []struct {
		name string
		dst  *binio.IndexKind
		n    int
	}{
		{"textures", &p.idx.texture, len(p.textures)},
		{"materials", &p.idx.material, len(m.Materials)},
		{"bones", &p.idx.bone, len(m.Bones)},
		{"morphs", &p.idx.morph, len(m.Morphs)},
		{"rigid bodies", &p.idx.rigid, len(m.RigidBodies)},
	}
	for _, c := range counts {
		if *c.dst, err = signedWidth(c.n); err != nil {
			return p, fmt.Errorf("%s: %w", c.name, err)
		}
	}
	return p, nil
}

func vertexWidth(count int) (binio.IndexKind, error) {
	switch last := count - 1; {
	case last <= math.MaxUint8:
		return binio.U8, nil
	case last <= math.MaxUint16:
		return binio.U16, nil
	case last <= math.MaxInt32:
		return binio.I32, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrTooManyEntities, count)
}

func signedWidth(count int) (binio.IndexKind, error) {
	switch last := count - 1; {
	case last <= math.MaxInt8:
		return binio.I8, nil
	case last <= math.MaxInt16:
		return binio.I16, nil
	case last <= math.MaxInt32:
		return binio.I32, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrTooManyEntities, count)
}

func (e *encoder) header(m *Model) error {
	h := m.Header
	hb := headerBlock{
		Magic:   h.Magic,
		Version: h.Version,
		Globals: uint8(knownGlobals + len(h.ExtraGlobals)),
	}
	if hb.Magic == ([4]byte{}) {
		hb.Magic = Magic
	}
	w := e.w
	w.Pack(&hb)
	w.U8(uint8(h.Encoding))
	w.U8(uint8(h.AdditionalUVs))
	for _, k := range []binio.IndexKind{e.idx.vertex, e.idx.texture, e.idx.material, e.idx.bone, e.idx.morph, e.idx.rigid} {
		w.U8(uint8(k.Size()))
	}
	w.Raw(h.ExtraGlobals)

	w.SetEncoding(h.Encoding)
	w.Text(h.Name)
	w.Text(h.NameEn)
	w.Text(h.Comment)
	w.Text(h.CommentEn)
	if w.Err() != nil {
		return e.fail("header", -1)
	}
	return nil
}

// Widths are the per-category index sizes in bytes.
type Widths struct {
	Vertex    int
	Texture   int
	Material  int
	Bone      int
	Morph     int
	RigidBody int
}

// PlanWidths returns the index sizes Encode would use for m.
func PlanWidths(m *Model) (Widths, error) {
	p, err := lookahead(m)
	if err != nil {
		return Widths{}, err
	}
	return Widths{
		Vertex:    p.idx.vertex.Size(),
		Texture:   p.idx.texture.Size(),
		Material:  p.idx.material.Size(),
		Bone:      p.idx.bone.Size(),
		Morph:     p.idx.morph.Size(),
		RigidBody: p.idx.rigid.Size(),
	}, nil
}
