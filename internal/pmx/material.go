package pmx

import (
	"fmt"

	"pmx-toolkit/internal/mathutil"
)

// MaterialFlags are the drawing switches of a material. Bits with no known
// meaning are kept as read.
type MaterialFlags uint8

const (
	DoubleSided MaterialFlags = 1 << iota
	GroundShadow
	CastSelfShadowMap
	ReceiveSelfShadow
	DrawEdge
	VertexColor // 2.1
	PointDraw   // 2.1
	LineDraw    // 2.1
)

// Has reports whether every bit of f is set.
func (m MaterialFlags) Has(f MaterialFlags) bool {
	return m&f == f
}

// SphereMode is how a sphere map is combined with the base texture.
type SphereMode uint8

const (
	SphereOff SphereMode = iota
	SphereMultiply
	SphereAdd
	SphereSubTexture
)

// Toon is a material's toon ramp: BuiltinToon, TextureToon or nil.
type Toon interface {
	toon()
}

// BuiltinToon selects one of the ten shared ramps shipped with viewers.
type BuiltinToon int

func (BuiltinToon) toon() {}

// Name returns the shared ramp's file name, toon01.bmp through toon10.bmp.
func (b BuiltinToon) Name() string {
	return fmt.Sprintf("toon%02d.bmp", int(b)+1)
}

// TextureToon is a ramp stored in the model's texture table.
type TextureToon string

func (TextureToon) toon() {}

// Material is a draw group covering a contiguous run of faces. Materials
// cover the face list in order.
type Material struct {
	Name     string
	NameEn   string
	Diffuse  mathutil.Vec4
	Specular mathutil.Vec3
	// SpecularStrength is the specular exponent.
	SpecularStrength float64
	Ambient          mathutil.Vec3
	Flags            MaterialFlags
	EdgeColor        mathutil.Vec4
	EdgeSize         float64
	Texture          string // "" for none
	Sphere           string
	SphereMode       SphereMode
	Toon             Toon
	Comment          string
	FaceCount        int
}

// FaceRanges returns the [start, end) face span of each material.
func FaceRanges(mats []Material) [][2]int {
	out := make([][2]int, len(mats))
	start := 0
	for i, mat := range mats {
		out[i] = [2]int{start, start + mat.FaceCount}
		start += mat.FaceCount
	}
	return out
}

func (d *decoder) textureTable(m *Model) error {
	const section = "textures"
	r := d.r
	n := r.Count(4)
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	m.Textures = make([]string, n)
	for i := range m.Textures {
		m.Textures[i] = r.Text()
		if r.Err() != nil {
			return d.fail(section, i, r.Err())
		}
	}
	d.textures = m.Textures
	return nil
}

func (e *encoder) textureTable(paths []string) error {
	e.w.Count(len(paths))
	for i, p := range paths {
		e.w.Text(p)
		if e.w.Err() != nil {
			return e.fail("textures", i)
		}
	}
	return nil
}

func (d *decoder) materials(m *Model) error {
	const section = "materials"
	r := d.r
	n := r.Count(8 + 16 + 12 + 4 + 12 + 1 + 16 + 4 + 2 + 2 + 1 + 4 + 4)
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	m.Materials = make([]Material, n)
	for i := range m.Materials {
		mat := &m.Materials[i]
		mat.Name = r.Text()
		mat.NameEn = r.Text()
		mat.Diffuse = d.vec4()
		mat.Specular = d.vec3()
		mat.SpecularStrength = r.F32()
		mat.Ambient = d.vec3()
		mat.Flags = MaterialFlags(r.U8())
		mat.EdgeColor = d.vec4()
		mat.EdgeSize = r.F32()
		tex := d.ref(d.idx.texture)
		sph := d.ref(d.idx.texture)
		mat.SphereMode = SphereMode(r.U8())
		shared := d.flag("shared toon flag")
		var toon Ref
		if shared {
			toon = Ref(r.U8())
		} else {
			toon = d.ref(d.idx.texture)
		}
		mat.Comment = r.Text()
		indices := r.I32()
		if err := d.check(section, i); err != nil {
			return err
		}

		var err error
		if mat.Texture, err = d.texturePath(tex); err != nil {
			return d.fail(section, i, err)
		}
		if mat.Sphere, err = d.texturePath(sph); err != nil {
			return d.fail(section, i, err)
		}
		switch {
		case shared:
			mat.Toon = BuiltinToon(toon)
		case toon != NoRef:
			path, err := d.texturePath(toon)
			if err != nil {
				return d.fail(section, i, err)
			}
			mat.Toon = TextureToon(path)
		}
		if indices < 0 || indices%3 != 0 {
			return d.fail(section, i, fmt.Errorf("%w: face index count %d", ErrInvalidValue, indices))
		}
		mat.FaceCount = int(indices / 3)
	}
	return nil
}

func (e *encoder) materials(m *Model) error {
	w := e.w
	w.Count(len(m.Materials))
	for i := range m.Materials {
		mat := &m.Materials[i]
		w.Text(mat.Name)
		w.Text(mat.NameEn)
		e.vec4(mat.Diffuse)
		e.vec3(mat.Specular)
		w.F32(mat.SpecularStrength)
		e.vec3(mat.Ambient)
		w.U8(uint8(mat.Flags))
		e.vec4(mat.EdgeColor)
		w.F32(mat.EdgeSize)
		e.textureRef(mat.Texture)
		e.textureRef(mat.Sphere)
		w.U8(uint8(mat.SphereMode))
		switch t := mat.Toon.(type) {
		case BuiltinToon:
			w.U8(1)
			w.U8(uint8(t))
		case TextureToon:
			w.U8(0)
			e.textureRef(string(t))
		default:
			w.U8(0)
			e.textureRef("")
		}
		w.Text(mat.Comment)
		w.I32(int32(mat.FaceCount * 3))
		if w.Err() != nil {
			return e.fail("materials", i)
		}
	}
	return nil
}
