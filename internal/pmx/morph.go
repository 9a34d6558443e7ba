package pmx

import (
	"fmt"

	"pmx-toolkit/internal/mathutil"
)

// MorphPanel is the editor panel a morph is listed under.
type MorphPanel uint8

const (
	PanelSystem MorphPanel = iota
	PanelEyebrow
	PanelEye
	PanelMouth
	PanelOther
)

// MorphKind is the on-disk morph type tag; all items of a morph share it.
type MorphKind uint8

const (
	MorphGroup MorphKind = iota
	MorphVertex
	MorphBone
	MorphUV
	MorphUV1
	MorphUV2
	MorphUV3
	MorphUV4
	MorphMaterial
	MorphFlip    // 2.1
	MorphImpulse // 2.1
)

var morphKindNames = [...]string{
	MorphGroup:    "group",
	MorphVertex:   "vertex",
	MorphBone:     "bone",
	MorphUV:       "uv",
	MorphUV1:      "uv1",
	MorphUV2:      "uv2",
	MorphUV3:      "uv3",
	MorphUV4:      "uv4",
	MorphMaterial: "material",
	MorphFlip:     "flip",
	MorphImpulse:  "impulse",
}

func (k MorphKind) Valid() bool {
	return int(k) < len(morphKindNames)
}

func (k MorphKind) String() string {
	if k.Valid() {
		return morphKindNames[k]
	}
	return fmt.Sprintf("MorphKind(%d)", uint8(k))
}

// v21Only reports whether the kind exists only in format 2.1.
func (k MorphKind) v21Only() bool {
	return k == MorphFlip || k == MorphImpulse
}

// MorphItem is one entry of a morph. The concrete type determines Kind.
type MorphItem interface {
	Kind() MorphKind
}

// GroupItem drives another morph.
type GroupItem struct {
	Morph  Ref
	Weight float64
}

// FlipItem drives one morph of a group, chosen by the flip value.
type FlipItem struct {
	Morph  Ref
	Weight float64
}

type VertexItem struct {
	Vertex int
	Offset mathutil.Vec3
}

// BoneItem moves and rotates a bone. Rotation is kept as the stored
// quaternion.
type BoneItem struct {
	Bone        Ref
	Translation mathutil.Vec3
	Rotation    mathutil.Quat
}

// UVItem offsets one vertex's UV layer; Layer 0 is the base UV and 1..4 the
// additional ones.
type UVItem struct {
	Layer  int
	Vertex int
	Offset mathutil.Vec4
}

// MaterialOp is how a material morph combines with the material.
type MaterialOp uint8

const (
	MaterialMultiply MaterialOp = iota
	MaterialAdd
)

// MaterialItem modifies one material, or all of them when Material is NoRef.
type MaterialItem struct {
	Material         Ref
	Op               MaterialOp
	Diffuse          mathutil.Vec4
	Specular         mathutil.Vec3
	SpecularStrength float64
	Ambient          mathutil.Vec3
	EdgeColor        mathutil.Vec4
	EdgeSize         float64
	TextureTint      mathutil.Vec4
	SphereTint       mathutil.Vec4
	ToonTint         mathutil.Vec4
}

// ImpulseItem pushes a rigid body.
type ImpulseItem struct {
	RigidBody Ref
	Local     bool
	Velocity  mathutil.Vec3
	Torque    mathutil.Vec3
}

func (GroupItem) Kind() MorphKind    { return MorphGroup }
func (FlipItem) Kind() MorphKind     { return MorphFlip }
func (VertexItem) Kind() MorphKind   { return MorphVertex }
func (BoneItem) Kind() MorphKind     { return MorphBone }
func (it UVItem) Kind() MorphKind    { return MorphUV + MorphKind(it.Layer) }
func (MaterialItem) Kind() MorphKind { return MorphMaterial }
func (ImpulseItem) Kind() MorphKind  { return MorphImpulse }

// Morph is a named blend of homogeneous items.
type Morph struct {
	Name   string
	NameEn string
	Panel  MorphPanel
	Kind   MorphKind
	Items  []MorphItem
}

// checkItems reports the first item whose kind differs from the morph's.
func (m *Morph) checkItems() error {
	for k, it := range m.Items {
		if it == nil || it.Kind() != m.Kind {
			return fmt.Errorf("%w: item %d is %v in a %v morph", ErrMorphTypeMismatch, k, itemKind(it), m.Kind)
		}
	}
	return nil
}

func itemKind(it MorphItem) any {
	if it == nil {
		return "nil"
	}
	return it.Kind()
}

// minItemSize is the smallest on-disk size of one item of kind k.
func (d *decoder) minItemSize(k MorphKind) int {
	switch k {
	case MorphGroup, MorphFlip:
		return d.idx.morph.Size() + 4
	case MorphVertex:
		return d.idx.vertex.Size() + 12
	case MorphBone:
		return d.idx.bone.Size() + 28
	case MorphMaterial:
		return d.idx.material.Size() + 1 + 28*4
	case MorphImpulse:
		return d.idx.rigid.Size() + 1 + 24
	default:
		return d.idx.vertex.Size() + 16
	}
}

func (d *decoder) morphs(m *Model) error {
	const section = "morphs"
	r := d.r
	n := r.Count(8 + 2 + 4)
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	m.Morphs = make([]Morph, n)
	for i := range m.Morphs {
		mo := &m.Morphs[i]
		mo.Name = r.Text()
		mo.NameEn = r.Text()
		mo.Panel = MorphPanel(r.U8())
		mo.Kind = MorphKind(r.U8())
		if r.Err() != nil {
			return d.fail(section, i, r.Err())
		}
		if !mo.Kind.Valid() {
			return d.fail(section, i, fmt.Errorf("%w: %d", ErrUnknownMorphType, uint8(mo.Kind)))
		}
		if mo.Kind.v21Only() && !d.v21 {
			return d.fail(section, i, fmt.Errorf("%w: %v morph", ErrVersionFeature, mo.Kind))
		}
		count := r.Count(d.minItemSize(mo.Kind))
		if r.Err() != nil {
			return d.fail(section, i, r.Err())
		}
		mo.Items = make([]MorphItem, count)
		for k := range mo.Items {
			mo.Items[k] = d.morphItem(mo.Kind)
		}
		if err := d.check(section, i); err != nil {
			return err
		}
		if err := mo.checkItems(); err != nil {
			return d.fail(section, i, err)
		}
	}
	return nil
}

func (d *decoder) morphItem(kind MorphKind) MorphItem {
	r := d.r
	switch kind {
	case MorphGroup:
		return GroupItem{Morph: d.ref(d.idx.morph), Weight: r.F32()}
	case MorphFlip:
		return FlipItem{Morph: d.ref(d.idx.morph), Weight: r.F32()}
	case MorphVertex:
		return VertexItem{Vertex: r.Index(d.idx.vertex), Offset: d.vec3()}
	case MorphBone:
		it := BoneItem{Bone: d.ref(d.idx.bone), Translation: d.vec3()}
		r.Floats(it.Rotation[:])
		return it
	case MorphMaterial:
		it := MaterialItem{Material: d.ref(d.idx.material), Op: MaterialOp(r.U8())}
		it.Diffuse = d.vec4()
		it.Specular = d.vec3()
		it.SpecularStrength = r.F32()
		it.Ambient = d.vec3()
		it.EdgeColor = d.vec4()
		it.EdgeSize = r.F32()
		it.TextureTint = d.vec4()
		it.SphereTint = d.vec4()
		it.ToonTint = d.vec4()
		return it
	case MorphImpulse:
		return ImpulseItem{RigidBody: d.ref(d.idx.rigid), Local: d.flag("impulse local flag"), Velocity: d.vec3(), Torque: d.vec3()}
	default:
		return UVItem{Layer: int(kind - MorphUV), Vertex: r.Index(d.idx.vertex), Offset: d.vec4()}
	}
}

func (e *encoder) morphs(m *Model) error {
	w := e.w
	w.Count(len(m.Morphs))
	for i := range m.Morphs {
		mo := &m.Morphs[i]
		w.Text(mo.Name)
		w.Text(mo.NameEn)
		w.U8(uint8(mo.Panel))
		w.U8(uint8(mo.Kind))
		w.Count(len(mo.Items))
		for _, it := range mo.Items {
			e.morphItem(it)
		}
		if w.Err() != nil {
			return e.fail("morphs", i)
		}
	}
	return nil
}

func (e *encoder) morphItem(item MorphItem) {
	w := e.w
	switch it := item.(type) {
	case GroupItem:
		e.ref(e.idx.morph, it.Morph)
		w.F32(it.Weight)
	case FlipItem:
		e.ref(e.idx.morph, it.Morph)
		w.F32(it.Weight)
	case VertexItem:
		w.Index(e.idx.vertex, it.Vertex)
		e.vec3(it.Offset)
	case BoneItem:
		e.ref(e.idx.bone, it.Bone)
		e.vec3(it.Translation)
		w.Floats(it.Rotation[:])
	case UVItem:
		w.Index(e.idx.vertex, it.Vertex)
		e.vec4(it.Offset)
	case MaterialItem:
		e.ref(e.idx.material, it.Material)
		w.U8(uint8(it.Op))
		e.vec4(it.Diffuse)
		e.vec3(it.Specular)
		w.F32(it.SpecularStrength)
		e.vec3(it.Ambient)
		e.vec4(it.EdgeColor)
		w.F32(it.EdgeSize)
		e.vec4(it.TextureTint)
		e.vec4(it.SphereTint)
		e.vec4(it.ToonTint)
	case ImpulseItem:
		e.ref(e.idx.rigid, it.RigidBody)
		var local uint8
		if it.Local {
			local = 1
		}
		w.U8(local)
		e.vec3(it.Velocity)
		e.vec3(it.Torque)
	}
}
