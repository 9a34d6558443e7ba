package pmx

import (
	"fmt"

	"pmx-toolkit/internal/mathutil"
)

// Bone flag bits as stored on disk.
const (
	boneTailIsBone       uint16 = 0x0001
	boneRotatable        uint16 = 0x0002
	boneTranslatable     uint16 = 0x0004
	boneVisible          uint16 = 0x0008
	boneEnabled          uint16 = 0x0010
	boneIK               uint16 = 0x0020
	boneLocalInherit     uint16 = 0x0080
	boneInheritRotation  uint16 = 0x0100
	boneInheritTranslate uint16 = 0x0200
	boneFixedAxis        uint16 = 0x0400
	boneLocalAxis        uint16 = 0x0800
	bonePhysicsAfter     uint16 = 0x1000
	boneExternalParent   uint16 = 0x2000
	boneKnownFlags              = 0x3FBF
)

// Tail is where a bone points: TailBone or TailOffset.
type Tail interface {
	tail()
}

// TailBone points at another bone (NoRef for none).
type TailBone struct {
	Bone Ref
}

// TailOffset points at a position relative to the bone.
type TailOffset struct {
	Offset mathutil.Vec3
}

func (TailBone) tail()   {}
func (TailOffset) tail() {}

// Inherit copies a share of another bone's rotation and/or translation.
type Inherit struct {
	Rotation    bool
	Translation bool
	Parent      Ref
	Ratio       float64
}

// LocalAxis is a bone's local coordinate frame.
type LocalAxis struct {
	X mathutil.Vec3
	Z mathutil.Vec3
}

// AngleLimits bound an IK link's rotation, in degrees.
type AngleLimits struct {
	Min mathutil.Vec3
	Max mathutil.Vec3
}

type IKLink struct {
	Bone   Ref
	Limits *AngleLimits
}

// IK is an inverse-kinematics chain. Limit is the per-iteration angle in
// degrees.
type IK struct {
	Target Ref
	Loops  int
	Limit  float64
	Links  []IKLink
}

// Bone is one node of the skeleton. Optional blocks are nil when absent.
type Bone struct {
	Name        string
	NameEn      string
	Position    mathutil.Vec3
	Parent      Ref
	DeformLayer int

	Rotatable          bool
	Translatable       bool
	Visible            bool
	Enabled            bool
	LocalInherit       bool
	PhysicsAfterDeform bool

	Tail           Tail
	Inherit        *Inherit
	FixedAxis      *mathutil.Vec3
	LocalAxis      *LocalAxis
	ExternalParent *int
	IK             *IK

	// ExtraFlags holds flag bits with no known meaning.
	ExtraFlags uint16
}

func (b *Bone) flags() uint16 {
	f := b.ExtraFlags &^ boneKnownFlags
	set := func(on bool, bit uint16) {
		if on {
			f |= bit
		}
	}
	_, tailBone := b.Tail.(TailBone)
	set(tailBone || b.Tail == nil, boneTailIsBone)
	set(b.Rotatable, boneRotatable)
	set(b.Translatable, boneTranslatable)
	set(b.Visible, boneVisible)
	set(b.Enabled, boneEnabled)
	set(b.IK != nil, boneIK)
	set(b.LocalInherit, boneLocalInherit)
	set(b.Inherit != nil && b.Inherit.Rotation, boneInheritRotation)
	set(b.Inherit != nil && b.Inherit.Translation, boneInheritTranslate)
	set(b.FixedAxis != nil, boneFixedAxis)
	set(b.LocalAxis != nil, boneLocalAxis)
	set(b.PhysicsAfterDeform, bonePhysicsAfter)
	set(b.ExternalParent != nil, boneExternalParent)
	return f
}

func (d *decoder) bones(m *Model) error {
	const section = "bones"
	r := d.r
	n := r.Count(8 + 12 + d.idx.bone.Size() + 4 + 2 + d.idx.bone.Size())
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	m.Bones = make([]Bone, n)
	for i := range m.Bones {
		b := &m.Bones[i]
		b.Name = r.Text()
		b.NameEn = r.Text()
		b.Position = d.vec3()
		b.Parent = d.ref(d.idx.bone)
		b.DeformLayer = int(r.I32())
		f := r.U16()
		b.ExtraFlags = f &^ boneKnownFlags
		b.Rotatable = f&boneRotatable != 0
		b.Translatable = f&boneTranslatable != 0
		b.Visible = f&boneVisible != 0
		b.Enabled = f&boneEnabled != 0
		b.LocalInherit = f&boneLocalInherit != 0
		b.PhysicsAfterDeform = f&bonePhysicsAfter != 0

		if f&boneTailIsBone != 0 {
			b.Tail = TailBone{Bone: d.ref(d.idx.bone)}
		} else {
			b.Tail = TailOffset{Offset: d.vec3()}
		}
		if f&(boneInheritRotation|boneInheritTranslate) != 0 {
			b.Inherit = &Inherit{
				Rotation:    f&boneInheritRotation != 0,
				Translation: f&boneInheritTranslate != 0,
				Parent:      d.ref(d.idx.bone),
				Ratio:       r.F32(),
			}
		}
		if f&boneFixedAxis != 0 {
			axis := d.vec3()
			b.FixedAxis = &axis
		}
		if f&boneLocalAxis != 0 {
			b.LocalAxis = &LocalAxis{X: d.vec3(), Z: d.vec3()}
		}
		if f&boneExternalParent != 0 {
			key := int(r.I32())
			b.ExternalParent = &key
		}
		if f&boneIK != 0 {
			if err := d.ik(b); err != nil {
				return d.fail(section, i, err)
			}
		}
		if r.Err() != nil {
			return d.fail(section, i, r.Err())
		}
	}
	return nil
}

func (d *decoder) ik(b *Bone) error {
	r := d.r
	ik := &IK{
		Target: d.ref(d.idx.bone),
		Loops:  int(r.I32()),
		Limit:  mathutil.Rad2Deg(r.F32()),
	}
	n := r.Count(d.idx.bone.Size() + 1)
	if r.Err() != nil {
		return r.Err()
	}
	ik.Links = make([]IKLink, n)
	for k := range ik.Links {
		link := &ik.Links[k]
		link.Bone = d.ref(d.idx.bone)
		switch limited := r.U8(); limited {
		case 0:
		case 1:
			link.Limits = &AngleLimits{Min: d.vec3().Degrees(), Max: d.vec3().Degrees()}
		default:
			if r.Err() == nil {
				return fmt.Errorf("%w: IK link %d limit flag %d", ErrInvalidValue, k, limited)
			}
		}
	}
	b.IK = ik
	return r.Err()
}

func (e *encoder) bones(m *Model) error {
	w := e.w
	w.Count(len(m.Bones))
	for i := range m.Bones {
		b := &m.Bones[i]
		w.Text(b.Name)
		w.Text(b.NameEn)
		e.vec3(b.Position)
		e.ref(e.idx.bone, b.Parent)
		w.I32(int32(b.DeformLayer))
		w.U16(b.flags())

		switch t := b.Tail.(type) {
		case TailOffset:
			e.vec3(t.Offset)
		case TailBone:
			e.ref(e.idx.bone, t.Bone)
		default:
			e.ref(e.idx.bone, NoRef)
		}
		if b.Inherit != nil && (b.Inherit.Rotation || b.Inherit.Translation) {
			e.ref(e.idx.bone, b.Inherit.Parent)
			w.F32(b.Inherit.Ratio)
		}
		if b.FixedAxis != nil {
			e.vec3(*b.FixedAxis)
		}
		if b.LocalAxis != nil {
			e.vec3(b.LocalAxis.X)
			e.vec3(b.LocalAxis.Z)
		}
		if b.ExternalParent != nil {
			w.I32(int32(*b.ExternalParent))
		}
		if ik := b.IK; ik != nil {
			e.ref(e.idx.bone, ik.Target)
			w.I32(int32(ik.Loops))
			w.F32(mathutil.Deg2Rad(ik.Limit))
			w.Count(len(ik.Links))
			for _, link := range ik.Links {
				e.ref(e.idx.bone, link.Bone)
				if link.Limits == nil {
					w.U8(0)
					continue
				}
				w.U8(1)
				e.vec3(link.Limits.Min.Radians())
				e.vec3(link.Limits.Max.Radians())
			}
		}
		if w.Err() != nil {
			return e.fail("bones", i)
		}
	}
	return nil
}
