package pmx

import (
	"sort"

	"pmx-toolkit/internal/mathutil"
)

// Collision groups are numbered 1..16.
const (
	MinGroup = 1
	MaxGroup = 16
)

// GroupSet is a set of collision group numbers, kept ascending.
type GroupSet []int

// GroupsFromMask converts an on-disk no-collide mask, where a clear bit i
// means "does not collide with group i+1".
func GroupsFromMask(mask uint16) GroupSet {
	var gs GroupSet
	for i := 0; i < MaxGroup; i++ {
		if mask&(1<<i) == 0 {
			gs = append(gs, i+1)
		}
	}
	return gs
}

// Mask is the inverse of GroupsFromMask. Numbers outside 1..16 are ignored.
func (gs GroupSet) Mask() uint16 {
	mask := uint16(0xFFFF)
	for _, g := range gs {
		if g >= MinGroup && g <= MaxGroup {
			mask &^= 1 << (g - 1)
		}
	}
	return mask
}

// Contains reports whether g is in the set.
func (gs GroupSet) Contains(g int) bool {
	i := sort.SearchInts(gs, g)
	return i < len(gs) && gs[i] == g
}

type Shape uint8

const (
	ShapeSphere Shape = iota
	ShapeBox
	ShapeCapsule
)

// PhysicsMode is how a rigid body relates to its bone.
type PhysicsMode uint8

const (
	FollowBone PhysicsMode = iota
	Physics
	PhysicsAligned
)

// RigidBody is a collision shape. Rotation is in degrees.
type RigidBody struct {
	Name           string
	NameEn         string
	Bone           Ref
	Group          int
	NoCollide      GroupSet
	Shape          Shape
	Size           mathutil.Vec3
	Position       mathutil.Vec3
	Rotation       mathutil.Vec3
	Mass           float64
	LinearDamping  float64
	AngularDamping float64
	Restitution    float64
	Friction       float64
	Mode           PhysicsMode
}

type rigidBlock struct {
	Group          uint8
	NoCollide      uint16
	Shape          uint8
	Size           [3]float32
	Position       [3]float32
	Rotation       [3]float32
	Mass           float32
	LinearDamping  float32
	AngularDamping float32
	Restitution    float32
	Friction       float32
	Mode           uint8
}

func widen(v [3]float32) mathutil.Vec3 {
	return mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func narrow(v mathutil.Vec3) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

func (d *decoder) rigidBodies(m *Model) error {
	const section = "rigid bodies"
	r := d.r
	n := r.Count(8 + d.idx.bone.Size() + 61)
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	m.RigidBodies = make([]RigidBody, n)
	for i := range m.RigidBodies {
		rb := &m.RigidBodies[i]
		rb.Name = r.Text()
		rb.NameEn = r.Text()
		rb.Bone = d.ref(d.idx.bone)
		var blk rigidBlock
		r.Unpack(&blk)
		if r.Err() != nil {
			return d.fail(section, i, r.Err())
		}
		rb.Group = int(blk.Group) + 1
		rb.NoCollide = GroupsFromMask(blk.NoCollide)
		rb.Shape = Shape(blk.Shape)
		rb.Size = widen(blk.Size)
		rb.Position = widen(blk.Position)
		rb.Rotation = widen(blk.Rotation).Degrees()
		rb.Mass = float64(blk.Mass)
		rb.LinearDamping = float64(blk.LinearDamping)
		rb.AngularDamping = float64(blk.AngularDamping)
		rb.Restitution = float64(blk.Restitution)
		rb.Friction = float64(blk.Friction)
		rb.Mode = PhysicsMode(blk.Mode)
	}
	return nil
}

func (e *encoder) rigidBodies(m *Model) error {
	w := e.w
	w.Count(len(m.RigidBodies))
	for i := range m.RigidBodies {
		rb := &m.RigidBodies[i]
		w.Text(rb.Name)
		w.Text(rb.NameEn)
		e.ref(e.idx.bone, rb.Bone)
		w.Pack(&rigidBlock{
			Group:          uint8(rb.Group - 1),
			NoCollide:      rb.NoCollide.Mask(),
			Shape:          uint8(rb.Shape),
			Size:           narrow(rb.Size),
			Position:       narrow(rb.Position),
			Rotation:       narrow(rb.Rotation.Radians()),
			Mass:           float32(rb.Mass),
			LinearDamping:  float32(rb.LinearDamping),
			AngularDamping: float32(rb.AngularDamping),
			Restitution:    float32(rb.Restitution),
			Friction:       float32(rb.Friction),
			Mode:           uint8(rb.Mode),
		})
		if w.Err() != nil {
			return e.fail("rigid bodies", i)
		}
	}
	return nil
}

// JointKind is the constraint type.
type JointKind uint8

const (
	JointSpring6DOF JointKind = iota
	Joint6DOF
	JointP2P
	JointConeTwist
	JointSlider
	JointHinge
)

// Joint links two rigid bodies. Rotation fields are in degrees.
type Joint struct {
	Name           string
	NameEn         string
	Kind           JointKind
	BodyA          Ref
	BodyB          Ref
	Position       mathutil.Vec3
	Rotation       mathutil.Vec3
	MoveMin        mathutil.Vec3
	MoveMax        mathutil.Vec3
	RotationMin    mathutil.Vec3
	RotationMax    mathutil.Vec3
	SpringMove     mathutil.Vec3
	SpringRotation mathutil.Vec3
}

type jointBlock struct {
	Position       [3]float32
	Rotation       [3]float32
	MoveMin        [3]float32
	MoveMax        [3]float32
	RotationMin    [3]float32
	RotationMax    [3]float32
	SpringMove     [3]float32
	SpringRotation [3]float32
}

func (d *decoder) joints(m *Model) error {
	const section = "joints"
	r := d.r
	n := r.Count(8 + 1 + 2*d.idx.rigid.Size() + 96)
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	m.Joints = make([]Joint, n)
	for i := range m.Joints {
		j := &m.Joints[i]
		j.Name = r.Text()
		j.NameEn = r.Text()
		j.Kind = JointKind(r.U8())
		j.BodyA = d.ref(d.idx.rigid)
		j.BodyB = d.ref(d.idx.rigid)
		var blk jointBlock
		r.Unpack(&blk)
		if r.Err() != nil {
			return d.fail(section, i, r.Err())
		}
		j.Position = widen(blk.Position)
		j.Rotation = widen(blk.Rotation).Degrees()
		j.MoveMin = widen(blk.MoveMin)
		j.MoveMax = widen(blk.MoveMax)
		j.RotationMin = widen(blk.RotationMin).Degrees()
		j.RotationMax = widen(blk.RotationMax).Degrees()
		j.SpringMove = widen(blk.SpringMove)
		j.SpringRotation = widen(blk.SpringRotation)
	}
	return nil
}

func (e *encoder) joints(m *Model) error {
	w := e.w
	w.Count(len(m.Joints))
	for i := range m.Joints {
		j := &m.Joints[i]
		w.Text(j.Name)
		w.Text(j.NameEn)
		w.U8(uint8(j.Kind))
		e.ref(e.idx.rigid, j.BodyA)
		e.ref(e.idx.rigid, j.BodyB)
		w.Pack(&jointBlock{
			Position:       narrow(j.Position),
			Rotation:       narrow(j.Rotation.Radians()),
			MoveMin:        narrow(j.MoveMin),
			MoveMax:        narrow(j.MoveMax),
			RotationMin:    narrow(j.RotationMin.Radians()),
			RotationMax:    narrow(j.RotationMax.Radians()),
			SpringMove:     narrow(j.SpringMove),
			SpringRotation: narrow(j.SpringRotation),
		})
		if w.Err() != nil {
			return e.fail("joints", i)
		}
	}
	return nil
}
