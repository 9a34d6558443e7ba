package pmx

import (
	"pmx-toolkit/internal/binio"
	"pmx-toolkit/internal/mathutil"
)

// sampleModel builds a small model touching every section. Float values are
// chosen to be exact in float32.
func sampleModel(version float32, enc binio.Encoding, extraUVs int) *Model {
	m := New()
	m.Header.Version = version
	m.Header.Encoding = enc
	m.Header.AdditionalUVs = extraUVs
	m.Header.Name = "テストモデル"
	m.Header.NameEn = "test model"
	m.Header.Comment = "comment\r\nline two"

	uvs := func(base float64) []mathutil.Vec4 {
		if extraUVs == 0 {
			return nil
		}
		out := make([]mathutil.Vec4, extraUVs)
		for i := range out {
			out[i] = mathutil.Vec4{base, base + 0.5, 0, 1}
		}
		return out
	}
	m.Vertices = []Vertex{
		{Position: mathutil.Vec3{0, 1, 0}, Normal: mathutil.Vec3{0, 0, -1}, UV: [2]float64{0, 0}, ExtraUVs: uvs(0),
			Mode: BDEF1, Weights: []BoneWeight{{Bone: 0, Weight: 1}}, EdgeScale: 1},
		{Position: mathutil.Vec3{1, 1, 0}, Normal: mathutil.Vec3{0, 0, -1}, UV: [2]float64{1, 0}, ExtraUVs: uvs(0.25),
			Mode: BDEF2, Weights: []BoneWeight{{Bone: 0, Weight: 0.75}, {Bone: 1, Weight: 0.25}}, EdgeScale: 1},
		{Position: mathutil.Vec3{1, 0, 0}, Normal: mathutil.Vec3{0, 0, -1}, UV: [2]float64{1, 1}, ExtraUVs: uvs(0.5),
			Mode: BDEF4, Weights: []BoneWeight{{Bone: 0, Weight: 0.5}, {Bone: 1, Weight: 0.25}, {Bone: 2, Weight: 0.25}, {Bone: 0, Weight: 0}}, EdgeScale: 0.5},
		{Position: mathutil.Vec3{0, 0, 0}, Normal: mathutil.Vec3{0, 0, -1}, UV: [2]float64{0, 1}, ExtraUVs: uvs(0.75),
			Mode: SDEF, Weights: []BoneWeight{{Bone: 1, Weight: 0.5}, {Bone: 2, Weight: 0.5}},
			SDEF: &SDEFParams{C: mathutil.Vec3{0, 0.5, 0}, R0: mathutil.Vec3{0, 1, 0}, R1: mathutil.Vec3{0, 0, 0}}, EdgeScale: 1},
	}
	if version == Version21 {
		m.Vertices = append(m.Vertices, Vertex{
			Position: mathutil.Vec3{2, 2, 2}, ExtraUVs: uvs(1),
			Mode:    QDEF,
			Weights: []BoneWeight{{Bone: 0, Weight: 0.25}, {Bone: 1, Weight: 0.25}, {Bone: 2, Weight: 0.25}, {Bone: 0, Weight: 0.25}},
		})
	}
	m.Faces = []Face{{0, 1, 2}, {0, 2, 3}}
	m.Textures = []string{`tex\body.png`}

	m.Materials = []Material{
		{Name: "体", NameEn: "body", Diffuse: mathutil.Vec4{1, 1, 1, 1}, Specular: mathutil.Vec3{0.5, 0.5, 0.5}, SpecularStrength: 5,
			Ambient: mathutil.Vec3{0.5, 0.5, 0.5}, Flags: DoubleSided | DrawEdge, EdgeColor: mathutil.Vec4{0, 0, 0, 1}, EdgeSize: 1,
			Texture: `tex\body.png`, Sphere: `tex\body.sph`, SphereMode: SphereMultiply, Toon: BuiltinToon(3), FaceCount: 1},
		{Name: "髪", NameEn: "hair", Diffuse: mathutil.Vec4{0.5, 0.25, 0.125, 1}, Toon: TextureToon(`toon\hair.bmp`),
			Comment: "hair material", FaceCount: 1},
	}

	limit := 57.5
	m.Bones = []Bone{
		{Name: "センター", NameEn: "center", Rotatable: true, Translatable: true, Visible: true, Enabled: true,
			Parent: NoRef, Tail: TailBone{Bone: 1}},
		{Name: "上半身", NameEn: "upper body", Position: mathutil.Vec3{0, 1, 0}, Parent: 0, Rotatable: true, Visible: true, Enabled: true,
			Tail: TailOffset{Offset: mathutil.Vec3{0, 0.5, 0}}, Inherit: &Inherit{Rotation: true, Parent: 0, Ratio: 0.5},
			FixedAxis: &mathutil.Vec3{0, 1, 0}, LocalAxis: &LocalAxis{X: mathutil.Vec3{1, 0, 0}, Z: mathutil.Vec3{0, 0, 1}}},
		{Name: "足ＩＫ", NameEn: "leg IK", Position: mathutil.Vec3{0, 0, 0.5}, Parent: 0, DeformLayer: 1,
			Rotatable: true, Translatable: true, Visible: true, Enabled: true, PhysicsAfterDeform: true,
			Tail: TailBone{Bone: NoRef}, ExternalParent: new(int),
			IK: &IK{Target: 1, Loops: 40, Limit: limit, Links: []IKLink{
				{Bone: 1, Limits: &AngleLimits{Min: mathutil.Vec3{-180, 0, 0}, Max: mathutil.Vec3{-0.5, 0, 0}}},
				{Bone: 0},
			}},
			ExtraFlags: 0x4000},
	}

	m.Morphs = []Morph{
		{Name: "あ", Panel: PanelMouth, Kind: MorphVertex, Items: []MorphItem{
			VertexItem{Vertex: 0, Offset: mathutil.Vec3{0, 0.25, 0}},
			VertexItem{Vertex: 3, Offset: mathutil.Vec3{0, -0.25, 0}},
		}},
		{Name: "bone", Panel: PanelOther, Kind: MorphBone, Items: []MorphItem{
			BoneItem{Bone: 1, Translation: mathutil.Vec3{0, 0.5, 0}, Rotation: mathutil.Quat{0, 0, 0.5, 0.75}},
		}},
		{Name: "uv1", Panel: PanelOther, Kind: MorphUV, Items: []MorphItem{
			UVItem{Vertex: 2, Offset: mathutil.Vec4{0.25, 0, 0, 0}},
		}},
		{Name: "mat", Panel: PanelOther, Kind: MorphMaterial, Items: []MorphItem{
			MaterialItem{Material: NoRef, Op: MaterialAdd, Diffuse: mathutil.Vec4{0.5, 0, 0, 0}},
			MaterialItem{Material: 1, Op: MaterialMultiply, Diffuse: mathutil.Vec4{1, 1, 1, 1}, ToonTint: mathutil.Vec4{1, 1, 1, 1}},
		}},
		{Name: "group", Panel: PanelEye, Kind: MorphGroup, Items: []MorphItem{
			GroupItem{Morph: 0, Weight: 1},
			GroupItem{Morph: 1, Weight: 0.5},
		}},
	}
	if extraUVs > 0 {
		m.Morphs = append(m.Morphs, Morph{Name: "uv-extra", Panel: PanelOther, Kind: MorphUV1, Items: []MorphItem{
			UVItem{Layer: 1, Vertex: 1, Offset: mathutil.Vec4{0, 0.5, 0, 0}},
		}})
	}
	if version == Version21 {
		m.Morphs = append(m.Morphs,
			Morph{Name: "flip", Panel: PanelOther, Kind: MorphFlip, Items: []MorphItem{FlipItem{Morph: 0, Weight: 1}}},
			Morph{Name: "impulse", Panel: PanelOther, Kind: MorphImpulse, Items: []MorphItem{
				ImpulseItem{RigidBody: 1, Local: true, Velocity: mathutil.Vec3{0, 1, 0}, Torque: mathutil.Vec3{0, 0, 0.5}},
			}},
		)
	}

	m.Frames = []Frame{
		{Name: "Root", NameEn: "Root", Special: true, Items: []FrameItem{{Kind: FrameBone, Index: 0}}},
		{Name: "表情", NameEn: "Exp", Special: true, Items: []FrameItem{{Kind: FrameMorph, Index: 0}, {Kind: FrameMorph, Index: 4}}},
		{Name: "体", NameEn: "Body", Items: []FrameItem{{Kind: FrameBone, Index: 1}, {Kind: FrameBone, Index: 2}}},
	}

	m.RigidBodies = []RigidBody{
		{Name: "center", Bone: 0, Group: 1, NoCollide: GroupSet{1, 2}, Shape: ShapeSphere, Size: mathutil.Vec3{0.5, 0, 0},
			Rotation: mathutil.Vec3{0, 90, 0}, Mass: 1, LinearDamping: 0.5, AngularDamping: 0.5, Friction: 0.5, Mode: FollowBone},
		{Name: "skirt", Bone: NoRef, Group: 16, NoCollide: GroupSet{16}, Shape: ShapeCapsule, Size: mathutil.Vec3{0.25, 1, 0},
			Position: mathutil.Vec3{0, 0.5, 0}, Mass: 0.5, Mode: PhysicsAligned},
	}
	m.Joints = []Joint{
		{Name: "j", Kind: JointSpring6DOF, BodyA: 0, BodyB: 1, Position: mathutil.Vec3{0, 0.75, 0},
			RotationMin: mathutil.Vec3{-30, 0, 0}, RotationMax: mathutil.Vec3{30, 0, 0}, SpringMove: mathutil.Vec3{1, 1, 1}},
	}
	if version == Version21 {
		m.SoftBodies = []SoftBody{{
			Name: "cloth", Shape: SoftTriMesh, Material: 1, Group: 3, NoCollide: GroupSet{3}, Flags: 0x3,
			BendingLinkDistance: 2, Clusters: 4, TotalMass: 1, Margin: 0.25, AeroModel: 1,
			Config:     [12]float64{0, 0.5, 0, 0, 0, 0, 0.25},
			Iterations: [4]int{0, 1, 0, 0},
			Physics:    [3]float64{1, 1, 1},
			Anchors:    []SoftAnchor{{Body: 0, Vertex: 1, NearMode: true}},
			Pins:       []int{0, 2},
		}}
	}
	return m
}
