package remap

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmx-toolkit/internal/binio"
	"pmx-toolkit/internal/pmx"
)

func weights(bones ...pmx.Ref) []pmx.BoneWeight {
	ws := make([]pmx.BoneWeight, len(bones))
	for i, b := range bones {
		ws[i] = pmx.BoneWeight{Bone: b, Weight: 1 / float64(len(bones))}
	}
	return ws
}

// rig builds a small 2.1 model: four bones (root, mid, leaf, ik), five
// vertices, three faces over two materials, and a morph, frame and physics
// setup referencing all of them.
func rig() *pmx.Model {
	m := pmx.New()
	m.Header.Version = pmx.Version21
	m.Bones = []pmx.Bone{
		{Name: "root", Parent: pmx.NoRef, Tail: pmx.TailBone{Bone: 1}},
		{Name: "mid", Parent: 0, Tail: pmx.TailBone{Bone: 2}, Inherit: &pmx.Inherit{Rotation: true, Parent: 0, Ratio: 1}},
		{Name: "leaf", Parent: 1, Tail: pmx.TailBone{Bone: pmx.NoRef}, Inherit: &pmx.Inherit{Rotation: true, Parent: 1, Ratio: 1},
			IK: &pmx.IK{Target: 1, Loops: 1, Links: []pmx.IKLink{{Bone: 1}, {Bone: 0}}}},
		{Name: "ik", Parent: 0, Tail: pmx.TailBone{Bone: 1},
			IK: &pmx.IK{Target: 2, Loops: 1, Links: []pmx.IKLink{{Bone: 2}, {Bone: 1}}}},
	}
	m.Vertices = []pmx.Vertex{
		{Mode: pmx.BDEF1, Weights: weights(0)},
		{Mode: pmx.BDEF1, Weights: weights(1)},
		{Mode: pmx.BDEF2, Weights: weights(1, 2)},
		{Mode: pmx.BDEF4, Weights: weights(0, 1, 2, 3)},
		{Mode: pmx.BDEF1, Weights: weights(3)},
	}
	m.Faces = []pmx.Face{{0, 1, 2}, {2, 3, 4}, {0, 2, 4}}
	m.Materials = []pmx.Material{{Name: "a", FaceCount: 2}, {Name: "b", FaceCount: 1}}
	m.Morphs = []pmx.Morph{
		{Name: "verts", Kind: pmx.MorphVertex, Items: []pmx.MorphItem{pmx.VertexItem{Vertex: 1}, pmx.VertexItem{Vertex: 3}}},
		{Name: "bones", Kind: pmx.MorphBone, Items: []pmx.MorphItem{pmx.BoneItem{Bone: 1}, pmx.BoneItem{Bone: 3}}},
		{Name: "group", Kind: pmx.MorphGroup, Items: []pmx.MorphItem{pmx.GroupItem{Morph: 0, Weight: 1}, pmx.GroupItem{Morph: 1, Weight: 1}}},
		{Name: "flip", Kind: pmx.MorphFlip, Items: []pmx.MorphItem{pmx.FlipItem{Morph: 1, Weight: 1}}},
		{Name: "uv", Kind: pmx.MorphUV, Items: []pmx.MorphItem{pmx.UVItem{Vertex: 4}}},
		{Name: "mats", Kind: pmx.MorphMaterial, Items: []pmx.MorphItem{
			pmx.MaterialItem{Material: pmx.NoRef}, pmx.MaterialItem{Material: 0}, pmx.MaterialItem{Material: 1},
		}},
		{Name: "push", Kind: pmx.MorphImpulse, Items: []pmx.MorphItem{pmx.ImpulseItem{RigidBody: 1}, pmx.ImpulseItem{RigidBody: 2}}},
	}
	m.Frames = []pmx.Frame{
		{Name: "bones", Items: []pmx.FrameItem{{Kind: pmx.FrameBone, Index: 0}, {Kind: pmx.FrameBone, Index: 1}, {Kind: pmx.FrameBone, Index: 2}}},
		{Name: "morphs", Items: []pmx.FrameItem{{Kind: pmx.FrameMorph, Index: 1}, {Kind: pmx.FrameMorph, Index: 2}}},
	}
	m.RigidBodies = []pmx.RigidBody{
		{Name: "r0", Bone: 1, Group: 1},
		{Name: "r1", Bone: 3, Group: 1},
		{Name: "r2", Bone: pmx.NoRef, Group: 2},
	}
	m.Joints = []pmx.Joint{
		{Name: "j01", BodyA: 0, BodyB: 1},
		{Name: "j02", BodyA: 0, BodyB: 2},
	}
	m.SoftBodies = []pmx.SoftBody{{
		Name: "soft", Material: 1, Group: 1,
		Anchors: []pmx.SoftAnchor{{Body: 1, Vertex: 3}, {Body: 2, Vertex: 4}},
		Pins:    []int{0, 3, 4},
	}}
	return m
}

func TestRigIsValid(t *testing.T) {
	require.NoError(t, pmx.Validate(rig()))
}

func TestDeleteBones(t *testing.T) {
	m := rig()
	require.NoError(t, DeleteBones(m, []int{1}))
	require.NoError(t, pmx.Validate(m))

	require.Len(t, m.Bones, 3)
	root, leaf, ik := m.Bones[0], m.Bones[1], m.Bones[2]
	assert.Equal(t, "leaf", leaf.Name)
	assert.Equal(t, pmx.TailBone{Bone: pmx.NoRef}, root.Tail)

	assert.Equal(t, pmx.NoRef, leaf.Parent)
	assert.Nil(t, leaf.Inherit)
	assert.Nil(t, leaf.IK)

	assert.Equal(t, pmx.Ref(0), ik.Parent)
	require.NotNil(t, ik.IK)
	assert.Equal(t, pmx.Ref(1), ik.IK.Target)
	assert.Equal(t, []pmx.IKLink{{Bone: 1}}, ik.IK.Links)
	assert.Equal(t, pmx.TailBone{Bone: pmx.NoRef}, ik.Tail)

	assert.Equal(t, []pmx.BoneWeight{{Bone: 0, Weight: 0}}, m.Vertices[1].Weights)
	assert.Equal(t, []pmx.BoneWeight{{Bone: 0, Weight: 0}, {Bone: 1, Weight: 0.5}}, m.Vertices[2].Weights)
	assert.Equal(t, pmx.Ref(2), m.Vertices[4].Weights[0].Bone)

	// Surviving weights are not renormalised.
	four := m.Vertices[3].Weights
	assert.Equal(t, []pmx.BoneWeight{{Bone: 0, Weight: 0.25}, {Bone: 0, Weight: 0}, {Bone: 1, Weight: 0.25}, {Bone: 2, Weight: 0.25}}, four)
	var sum float64
	for _, w := range four {
		sum += w.Weight
	}
	assert.InDelta(t, 0.75, sum, 1e-12)

	assert.Equal(t, []pmx.MorphItem{pmx.BoneItem{Bone: 2}}, m.Morphs[1].Items)
	assert.Equal(t, []pmx.FrameItem{{Kind: pmx.FrameBone, Index: 0}, {Kind: pmx.FrameBone, Index: 1}}, m.Frames[0].Items)
	assert.Len(t, m.Frames[1].Items, 2, "morph items untouched")

	assert.Equal(t, pmx.NoRef, m.RigidBodies[0].Bone)
	assert.Equal(t, pmx.Ref(2), m.RigidBodies[1].Bone)
	assert.Equal(t, pmx.NoRef, m.RigidBodies[2].Bone)
}

func TestDeleteMiddleOfThreeBones(t *testing.T) {
	tests := []struct {
		name       string
		leafParent pmx.Ref
		want       pmx.Ref
	}{
		{"parent survives", 0, 0},
		{"parent deleted", 1, pmx.NoRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := pmx.New()
			m.Bones = []pmx.Bone{
				{Name: "a", Parent: pmx.NoRef},
				{Name: "b", Parent: 0},
				{Name: "c", Parent: tt.leafParent},
			}
			data, err := pmx.Encode(m)
			require.NoError(t, err)
			m, _, err = pmx.Decode(data)
			require.NoError(t, err)

			require.NoError(t, DeleteBones(m, []int{1}))
			require.Len(t, m.Bones, 2)
			assert.Equal(t, "c", m.Bones[1].Name)
			assert.Equal(t, tt.want, m.Bones[1].Parent)

			_, err = pmx.Encode(m)
			assert.NoError(t, err)
		})
	}
}

func TestDeleteAllBones(t *testing.T) {
	m := rig()
	require.NoError(t, DeleteBones(m, []int{0, 1, 2, 3}))
	assert.Empty(t, m.Bones)
	for _, v := range m.Vertices {
		for _, w := range v.Weights {
			assert.Equal(t, pmx.NoRef, w.Bone)
		}
	}
	assert.Empty(t, m.Morphs[1].Items)
	assert.NoError(t, pmx.Validate(m))
}

func TestDeleteVertices(t *testing.T) {
	m := rig()
	require.NoError(t, DeleteVertices(m, []int{3}))
	require.NoError(t, pmx.Validate(m))

	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, []pmx.Face{{0, 1, 2}, {0, 2, 3}}, m.Faces)
	assert.Equal(t, 1, m.Materials[0].FaceCount)
	assert.Equal(t, 1, m.Materials[1].FaceCount)
	assert.Equal(t, []pmx.MorphItem{pmx.VertexItem{Vertex: 1}}, m.Morphs[0].Items)
	assert.Equal(t, []pmx.MorphItem{pmx.UVItem{Vertex: 3}}, m.Morphs[4].Items)
	assert.Equal(t, []pmx.SoftAnchor{{Body: 2, Vertex: 3}}, m.SoftBodies[0].Anchors)
	assert.Equal(t, []int{0, 3}, m.SoftBodies[0].Pins)
}

func TestDeleteMorphs(t *testing.T) {
	m := rig()
	require.NoError(t, DeleteMorphs(m, []int{1}))
	require.NoError(t, pmx.Validate(m))

	require.Len(t, m.Morphs, 6)
	assert.Equal(t, "group", m.Morphs[1].Name)
	assert.Equal(t, []pmx.MorphItem{pmx.GroupItem{Morph: 0, Weight: 1}}, m.Morphs[1].Items)
	assert.Empty(t, m.Morphs[2].Items)
	assert.Equal(t, []pmx.FrameItem{{Kind: pmx.FrameMorph, Index: 1}}, m.Frames[1].Items)
	assert.Len(t, m.Frames[0].Items, 3, "bone items untouched")
}

func TestDeleteMaterials(t *testing.T) {
	m := rig()
	require.NoError(t, DeleteMaterials(m, []int{0}))
	require.NoError(t, pmx.Validate(m))

	assert.Equal(t, []pmx.Face{{0, 2, 4}}, m.Faces)
	require.Len(t, m.Materials, 1)
	assert.Equal(t, "b", m.Materials[0].Name)
	assert.Equal(t, []pmx.MorphItem{pmx.MaterialItem{Material: pmx.NoRef}, pmx.MaterialItem{Material: 0}}, m.Morphs[5].Items)
	assert.Equal(t, pmx.Ref(0), m.SoftBodies[0].Material)

	require.NoError(t, DeleteMaterials(m, []int{0}))
	assert.Empty(t, m.Faces)
	assert.Equal(t, pmx.NoRef, m.SoftBodies[0].Material)
}

func TestDeleteRigidBodies(t *testing.T) {
	m := rig()
	require.NoError(t, DeleteRigidBodies(m, []int{1}))
	require.NoError(t, pmx.Validate(m))

	require.Len(t, m.RigidBodies, 2)
	require.Len(t, m.Joints, 1)
	assert.Equal(t, "j02", m.Joints[0].Name)
	assert.Equal(t, pmx.Ref(1), m.Joints[0].BodyB)
	assert.Equal(t, []pmx.MorphItem{pmx.ImpulseItem{RigidBody: 1}}, m.Morphs[6].Items)
	assert.Equal(t, []pmx.SoftAnchor{{Body: 1, Vertex: 4}}, m.SoftBodies[0].Anchors)
}

func TestInsertBone(t *testing.T) {
	m := rig()
	require.NoError(t, InsertBone(m, 1, pmx.Bone{Name: "new", Parent: 0}))
	require.NoError(t, pmx.Validate(m))

	require.Len(t, m.Bones, 5)
	assert.Equal(t, "new", m.Bones[1].Name)
	assert.Equal(t, pmx.Ref(0), m.Bones[1].Parent)
	assert.Equal(t, pmx.Ref(0), m.Bones[2].Parent, "mid keeps root")
	assert.Equal(t, pmx.Ref(2), m.Bones[3].Parent, "leaf follows mid")
	assert.Equal(t, pmx.Ref(3), m.Bones[4].IK.Target)
	assert.Equal(t, pmx.Ref(4), m.Vertices[4].Weights[0].Bone)
	assert.Equal(t, pmx.Ref(0), m.Vertices[0].Weights[0].Bone)
	assert.Equal(t, pmx.Ref(2), m.RigidBodies[0].Bone)

	require.NoError(t, InsertBone(m, 5, pmx.Bone{Name: "last", Parent: pmx.NoRef}))
	assert.Equal(t, "last", m.Bones[5].Name)
}

func TestInsertMorph(t *testing.T) {
	m := rig()
	require.NoError(t, InsertMorph(m, 0, pmx.Morph{Name: "first", Kind: pmx.MorphGroup}))
	require.NoError(t, pmx.Validate(m))

	assert.Equal(t, "first", m.Morphs[0].Name)
	assert.Equal(t, []pmx.MorphItem{pmx.GroupItem{Morph: 1, Weight: 1}, pmx.GroupItem{Morph: 2, Weight: 1}}, m.Morphs[3].Items)
	assert.Equal(t, []pmx.FrameItem{{Kind: pmx.FrameMorph, Index: 2}, {Kind: pmx.FrameMorph, Index: 3}}, m.Frames[1].Items)
}

func TestFailuresLeaveModelUnchanged(t *testing.T) {
	tests := []struct {
		name string
		run  func(m *pmx.Model) error
		want error
	}{
		{"unsorted bones", func(m *pmx.Model) error { return DeleteBones(m, []int{2, 1}) }, ErrUnsortedInput},
		{"duplicate vertices", func(m *pmx.Model) error { return DeleteVertices(m, []int{1, 1}) }, ErrUnsortedInput},
		{"bone out of range", func(m *pmx.Model) error { return DeleteBones(m, []int{1, 4}) }, ErrOutOfRange},
		{"negative morph", func(m *pmx.Model) error { return DeleteMorphs(m, []int{-1}) }, ErrOutOfRange},
		{"material out of range", func(m *pmx.Model) error { return DeleteMaterials(m, []int{2}) }, ErrOutOfRange},
		{"rigid body unsorted", func(m *pmx.Model) error { return DeleteRigidBodies(m, []int{2, 0}) }, ErrUnsortedInput},
		{"insert bone past end", func(m *pmx.Model) error { return InsertBone(m, 5, pmx.Bone{}) }, ErrOutOfRange},
		{"insert morph negative", func(m *pmx.Model) error { return InsertMorph(m, -1, pmx.Morph{}) }, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := rig()
			err := tt.run(m)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, rig(), m)
		})
	}
}

func TestDeleteMaterialsRejectsFaceCountOverrun(t *testing.T) {
	m := pmx.New()
	m.Header.Encoding = binio.UTF8
	m.Bones = []pmx.Bone{{Name: "root", Parent: pmx.NoRef, Tail: pmx.TailBone{Bone: pmx.NoRef}}}
	m.Vertices = []pmx.Vertex{
		{Mode: pmx.BDEF1, Weights: weights(0)},
		{Mode: pmx.BDEF1, Weights: weights(0)},
		{Mode: pmx.BDEF1, Weights: weights(0)},
	}
	m.Faces = []pmx.Face{{0, 1, 2}}
	m.Materials = []pmx.Material{{Name: "first", FaceCount: 1}, {Name: "second"}}
	data, err := pmx.Encode(m)
	require.NoError(t, err)

	// The face index count of "first" directly precedes the length prefix
	// of the next material's name.
	at := bytes.Index(data, []byte("second")) - 8
	require.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[at:]))
	binary.LittleEndian.PutUint32(data[at:], 30)

	got, _, err := pmx.Decode(data)
	require.NoError(t, err)
	require.Equal(t, 10, got.Materials[0].FaceCount)
	before, _, err := pmx.Decode(data)
	require.NoError(t, err)

	err = DeleteMaterials(got, []int{0})
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, before, got)
}
