package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmx-toolkit/internal/pmx"
	"pmx-toolkit/internal/skeleton"
)

func chain() *pmx.Model {
	m := pmx.New()
	m.Bones = []pmx.Bone{
		{Name: "root", Parent: pmx.NoRef, Tail: pmx.TailBone{Bone: 1}},
		{Name: "arm", Parent: 0, Tail: pmx.TailBone{Bone: 2}},
		{Name: "hand", Parent: 1, Tail: pmx.TailBone{Bone: pmx.NoRef}},
	}
	m.Vertices = []pmx.Vertex{
		{Mode: pmx.BDEF1, Weights: []pmx.BoneWeight{{Bone: 0, Weight: 1}}},
		{Mode: pmx.BDEF1, Weights: []pmx.BoneWeight{{Bone: 1, Weight: 1}}},
		{Mode: pmx.BDEF1, Weights: []pmx.BoneWeight{{Bone: 2, Weight: 1}}},
	}
	m.Faces = []pmx.Face{{0, 1, 2}}
	m.Materials = []pmx.Material{{Name: "body", Texture: "tex/body.png", FaceCount: 1}}
	m.Morphs = []pmx.Morph{
		{Name: "wave", Kind: pmx.MorphBone, Items: []pmx.MorphItem{pmx.BoneItem{Bone: 2}}},
		{Name: "smile", Kind: pmx.MorphVertex, Items: []pmx.MorphItem{pmx.VertexItem{Vertex: 1}}},
	}
	return m
}

func TestSortedUnique(t *testing.T) {
	tests := []struct {
		in   []int
		want []int
	}{
		{nil, nil},
		{[]int{3, 1, 2}, []int{1, 2, 3}},
		{[]int{2, 2, 0, 2}, []int{0, 2}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sortedUnique(tt.in))
	}
}

func TestDeleteAll(t *testing.T) {
	m := chain()
	bones := skeleton.Descendants(m.Bones, []int{1})
	require.Equal(t, []int{1, 2}, bones)

	require.NoError(t, deleteAll(m, edits{bones: bones, morphs: []int{1, 1}}))

	require.Len(t, m.Bones, 1)
	assert.Equal(t, pmx.TailBone{Bone: pmx.NoRef}, m.Bones[0].Tail)
	require.Len(t, m.Morphs, 1)
	assert.Equal(t, "wave", m.Morphs[0].Name)
	assert.Empty(t, m.Morphs[0].Items)
	for _, v := range m.Vertices {
		assert.Equal(t, pmx.Ref(0), v.Weights[0].Bone)
	}
	assert.NoError(t, pmx.Validate(m))
}

func TestDeleteAllOutOfRange(t *testing.T) {
	m := chain()
	err := deleteAll(m, edits{vertices: []int{7}})
	require.Error(t, err)
	assert.Len(t, m.Vertices, 3)
}

func TestPrintInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.pmx")
	require.NoError(t, pmx.WriteFile(path, chain()))

	m, warnings, err := pmx.ReadFile(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printInfo(&buf, m, warnings))
	out := buf.String()
	assert.Contains(t, out, "Vertices:  3")
	assert.Contains(t, out, "Bones:     3")
	assert.Contains(t, out, "Textures:  1")
	assert.Contains(t, out, "Skeleton:  1 roots, depth 2")
	assert.NotContains(t, out, "Warning")
}

func TestPreviewName(t *testing.T) {
	assert.Equal(t, "tex_body.png.webp", previewName(`tex\body.png`))
	assert.Equal(t, "a_b_c.bmp.webp", previewName("a/b/c.bmp"))
}
