package remap

import (
	"pmx-toolkit/internal/pmx"
)

// DeleteVertices removes the vertices at the given strictly ascending
// positions. Faces using a deleted vertex are dropped and their material's
// face count shrinks; vertex and UV morph items, soft-body anchors and pins
// on deleted vertices are dropped.
func DeleteVertices(m *pmx.Model, vertices []int) error {
	rm, err := prepare("vertices", vertices, len(m.Vertices))
	if err != nil {
		return err
	}
	m.Vertices = without(m.Vertices, rm)

	owner := faceOwners(m)
	faces := m.Faces[:0]
	for i, f := range m.Faces {
		keep := true
		for k, v := range f {
			if rm.Deleted(v) {
				keep = false
				break
			}
			f[k] = rm.Remap(v)
		}
		if keep {
			faces = append(faces, f)
		} else if owner[i] >= 0 {
			m.Materials[owner[i]].FaceCount--
		}
	}
	m.Faces = faces

	for i := range m.Morphs {
		mo := &m.Morphs[i]
		items := mo.Items[:0]
		for _, item := range mo.Items {
			switch it := item.(type) {
			case pmx.VertexItem:
				if rm.Deleted(it.Vertex) {
					continue
				}
				it.Vertex = rm.Remap(it.Vertex)
				item = it
			case pmx.UVItem:
				if rm.Deleted(it.Vertex) {
					continue
				}
				it.Vertex = rm.Remap(it.Vertex)
				item = it
			}
			items = append(items, item)
		}
		mo.Items = items
	}

	for i := range m.SoftBodies {
		sb := &m.SoftBodies[i]
		anchors := sb.Anchors[:0]
		for _, a := range sb.Anchors {
			if rm.Deleted(a.Vertex) {
				continue
			}
			a.Vertex = rm.Remap(a.Vertex)
			anchors = append(anchors, a)
		}
		sb.Anchors = anchors
		pins := sb.Pins[:0]
		for _, p := range sb.Pins {
			if !rm.Deleted(p) {
				pins = append(pins, rm.Remap(p))
			}
		}
		sb.Pins = pins
	}
	return nil
}

// faceOwners maps each face to the material drawing it, -1 past the last
// material.
func faceOwners(m *pmx.Model) []int {
	owner := make([]int, len(m.Faces))
	for i := range owner {
		owner[i] = -1
	}
	for mi, r := range pmx.FaceRanges(m.Materials) {
		for f := r[0]; f < r[1] && f < len(owner); f++ {
			owner[f] = mi
		}
	}
	return owner
}
