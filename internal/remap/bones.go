package remap

import (
	"pmx-toolkit/internal/pmx"
)

// DeleteBones removes the bones at the given strictly ascending positions.
// References to a deleted bone are broken rather than shifted: vertex
// weights become (bone 0, weight 0), rigid bodies lose their bone, bone and
// frame items are dropped, and each surviving bone loses the parent, tail,
// inherit, IK target or IK link that pointed at it. m is unchanged on error.
func DeleteBones(m *pmx.Model, bones []int) error {
	rm, err := prepare("bones", bones, len(m.Bones))
	if err != nil {
		return err
	}
	m.Bones = without(m.Bones, rm)
	rewriteBones(m, rm)
	return nil
}

// InsertBone inserts b at pos, shifting every reference at or after pos. The
// references inside b are taken as already expressed in the new numbering.
func InsertBone(m *pmx.Model, pos int, b pmx.Bone) error {
	if err := checkInsert("bone", pos, len(m.Bones)); err != nil {
		return err
	}
	rewriteBones(m, Insertion(pos))
	m.Bones = insertAt(m.Bones, pos, b)
	return nil
}

func rewriteBones(m *pmx.Model, rm RangeMap) {
	fallback := pmx.Ref(0)
	if len(m.Bones) == 0 {
		fallback = pmx.NoRef
	}
	for i := range m.Vertices {
		ws := m.Vertices[i].Weights
		for k := range ws {
			var ok bool
			if ws[k].Bone, ok = rm.mapRef(ws[k].Bone); !ok {
				ws[k] = pmx.BoneWeight{Bone: fallback}
			}
		}
	}

	for i := range m.Bones {
		rewriteBone(&m.Bones[i], rm)
	}

	for i := range m.Morphs {
		mo := &m.Morphs[i]
		if mo.Kind != pmx.MorphBone {
			continue
		}
		items := mo.Items[:0]
		for _, item := range mo.Items {
			it, ok := item.(pmx.BoneItem)
			if !ok {
				items = append(items, item)
				continue
			}
			if it.Bone, ok = rm.mapRef(it.Bone); ok {
				items = append(items, it)
			}
		}
		mo.Items = items
	}

	rewriteFrames(m, pmx.FrameBone, rm)

	for i := range m.RigidBodies {
		m.RigidBodies[i].Bone, _ = rm.mapRef(m.RigidBodies[i].Bone)
	}
}

func rewriteBone(b *pmx.Bone, rm RangeMap) {
	b.Parent, _ = rm.mapRef(b.Parent)
	if t, ok := b.Tail.(pmx.TailBone); ok {
		t.Bone, _ = rm.mapRef(t.Bone)
		b.Tail = t
	}
	if b.Inherit != nil {
		var ok bool
		if b.Inherit.Parent, ok = rm.mapRef(b.Inherit.Parent); !ok {
			b.Inherit = nil
		}
	}
	if ik := b.IK; ik != nil {
		var ok bool
		if ik.Target, ok = rm.mapRef(ik.Target); !ok {
			b.IK = nil
			return
		}
		links := ik.Links[:0]
		for _, link := range ik.Links {
			if link.Bone, ok = rm.mapRef(link.Bone); ok {
				links = append(links, link)
			}
		}
		ik.Links = links
	}
}

// rewriteFrames maps the frame items of one kind, dropping deleted ones.
func rewriteFrames(m *pmx.Model, kind pmx.FrameItemKind, rm RangeMap) {
	for i := range m.Frames {
		f := &m.Frames[i]
		items := f.Items[:0]
		for _, it := range f.Items {
			if it.Kind == kind {
				var ok bool
				if it.Index, ok = rm.mapRef(it.Index); !ok {
					continue
				}
			}
			items = append(items, it)
		}
		f.Items = items
	}
}
