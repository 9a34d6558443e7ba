package remap

import (
	"pmx-toolkit/internal/pmx"
)

// DeleteMorphs removes the morphs at the given strictly ascending positions.
// Frame items and group or flip items naming a deleted morph are dropped.
func DeleteMorphs(m *pmx.Model, morphs []int) error {
	rm, err := prepare("morphs", morphs, len(m.Morphs))
	if err != nil {
		return err
	}
	m.Morphs = without(m.Morphs, rm)
	rewriteMorphs(m, rm)
	return nil
}

// InsertMorph inserts mo at pos, shifting every morph reference at or after
// pos.
func InsertMorph(m *pmx.Model, pos int, mo pmx.Morph) error {
	if err := checkInsert("morph", pos, len(m.Morphs)); err != nil {
		return err
	}
	rewriteMorphs(m, Insertion(pos))
	m.Morphs = insertAt(m.Morphs, pos, mo)
	return nil
}

func rewriteMorphs(m *pmx.Model, rm RangeMap) {
	for i := range m.Morphs {
		mo := &m.Morphs[i]
		if mo.Kind != pmx.MorphGroup && mo.Kind != pmx.MorphFlip {
			continue
		}
		items := mo.Items[:0]
		for _, item := range mo.Items {
			var ok bool
			switch it := item.(type) {
			case pmx.GroupItem:
				it.Morph, ok = rm.mapRef(it.Morph)
				item = it
			case pmx.FlipItem:
				it.Morph, ok = rm.mapRef(it.Morph)
				item = it
			default:
				ok = true
			}
			if ok {
				items = append(items, item)
			}
		}
		mo.Items = items
	}
	rewriteFrames(m, pmx.FrameMorph, rm)
}
