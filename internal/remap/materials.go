package remap

import (
	"fmt"

	"pmx-toolkit/internal/pmx"
)

// DeleteMaterials removes the materials at the given strictly ascending
// positions together with the faces they draw. Material morph items naming
// a deleted material are dropped; items for all materials (NoRef) stay.
// Soft bodies on a deleted material lose their material. The material face
// counts must cover the face list exactly; m is unchanged on error.
func DeleteMaterials(m *pmx.Model, materials []int) error {
	rm, err := prepare("materials", materials, len(m.Materials))
	if err != nil {
		return err
	}
	ranges := pmx.FaceRanges(m.Materials)
	if err := checkCoverage(ranges, len(m.Faces)); err != nil {
		return err
	}
	var faces []pmx.Face
	for mi, r := range ranges {
		if rm.Deleted(mi) {
			continue
		}
		faces = append(faces, m.Faces[r[0]:r[1]]...)
	}
	m.Faces = faces
	m.Materials = without(m.Materials, rm)

	for i := range m.Morphs {
		mo := &m.Morphs[i]
		if mo.Kind != pmx.MorphMaterial {
			continue
		}
		items := mo.Items[:0]
		for _, item := range mo.Items {
			if it, ok := item.(pmx.MaterialItem); ok {
				if it.Material, ok = rm.mapRef(it.Material); !ok {
					continue
				}
				item = it
			}
			items = append(items, item)
		}
		mo.Items = items
	}

	for i := range m.SoftBodies {
		m.SoftBodies[i].Material, _ = rm.mapRef(m.SoftBodies[i].Material)
	}
	return nil
}

func checkCoverage(ranges [][2]int, faces int) error {
	covered := 0
	for mi, r := range ranges {
		if r[1] < r[0] {
			return fmt.Errorf("%w: material %d has face count %d", ErrOutOfRange, mi, r[1]-r[0])
		}
		covered = r[1]
	}
	if covered != faces {
		return fmt.Errorf("%w: materials cover %d faces, have %d", ErrOutOfRange, covered, faces)
	}
	return nil
}
