package remap

import (
	"pmx-toolkit/internal/pmx"
)

// DeleteRigidBodies removes the rigid bodies at the given strictly ascending
// positions. Joints attached to a deleted body, impulse items and soft-body
// anchors on it are dropped.
func DeleteRigidBodies(m *pmx.Model, bodies []int) error {
	rm, err := prepare("rigid bodies", bodies, len(m.RigidBodies))
	if err != nil {
		return err
	}
	m.RigidBodies = without(m.RigidBodies, rm)

	joints := m.Joints[:0]
	for _, j := range m.Joints {
		var okA, okB bool
		j.BodyA, okA = rm.mapRef(j.BodyA)
		j.BodyB, okB = rm.mapRef(j.BodyB)
		if okA && okB {
			joints = append(joints, j)
		}
	}
	m.Joints = joints

	for i := range m.Morphs {
		mo := &m.Morphs[i]
		if mo.Kind != pmx.MorphImpulse {
			continue
		}
		items := mo.Items[:0]
		for _, item := range mo.Items {
			if it, ok := item.(pmx.ImpulseItem); ok {
				if it.RigidBody, ok = rm.mapRef(it.RigidBody); !ok {
					continue
				}
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
			var ok bool
			if a.Body, ok = rm.mapRef(a.Body); ok {
				anchors = append(anchors, a)
			}
		}
		sb.Anchors = anchors
	}
	return nil
}
