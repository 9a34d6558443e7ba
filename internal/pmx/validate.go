package pmx

import (
	"fmt"
	"math"
)

// Validate checks every invariant Encode relies on and returns the first
// violation as a *ValidationError.
func Validate(m *Model) error {
	steps := []func(*Model) error{
		validateHeader,
		validateVertices,
		validateFaces,
		validateMaterials,
		validateBones,
		validateMorphs,
		validateFrames,
		validateRigidBodies,
		validateJoints,
		validateSoftBodies,
	}
	for _, step := range steps {
		if err := step(m); err != nil {
			return err
		}
	}
	return nil
}

func invalid(coll string, i int, invariant string, err error) error {
	return &ValidationError{Collection: coll, Index: i, Invariant: invariant, Err: err}
}

// checkRef accepts NoRef or a position in [0, n).
func checkRef(r Ref, n int, what string) error {
	if r == NoRef || r.In(n) {
		return nil
	}
	return fmtRange(what, int(r), n)
}

func checkVertex(v, n int) error {
	if v >= 0 && v < n {
		return nil
	}
	return fmtRange("vertex", v, n)
}

func validateHeader(m *Model) error {
	h := m.Header
	if !h.Encoding.Valid() {
		return invalid("header", -1, "text encoding", fmt.Errorf("%w: %d", ErrUnsupportedEncoding, uint8(h.Encoding)))
	}
	if h.AdditionalUVs < 0 || h.AdditionalUVs > 4 {
		return invalid("header", -1, "additional UV count", fmt.Errorf("%w: %d", ErrInvalidValue, h.AdditionalUVs))
	}
	if len(h.ExtraGlobals) > math.MaxUint8-knownGlobals {
		return invalid("header", -1, "global count", fmt.Errorf("%w: %d extra globals", ErrInvalidValue, len(h.ExtraGlobals)))
	}
	return nil
}

func validateVertices(m *Model) error {
	const coll = "vertices"
	bones := len(m.Bones)
	for i := range m.Vertices {
		v := &m.Vertices[i]
		switch {
		case v.Mode > QDEF:
			return invalid(coll, i, "weight mode", fmt.Errorf("%w: %d", ErrUnknownWeightMode, uint8(v.Mode)))
		case v.Mode == QDEF && !m.Header.IsV21():
			return invalid(coll, i, "weight mode", fmt.Errorf("%w: QDEF weights", ErrVersionFeature))
		case len(v.Weights) > v.Mode.Slots():
			return invalid(coll, i, "weight count", fmt.Errorf("%w: %d pairs for %v", ErrWeightListTooLong, len(v.Weights), v.Mode))
		case len(v.ExtraUVs) > m.Header.AdditionalUVs:
			return invalid(coll, i, "additional UVs", fmt.Errorf("%w: %d layers, header declares %d", ErrInvalidValue, len(v.ExtraUVs), m.Header.AdditionalUVs))
		case v.SDEF != nil && v.Mode != SDEF:
			return invalid(coll, i, "SDEF parameters", fmt.Errorf("%w: set on a %v vertex", ErrInvalidValue, v.Mode))
		}
		for _, w := range v.Weights {
			if err := checkRef(w.Bone, bones, "bone"); err != nil {
				return invalid(coll, i, "weight bone", err)
			}
		}
	}
	return nil
}

func validateFaces(m *Model) error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, v := range f {
			if err := checkVertex(v, n); err != nil {
				return invalid("faces", i, "face vertex", err)
			}
		}
	}
	return nil
}

func validateMaterials(m *Model) error {
	const coll = "materials"
	total := 0
	for i := range m.Materials {
		mat := &m.Materials[i]
		if mat.FaceCount < 0 {
			return invalid(coll, i, "face count", fmt.Errorf("%w: %d", ErrInvalidValue, mat.FaceCount))
		}
		switch t := mat.Toon.(type) {
		case BuiltinToon:
			if t < 0 || t > math.MaxUint8 {
				return invalid(coll, i, "builtin toon", fmt.Errorf("%w: %d", ErrInvalidValue, int(t)))
			}
		case TextureToon:
			if t == "" {
				return invalid(coll, i, "toon texture", fmt.Errorf("%w: empty path", ErrInvalidValue))
			}
		}
		total += mat.FaceCount
	}
	if total != len(m.Faces) {
		return invalid(coll, -1, "face coverage", fmt.Errorf("%w: materials cover %d faces, model has %d", ErrInvalidValue, total, len(m.Faces)))
	}
	return nil
}

func validateBones(m *Model) error {
	const coll = "bones"
	n := len(m.Bones)
	for i := range m.Bones {
		b := &m.Bones[i]
		if err := checkRef(b.Parent, n, "bone"); err != nil {
			return invalid(coll, i, "parent", err)
		}
		if t, ok := b.Tail.(TailBone); ok {
			if err := checkRef(t.Bone, n, "bone"); err != nil {
				return invalid(coll, i, "tail bone", err)
			}
		}
		if b.Inherit != nil {
			if err := checkRef(b.Inherit.Parent, n, "bone"); err != nil {
				return invalid(coll, i, "inherit parent", err)
			}
		}
		if ik := b.IK; ik != nil {
			if err := checkRef(ik.Target, n, "bone"); err != nil {
				return invalid(coll, i, "IK target", err)
			}
			for _, link := range ik.Links {
				if err := checkRef(link.Bone, n, "bone"); err != nil {
					return invalid(coll, i, "IK link", err)
				}
			}
		}
	}
	return nil
}

func validateMorphs(m *Model) error {
	const coll = "morphs"
	for i := range m.Morphs {
		mo := &m.Morphs[i]
		if !mo.Kind.Valid() {
			return invalid(coll, i, "morph type", fmt.Errorf("%w: %d", ErrUnknownMorphType, uint8(mo.Kind)))
		}
		if mo.Kind.v21Only() && !m.Header.IsV21() {
			return invalid(coll, i, "morph type", fmt.Errorf("%w: %v morph", ErrVersionFeature, mo.Kind))
		}
		if err := mo.checkItems(); err != nil {
			return invalid(coll, i, "item homogeneity", err)
		}
		for _, it := range mo.Items {
			if err := checkItemRefs(m, it); err != nil {
				return invalid(coll, i, "item reference", err)
			}
		}
	}
	return nil
}

func checkItemRefs(m *Model, item MorphItem) error {
	switch it := item.(type) {
	case GroupItem:
		return checkRef(it.Morph, len(m.Morphs), "morph")
	case FlipItem:
		return checkRef(it.Morph, len(m.Morphs), "morph")
	case VertexItem:
		return checkVertex(it.Vertex, len(m.Vertices))
	case UVItem:
		return checkVertex(it.Vertex, len(m.Vertices))
	case BoneItem:
		return checkRef(it.Bone, len(m.Bones), "bone")
	case MaterialItem:
		return checkRef(it.Material, len(m.Materials), "material")
	case ImpulseItem:
		return checkRef(it.RigidBody, len(m.RigidBodies), "rigid body")
	}
	return nil
}

func validateFrames(m *Model) error {
	for i := range m.Frames {
		for _, it := range m.Frames[i].Items {
			var err error
			switch it.Kind {
			case FrameBone:
				err = checkRef(it.Index, len(m.Bones), "bone")
			case FrameMorph:
				err = checkRef(it.Index, len(m.Morphs), "morph")
			default:
				err = fmt.Errorf("%w: frame item kind %d", ErrInvalidValue, uint8(it.Kind))
			}
			if err != nil {
				return invalid("frames", i, "frame item", err)
			}
		}
	}
	return nil
}

func checkGroups(group int, nc GroupSet) error {
	if group < MinGroup || group > MaxGroup {
		return fmt.Errorf("%w: group %d not in 1..16", ErrInvalidValue, group)
	}
	for _, g := range nc {
		if g < MinGroup || g > MaxGroup {
			return fmt.Errorf("%w: no-collide group %d not in 1..16", ErrInvalidValue, g)
		}
	}
	return nil
}

func validateRigidBodies(m *Model) error {
	const coll = "rigid bodies"
	for i := range m.RigidBodies {
		rb := &m.RigidBodies[i]
		if err := checkRef(rb.Bone, len(m.Bones), "bone"); err != nil {
			return invalid(coll, i, "bone", err)
		}
		if err := checkGroups(rb.Group, rb.NoCollide); err != nil {
			return invalid(coll, i, "collision groups", err)
		}
	}
	return nil
}

func validateJoints(m *Model) error {
	n := len(m.RigidBodies)
	for i := range m.Joints {
		j := &m.Joints[i]
		if err := checkRef(j.BodyA, n, "rigid body"); err != nil {
			return invalid("joints", i, "body A", err)
		}
		if err := checkRef(j.BodyB, n, "rigid body"); err != nil {
			return invalid("joints", i, "body B", err)
		}
	}
	return nil
}

func validateSoftBodies(m *Model) error {
	const coll = "soft bodies"
	if len(m.SoftBodies) > 0 && !m.Header.IsV21() {
		return invalid(coll, -1, "format version", fmt.Errorf("%w: soft bodies", ErrVersionFeature))
	}
	for i := range m.SoftBodies {
		sb := &m.SoftBodies[i]
		if err := checkRef(sb.Material, len(m.Materials), "material"); err != nil {
			return invalid(coll, i, "material", err)
		}
		if err := checkGroups(sb.Group, sb.NoCollide); err != nil {
			return invalid(coll, i, "collision groups", err)
		}
		for _, a := range sb.Anchors {
			if err := checkRef(a.Body, len(m.RigidBodies), "rigid body"); err != nil {
				return invalid(coll, i, "anchor body", err)
			}
			if err := checkVertex(a.Vertex, len(m.Vertices)); err != nil {
				return invalid(coll, i, "anchor vertex", err)
			}
		}
		for _, p := range sb.Pins {
			if err := checkVertex(p, len(m.Vertices)); err != nil {
				return invalid(coll, i, "pin vertex", err)
			}
		}
	}
	return nil
}
