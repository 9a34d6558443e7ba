package pmx

import (
	"fmt"

	"pmx-toolkit/internal/mathutil"
)

// WeightMode selects how a vertex is bound to bones.
type WeightMode uint8

const (
	BDEF1 WeightMode = iota
	BDEF2
	BDEF4
	SDEF
	QDEF // 2.1 only
)

// Slots returns the number of bone references the mode stores.
func (m WeightMode) Slots() int {
	switch m {
	case BDEF1:
		return 1
	case BDEF2, SDEF:
		return 2
	default:
		return 4
	}
}

func (m WeightMode) String() string {
	switch m {
	case BDEF1:
		return "BDEF1"
	case BDEF2:
		return "BDEF2"
	case BDEF4:
		return "BDEF4"
	case SDEF:
		return "SDEF"
	case QDEF:
		return "QDEF"
	default:
		return fmt.Sprintf("WeightMode(%d)", uint8(m))
	}
}

// BoneWeight is one (bone, weight) pair of a vertex.
type BoneWeight struct {
	Bone   Ref
	Weight float64
}

// SDEFParams are the spherical deform control points.
type SDEFParams struct {
	C  mathutil.Vec3
	R0 mathutil.Vec3
	R1 mathutil.Vec3
}

// Vertex is one mesh vertex. Weights holds at most Mode.Slots() pairs;
// shorter lists are padded with (bone 0, weight 0) on encode. For BDEF2 and
// SDEF only the first weight is stored; the second is its complement.
type Vertex struct {
	Position  mathutil.Vec3
	Normal    mathutil.Vec3
	UV        [2]float64
	ExtraUVs  []mathutil.Vec4
	Mode      WeightMode
	Weights   []BoneWeight
	SDEF      *SDEFParams // set only when Mode is SDEF
	EdgeScale float64
}

func (d *decoder) vertices(m *Model) error {
	const section = "vertices"
	r := d.r
	n := r.Count(37 + 16*d.extraUVs)
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	m.Vertices = make([]Vertex, n)
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = d.vec3()
		v.Normal = d.vec3()
		r.Floats(v.UV[:])
		if d.extraUVs > 0 {
			v.ExtraUVs = make([]mathutil.Vec4, d.extraUVs)
			for k := range v.ExtraUVs {
				v.ExtraUVs[k] = d.vec4()
			}
		}
		v.Mode = WeightMode(r.U8())
		if r.Err() != nil {
			return d.fail(section, i, r.Err())
		}
		if err := d.weights(v); err != nil {
			return d.fail(section, i, err)
		}
		v.EdgeScale = r.F32()
		if r.Err() != nil {
			return d.fail(section, i, r.Err())
		}
	}
	return nil
}

func (d *decoder) weights(v *Vertex) error {
	r := d.r
	bone := func() Ref { return d.ref(d.idx.bone) }
	switch v.Mode {
	case BDEF1:
		v.Weights = []BoneWeight{{Bone: bone(), Weight: 1}}
	case BDEF2, SDEF:
		b0, b1 := bone(), bone()
		w := r.F32()
		v.Weights = []BoneWeight{{Bone: b0, Weight: w}, {Bone: b1, Weight: 1 - w}}
		if v.Mode == SDEF {
			v.SDEF = &SDEFParams{C: d.vec3(), R0: d.vec3(), R1: d.vec3()}
		}
	case BDEF4, QDEF:
		if v.Mode == QDEF && !d.v21 {
			return fmt.Errorf("%w: QDEF weights", ErrVersionFeature)
		}
		v.Weights = make([]BoneWeight, 4)
		for k := range v.Weights {
			v.Weights[k].Bone = bone()
		}
		for k := range v.Weights {
			v.Weights[k].Weight = r.F32()
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownWeightMode, uint8(v.Mode))
	}
	return r.Err()
}

func (e *encoder) vertices(m *Model) error {
	const section = "vertices"
	w := e.w
	w.Count(len(m.Vertices))
	for i := range m.Vertices {
		v := &m.Vertices[i]
		e.vec3(v.Position)
		e.vec3(v.Normal)
		w.Floats(v.UV[:])
		for k := 0; k < e.extraUVs; k++ {
			var uv mathutil.Vec4
			if k < len(v.ExtraUVs) {
				uv = v.ExtraUVs[k]
			}
			e.vec4(uv)
		}
		w.U8(uint8(v.Mode))
		e.weights(v)
		w.F32(v.EdgeScale)
		if w.Err() != nil {
			return e.fail(section, i)
		}
	}
	return nil
}

// padWeights extends ws to n entries with (bone 0, weight 0).
func padWeights(ws []BoneWeight, n int) []BoneWeight {
	out := make([]BoneWeight, n)
	copy(out, ws)
	return out
}

func (e *encoder) weights(v *Vertex) {
	w := e.w
	ws := padWeights(v.Weights, v.Mode.Slots())
	switch v.Mode {
	case BDEF1:
		e.ref(e.idx.bone, ws[0].Bone)
	case BDEF2, SDEF:
		e.ref(e.idx.bone, ws[0].Bone)
		e.ref(e.idx.bone, ws[1].Bone)
		w.F32(ws[0].Weight)
		if v.Mode == SDEF {
			var p SDEFParams
			if v.SDEF != nil {
				p = *v.SDEF
			}
			e.vec3(p.C)
			e.vec3(p.R0)
			e.vec3(p.R1)
		}
	default:
		for _, bw := range ws {
			e.ref(e.idx.bone, bw.Bone)
		}
		for _, bw := range ws {
			w.F32(bw.Weight)
		}
	}
}
