package pmx

// SoftShape is the soft body topology.
type SoftShape uint8

const (
	SoftTriMesh SoftShape = iota
	SoftRope
)

// SoftAnchor pins a soft-body vertex to a rigid body.
type SoftAnchor struct {
	Body     Ref
	Vertex   int
	NearMode bool
}

// SoftBody is a 2.1 soft-body record. Its parameters are carried through
// unchanged; only references are interpreted.
type SoftBody struct {
	Name                string
	NameEn              string
	Shape               SoftShape
	Material            Ref
	Group               int
	NoCollide           GroupSet
	Flags               uint8
	BendingLinkDistance int
	Clusters            int
	TotalMass           float64
	Margin              float64
	AeroModel           int
	Config              [12]float64
	Cluster             [6]float64
	Iterations          [4]int
	Physics             [3]float64
	Anchors             []SoftAnchor
	Pins                []int
}

type softBlock struct {
	Group      uint8
	NoCollide  uint16
	Flags      uint8
	BLink      int32
	Clusters   int32
	TotalMass  float32
	Margin     float32
	AeroModel  int32
	Config     [12]float32
	Cluster    [6]float32
	Iterations [4]int32
	Physics    [3]float32
}

func (d *decoder) softBodies(m *Model) error {
	const section = "soft bodies"
	r := d.r
	n := r.Count(8 + 1 + d.idx.material.Size() + 112 + 8)
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	m.SoftBodies = make([]SoftBody, n)
	for i := range m.SoftBodies {
		sb := &m.SoftBodies[i]
		sb.Name = r.Text()
		sb.NameEn = r.Text()
		sb.Shape = SoftShape(r.U8())
		sb.Material = d.ref(d.idx.material)
		var blk softBlock
		r.Unpack(&blk)
		sb.Group = int(blk.Group) + 1
		sb.NoCollide = GroupsFromMask(blk.NoCollide)
		sb.Flags = blk.Flags
		sb.BendingLinkDistance = int(blk.BLink)
		sb.Clusters = int(blk.Clusters)
		sb.TotalMass = float64(blk.TotalMass)
		sb.Margin = float64(blk.Margin)
		sb.AeroModel = int(blk.AeroModel)
		for k, v := range blk.Config {
			sb.Config[k] = float64(v)
		}
		for k, v := range blk.Cluster {
			sb.Cluster[k] = float64(v)
		}
		for k, v := range blk.Iterations {
			sb.Iterations[k] = int(v)
		}
		for k, v := range blk.Physics {
			sb.Physics[k] = float64(v)
		}

		anchors := r.Count(d.idx.rigid.Size() + d.idx.vertex.Size() + 1)
		if r.Err() != nil {
			return d.fail(section, i, r.Err())
		}
		sb.Anchors = make([]SoftAnchor, anchors)
		for k := range sb.Anchors {
			a := &sb.Anchors[k]
			a.Body = d.ref(d.idx.rigid)
			a.Vertex = r.Index(d.idx.vertex)
			a.NearMode = d.flag("anchor near mode")
		}
		pins := r.Count(d.idx.vertex.Size())
		if err := d.check(section, i); err != nil {
			return err
		}
		sb.Pins = make([]int, pins)
		for k := range sb.Pins {
			sb.Pins[k] = r.Index(d.idx.vertex)
		}
		if r.Err() != nil {
			return d.fail(section, i, r.Err())
		}
	}
	return nil
}

func (e *encoder) softBodies(m *Model) error {
	w := e.w
	w.Count(len(m.SoftBodies))
	for i := range m.SoftBodies {
		sb := &m.SoftBodies[i]
		w.Text(sb.Name)
		w.Text(sb.NameEn)
		w.U8(uint8(sb.Shape))
		e.ref(e.idx.material, sb.Material)
		blk := softBlock{
			Group:     uint8(sb.Group - 1),
			NoCollide: sb.NoCollide.Mask(),
			Flags:     sb.Flags,
			BLink:     int32(sb.BendingLinkDistance),
			Clusters:  int32(sb.Clusters),
			TotalMass: float32(sb.TotalMass),
			Margin:    float32(sb.Margin),
			AeroModel: int32(sb.AeroModel),
		}
		for k, v := range sb.Config {
			blk.Config[k] = float32(v)
		}
		for k, v := range sb.Cluster {
			blk.Cluster[k] = float32(v)
		}
		for k, v := range sb.Iterations {
			blk.Iterations[k] = int32(v)
		}
		for k, v := range sb.Physics {
			blk.Physics[k] = float32(v)
		}
		w.Pack(&blk)

		w.Count(len(sb.Anchors))
		for _, a := range sb.Anchors {
			e.ref(e.idx.rigid, a.Body)
			w.Index(e.idx.vertex, a.Vertex)
			var near uint8
			if a.NearMode {
				near = 1
			}
			w.U8(near)
		}
		w.Count(len(sb.Pins))
		for _, p := range sb.Pins {
			w.Index(e.idx.vertex, p)
		}
		if w.Err() != nil {
			return e.fail("soft bodies", i)
		}
	}
	return nil
}
