package pmx

import "fmt"

// FrameItemKind says which collection a display-frame item points into.
type FrameItemKind uint8

const (
	FrameBone FrameItemKind = iota
	FrameMorph
)

type FrameItem struct {
	Kind  FrameItemKind
	Index Ref
}

// Frame is a display group shown in editors.
type Frame struct {
	Name    string
	NameEn  string
	Special bool
	Items   []FrameItem
}

func (d *decoder) frames(m *Model) error {
	const section = "frames"
	r := d.r
	n := r.Count(8 + 1 + 4)
	if r.Err() != nil {
		return d.fail(section, -1, r.Err())
	}
	m.Frames = make([]Frame, n)
	for i := range m.Frames {
		f := &m.Frames[i]
		f.Name = r.Text()
		f.NameEn = r.Text()
		f.Special = d.flag("special flag")
		count := r.Count(2)
		if err := d.check(section, i); err != nil {
			return err
		}
		f.Items = make([]FrameItem, count)
		for k := range f.Items {
			it := &f.Items[k]
			it.Kind = FrameItemKind(r.U8())
			switch it.Kind {
			case FrameBone:
				it.Index = d.ref(d.idx.bone)
			case FrameMorph:
				it.Index = d.ref(d.idx.morph)
			default:
				if r.Err() == nil {
					return d.fail(section, i, fmt.Errorf("%w: frame item %d kind %d", ErrInvalidValue, k, uint8(it.Kind)))
				}
			}
		}
		if r.Err() != nil {
			return d.fail(section, i, r.Err())
		}
	}
	return nil
}

func (e *encoder) frames(m *Model) error {
	w := e.w
	w.Count(len(m.Frames))
	for i := range m.Frames {
		f := &m.Frames[i]
		w.Text(f.Name)
		w.Text(f.NameEn)
		var special uint8
		if f.Special {
			special = 1
		}
		w.U8(special)
		w.Count(len(f.Items))
		for _, it := range f.Items {
			w.U8(uint8(it.Kind))
			if it.Kind == FrameMorph {
				e.ref(e.idx.morph, it.Index)
			} else {
				e.ref(e.idx.bone, it.Index)
			}
		}
		if w.Err() != nil {
			return e.fail("frames", i)
		}
	}
	return nil
}
