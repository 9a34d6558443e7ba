package binio

import (
	"fmt"
	"math"
)

// IndexKind is the on-disk representation of one cross-reference category.
type IndexKind uint8

const (
	U8 IndexKind = iota
	U16
	I8
	I16
	I32
)

// Size returns the byte width of k.
func (k IndexKind) Size() int {
	switch k {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	default:
		return 4
	}
}

// Max returns the largest value representable by k.
func (k IndexKind) Max() int64 {
	switch k {
	case U8:
		return math.MaxUint8
	case U16:
		return math.MaxUint16
	case I8:
		return math.MaxInt8
	case I16:
		return math.MaxInt16
	default:
		return math.MaxInt32
	}
}

// Min returns the smallest value representable by k.
func (k IndexKind) Min() int64 {
	switch k {
	case U8, U16:
		return 0
	case I8:
		return math.MinInt8
	case I16:
		return math.MinInt16
	default:
		return math.MinInt32
	}
}

func (k IndexKind) String() string {
	switch k {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	default:
		return fmt.Sprintf("IndexKind(%d)", uint8(k))
	}
}

// VertexKind maps a header byte width to the vertex index representation,
// which is unsigned for 1 and 2 bytes.
func VertexKind(size uint8) (IndexKind, bool) {
	switch size {
	case 1:
		return U8, true
	case 2:
		return U16, true
	case 4:
		return I32, true
	}
	return 0, false
}

// SignedKind maps a header byte width to a signed index representation.
func SignedKind(size uint8) (IndexKind, bool) {
	switch size {
	case 1:
		return I8, true
	case 2:
		return I16, true
	case 4:
		return I32, true
	}
	return 0, false
}
