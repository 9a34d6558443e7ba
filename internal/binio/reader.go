package binio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Reader is a cursor over an immutable byte buffer. The first failure is
// recorded and turns every later read into a zero-valued no-op, so callers
// can decode a whole record and check Err once.
type Reader struct {
	data   []byte
	off    int
	enc    Encoding
	err    error
	errOff int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first error that occurred during reading, if any.
func (r *Reader) Err() error {
	return r.err
}

// ErrOffset returns the cursor position at which Err occurred.
func (r *Reader) ErrOffset() int {
	return r.errOff
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// SetEncoding selects the text encoding used by Text.
func (r *Reader) SetEncoding(e Encoding) {
	r.enc = e
}

func (r *Reader) recordError(err error) {
	if r.err == nil && err != nil {
		r.err = err
		r.errOff = r.off
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.data)-r.off {
		r.recordError(fmt.Errorf("%w: need %d bytes at offset %d, %d left", ErrTruncatedInput, n, r.off, len(r.data)-r.off))
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// Bytes returns a copy of the next n bytes.
func (r *Reader) Bytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) I8() int8 {
	return int8(r.U8())
}

func (r *Reader) U16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) I16() int16 {
	return int16(r.U16())
}

func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) I32() int32 {
	return int32(r.U32())
}

// F32 reads a float32 and widens it to float64.
func (r *Reader) F32() float64 {
	return float64(math.Float32frombits(r.U32()))
}

// Floats fills dst with consecutive float32 values.
func (r *Reader) Floats(dst []float64) {
	for i := range dst {
		dst[i] = r.F32()
	}
}

// Count reads an int32 element count and checks it against the bytes left,
// given that each element occupies at least minSize bytes.
func (r *Reader) Count(minSize int) int {
	n := r.I32()
	if r.err != nil {
		return 0
	}
	if n < 0 {
		r.recordError(fmt.Errorf("%w: negative count %d", ErrInvalidLength, n))
		return 0
	}
	if minSize > 0 && int64(n)*int64(minSize) > int64(r.Remaining()) {
		r.recordError(fmt.Errorf("%w: count %d needs at least %d bytes, %d left", ErrTruncatedInput, n, int64(n)*int64(minSize), r.Remaining()))
		return 0
	}
	return int(n)
}

// Index reads one cross-reference of the given kind.
func (r *Reader) Index(k IndexKind) int {
	switch k {
	case U8:
		return int(r.U8())
	case U16:
		return int(r.U16())
	case I8:
		return int(r.I8())
	case I16:
		return int(r.I16())
	default:
		return int(r.I32())
	}
}

// Text reads an int32 byte-length-prefixed string in the active encoding.
func (r *Reader) Text() string {
	n := r.I32()
	if r.err != nil {
		return ""
	}
	if n < 0 {
		r.recordError(fmt.Errorf("%w: negative string length %d", ErrInvalidLength, n))
		return ""
	}
	raw := r.take(int(n))
	if r.err != nil {
		return ""
	}
	s, err := r.enc.Decode(raw)
	if err != nil {
		r.recordError(err)
		return ""
	}
	return s
}
