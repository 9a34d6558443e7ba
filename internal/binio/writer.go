package binio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Writer appends little-endian values to a growable buffer. Like Reader it
// keeps the first error and ignores writes after it.
type Writer struct {
	buf []byte
	enc Encoding
	err error
}

// NewWriter returns an empty Writer with room for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the written bytes, or nil if an error occurred.
func (w *Writer) Bytes() []byte {
	if w.err != nil {
		return nil
	}
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Err returns the first error that occurred during writing, if any.
func (w *Writer) Err() error {
	return w.err
}

// SetEncoding selects the text encoding used by Text.
func (w *Writer) SetEncoding(e Encoding) {
	w.enc = e
}

func (w *Writer) recordError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Raw appends b unchanged.
func (w *Writer) Raw(b []byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, b...)
}

func (w *Writer) U8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v)
}

func (w *Writer) I8(v int8) {
	w.U8(uint8(v))
}

func (w *Writer) U16(v uint16) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) I16(v int16) {
	w.U16(uint16(v))
}

func (w *Writer) U32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) I32(v int32) {
	w.U32(uint32(v))
}

// F32 narrows v to float32 and writes it.
func (w *Writer) F32(v float64) {
	w.U32(math.Float32bits(float32(v)))
}

// Floats writes each value of src as a float32.
func (w *Writer) Floats(src []float64) {
	for _, v := range src {
		w.F32(v)
	}
}

// Count writes an int32 element count.
func (w *Writer) Count(n int) {
	if n > math.MaxInt32 {
		w.recordError(fmt.Errorf("%w: count %d", ErrInvalidLength, n))
		return
	}
	w.I32(int32(n))
}

// Index writes one cross-reference of the given kind, failing if v does not
// fit.
func (w *Writer) Index(k IndexKind, v int) {
	if w.err != nil {
		return
	}
	if int64(v) < k.Min() || int64(v) > k.Max() {
		w.recordError(fmt.Errorf("%w: %d as %s", ErrIndexOverflow, v, k))
		return
	}
	switch k {
	case U8, I8:
		w.U8(uint8(v))
	case U16, I16:
		w.U16(uint16(v))
	default:
		w.I32(int32(v))
	}
}

// Text writes s as an int32 byte-length-prefixed string in the active
// encoding.
func (w *Writer) Text(s string) {
	if w.err != nil {
		return
	}
	raw, err := w.enc.Encode(s)
	if err != nil {
		w.recordError(err)
		return
	}
	w.Count(len(raw))
	w.Raw(raw)
}
