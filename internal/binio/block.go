package binio

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-restruct/restruct"
)

// Fixed-layout records (runs of floats and bytes with no flag-gated parts)
// are described as structs and moved with restruct.

var blockSizes sync.Map // reflect.Type -> int

func blockSize(v any) (int, error) {
	t := reflect.TypeOf(v)
	if n, ok := blockSizes.Load(t); ok {
		return n.(int), nil
	}
	b, err := restruct.Pack(binary.LittleEndian, v)
	if err != nil {
		return 0, err
	}
	blockSizes.Store(t, len(b))
	return len(b), nil
}

// Unpack fills the struct pointed to by v from the next bytes.
func (r *Reader) Unpack(v any) {
	if r.err != nil {
		return
	}
	n, err := blockSize(v)
	if err != nil {
		r.recordError(fmt.Errorf("binio: block layout %T: %w", v, err))
		return
	}
	b := r.take(n)
	if b == nil {
		return
	}
	if err := restruct.Unpack(b, binary.LittleEndian, v); err != nil {
		r.recordError(fmt.Errorf("binio: unpack %T: %w", v, err))
	}
}

// Pack appends the struct pointed to by v.
func (w *Writer) Pack(v any) {
	if w.err != nil {
		return
	}
	b, err := restruct.Pack(binary.LittleEndian, v)
	if err != nil {
		w.recordError(fmt.Errorf("binio: pack %T: %w", v, err))
		return
	}
	w.Raw(b)
}
