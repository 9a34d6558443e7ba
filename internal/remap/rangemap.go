// Package remap deletes and inserts model entities while keeping every
// cross-reference consistent.
package remap

import (
	"errors"
	"fmt"
	"sort"

	"pmx-toolkit/internal/pmx"
)

var (
	ErrUnsortedInput = errors.New("remap: positions not strictly ascending")
	ErrOutOfRange    = errors.New("remap: position out of range")
)

// RangeMap translates old positions to new ones after a set of deletions.
// starts holds the first position of each run of deleted positions and
// offsets the number of deletions up to and including that run.
type RangeMap struct {
	starts  []int
	offsets []int
}

// Build coalesces a strictly ascending delete list into runs.
func Build(deletes []int) (RangeMap, error) {
	var rm RangeMap
	for i, d := range deletes {
		if i > 0 && d <= deletes[i-1] {
			return RangeMap{}, fmt.Errorf("%w: %d follows %d", ErrUnsortedInput, d, deletes[i-1])
		}
		if i > 0 && d == deletes[i-1]+1 {
			rm.offsets[len(rm.offsets)-1]++
			continue
		}
		rm.starts = append(rm.starts, d)
		rm.offsets = append(rm.offsets, i+1)
	}
	return rm, nil
}

// Insertion returns the map for a single slot reserved at pos: every
// position at or after pos moves up by one.
func Insertion(pos int) RangeMap {
	return RangeMap{starts: []int{pos}, offsets: []int{-1}}
}

// Runs returns the number of coalesced runs.
func (rm RangeMap) Runs() int {
	return len(rm.starts)
}

// Removed returns the net number of positions removed.
func (rm RangeMap) Removed() int {
	if len(rm.offsets) == 0 {
		return 0
	}
	return rm.offsets[len(rm.offsets)-1]
}

// run returns the index of the rightmost run starting at or before v, or -1.
func (rm RangeMap) run(v int) int {
	return sort.Search(len(rm.starts), func(i int) bool { return rm.starts[i] > v }) - 1
}

// Remap returns the new position of the surviving position v.
func (rm RangeMap) Remap(v int) int {
	i := rm.run(v)
	if i < 0 {
		return v
	}
	return v - rm.offsets[i]
}

// RemapRef is Remap for references; NoRef is returned unchanged.
func (rm RangeMap) RemapRef(r pmx.Ref) pmx.Ref {
	if r == pmx.NoRef {
		return r
	}
	return pmx.Ref(rm.Remap(int(r)))
}

// Deleted reports whether v falls inside a deleted run.
func (rm RangeMap) Deleted(v int) bool {
	i := rm.run(v)
	if i < 0 {
		return false
	}
	prev := 0
	if i > 0 {
		prev = rm.offsets[i-1]
	}
	return v < rm.starts[i]+rm.offsets[i]-prev
}

// RemapSorted remaps an ascending list in one pass over both arrays.
func (rm RangeMap) RemapSorted(vals []int) ([]int, error) {
	out := make([]int, len(vals))
	run := -1
	for k, v := range vals {
		if k > 0 && v < vals[k-1] {
			return nil, fmt.Errorf("%w: %d follows %d", ErrUnsortedInput, v, vals[k-1])
		}
		for run+1 < len(rm.starts) && rm.starts[run+1] <= v {
			run++
		}
		if run < 0 {
			out[k] = v
		} else {
			out[k] = v - rm.offsets[run]
		}
	}
	return out, nil
}

// mapRef follows a reference through rm. A reference to a deleted position
// reports false.
func (rm RangeMap) mapRef(r pmx.Ref) (pmx.Ref, bool) {
	if r == pmx.NoRef {
		return r, true
	}
	if rm.Deleted(int(r)) {
		return pmx.NoRef, false
	}
	return rm.RemapRef(r), true
}

// prepare checks a delete list against a collection of length n.
func prepare(what string, deletes []int, n int) (RangeMap, error) {
	rm, err := Build(deletes)
	if err != nil {
		return rm, fmt.Errorf("%s: %w", what, err)
	}
	if len(deletes) > 0 && (deletes[0] < 0 || deletes[len(deletes)-1] >= n) {
		return rm, fmt.Errorf("%w: %s %v, have %d", ErrOutOfRange, what, deletes, n)
	}
	return rm, nil
}

func checkInsert(what string, pos, n int) error {
	if pos < 0 || pos > n {
		return fmt.Errorf("%w: insert %s at %d, have %d", ErrOutOfRange, what, pos, n)
	}
	return nil
}

// without returns items minus the positions rm deletes.
func without[T any](items []T, rm RangeMap) []T {
	out := items[:0]
	for i, it := range items {
		if !rm.Deleted(i) {
			out = append(out, it)
		}
	}
	return out
}

func insertAt[T any](items []T, pos int, it T) []T {
	var zero T
	items = append(items, zero)
	copy(items[pos+1:], items[pos:])
	items[pos] = it
	return items
}
