package remap

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmx-toolkit/internal/pmx"
)

func TestBuildCoalescesRuns(t *testing.T) {
	rm, err := Build([]int{2, 3, 4, 9})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 9}, rm.starts)
	assert.Equal(t, []int{3, 4}, rm.offsets)
	assert.Equal(t, 2, rm.Runs())
	assert.Equal(t, 4, rm.Removed())

	assert.Equal(t, 6, rm.Remap(10))
	assert.Equal(t, 2, rm.Remap(5))
	assert.Equal(t, 1, rm.Remap(1))
	assert.Equal(t, 0, rm.Remap(0))
}

func TestBuildRejectsUnsorted(t *testing.T) {
	for _, deletes := range [][]int{{3, 2}, {1, 1}, {0, 4, 4, 5}} {
		_, err := Build(deletes)
		assert.ErrorIs(t, err, ErrUnsortedInput, "%v", deletes)
	}
	rm, err := Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 7, rm.Remap(7))
	assert.Equal(t, 0, rm.Removed())
}

func TestDeleted(t *testing.T) {
	rm, err := Build([]int{2, 3, 4, 9})
	require.NoError(t, err)
	var got []int
	for v := 0; v < 12; v++ {
		if rm.Deleted(v) {
			got = append(got, v)
		}
	}
	assert.Equal(t, []int{2, 3, 4, 9}, got)
}

// Remap(v) must equal v minus the number of deleted positions below v.
func TestRemapMatchesCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(60)
		set := map[int]bool{}
		for k := rng.Intn(n); k > 0; k-- {
			set[rng.Intn(n)] = true
		}
		deletes := make([]int, 0, len(set))
		for d := range set {
			deletes = append(deletes, d)
		}
		sort.Ints(deletes)

		rm, err := Build(deletes)
		require.NoError(t, err)
		var survivors []int
		for v := 0; v < n; v++ {
			if set[v] {
				assert.True(t, rm.Deleted(v))
				continue
			}
			below := sort.SearchInts(deletes, v)
			assert.Equal(t, v-below, rm.Remap(v), "deletes %v, v %d", deletes, v)
			survivors = append(survivors, v)
		}

		batch, err := rm.RemapSorted(survivors)
		require.NoError(t, err)
		for k, v := range survivors {
			assert.Equal(t, rm.Remap(v), batch[k])
		}
	}
}

func TestRemapRefKeepsSentinel(t *testing.T) {
	rm, err := Build([]int{0, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, pmx.NoRef, rm.RemapRef(pmx.NoRef))
	assert.Equal(t, pmx.Ref(2), rm.RemapRef(5))

	ins := Insertion(0)
	assert.Equal(t, pmx.NoRef, ins.RemapRef(pmx.NoRef))
}

func TestRemapSortedRejectsUnsorted(t *testing.T) {
	rm, err := Build([]int{1})
	require.NoError(t, err)
	_, err = rm.RemapSorted([]int{4, 2})
	assert.ErrorIs(t, err, ErrUnsortedInput)

	got, err := rm.RemapSorted([]int{0, 2, 2, 5})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1, 4}, got)
}

func TestInsertion(t *testing.T) {
	rm := Insertion(3)
	assert.Equal(t, 2, rm.Remap(2))
	assert.Equal(t, 4, rm.Remap(3))
	assert.Equal(t, 11, rm.Remap(10))
	assert.False(t, rm.Deleted(3))
	assert.Equal(t, -1, rm.Removed())
}
