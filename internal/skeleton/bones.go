// Package skeleton answers hierarchy questions about a model's bones.
package skeleton

import (
	"sort"

	"pmx-toolkit/internal/pmx"
)

func parentOf(bones []pmx.Bone, i int) int {
	p := bones[i].Parent
	if !p.In(len(bones)) {
		return -1
	}
	return int(p)
}

// Children returns, for each bone, the bones that name it as parent.
func Children(bones []pmx.Bone) [][]int {
	children := make([][]int, len(bones))
	for i := range bones {
		if p := parentOf(bones, i); p >= 0 {
			children[p] = append(children[p], i)
		}
	}
	return children
}

// Roots returns the bones without a usable parent.
func Roots(bones []pmx.Bone) []int {
	var roots []int
	for i := range bones {
		if parentOf(bones, i) < 0 {
			roots = append(roots, i)
		}
	}
	return roots
}

// Descendants returns the given bones and everything below them, ascending
// and without duplicates. Positions outside bones are ignored.
func Descendants(bones []pmx.Bone, roots []int) []int {
	children := Children(bones)
	seen := make([]bool, len(bones))
	var queue, out []int
	for _, r := range roots {
		if r >= 0 && r < len(bones) && !seen[r] {
			seen[r] = true
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		out = append(out, b)
		for _, c := range children[b] {
			if !seen[c] {
				seen[c] = true
				queue = append(queue, c)
			}
		}
	}
	sort.Ints(out)
	return out
}

// FindCycle returns the first parent chain that loops back on itself, in
// chain order, or nil.
func FindCycle(bones []pmx.Bone) []int {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make([]uint8, len(bones))
	for i := range bones {
		var path []int
		cur := i
		for cur >= 0 && state[cur] == unvisited {
			state[cur] = onPath
			path = append(path, cur)
			cur = parentOf(bones, cur)
		}
		if cur >= 0 && state[cur] == onPath {
			for k, b := range path {
				if b == cur {
					return path[k:]
				}
			}
		}
		for _, b := range path {
			state[b] = done
		}
	}
	return nil
}

// Depths returns each bone's distance from its root, -1 for bones on or
// under a parent cycle.
func Depths(bones []pmx.Bone) []int {
	depth := make([]int, len(bones))
	for i := range depth {
		depth[i] = -2
	}
	var resolve func(i int, guard int) int
	resolve = func(i, guard int) int {
		if depth[i] != -2 {
			return depth[i]
		}
		if guard > len(bones) {
			return -1
		}
		p := parentOf(bones, i)
		if p < 0 {
			depth[i] = 0
			return 0
		}
		d := resolve(p, guard+1)
		if d >= 0 {
			d++
		}
		depth[i] = d
		return d
	}
	for i := range bones {
		resolve(i, 0)
	}
	return depth
}
