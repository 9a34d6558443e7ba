package main

import (
	"fmt"
	"sort"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"pmx-toolkit/internal/pmx"
	"pmx-toolkit/internal/remap"
	"pmx-toolkit/internal/skeleton"
)

var deleteOpts struct {
	output       string
	bones        []int
	withChildren bool
	vertices     []int
	morphs       []int
	materials    []int
	rigidBodies  []int
}

var deleteCmd = &cobra.Command{
	Use:   "delete FILE -o OUT",
	Short: "Delete entities and rewrite every reference to them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if deleteOpts.output == "" {
			return fmt.Errorf("--out is required")
		}
		m, warnings, err := pmx.ReadFile(args[0])
		if err != nil {
			return err
		}
		for _, w := range warnings {
			glog.Warningf("%s: %s", args[0], w)
		}

		bones := deleteOpts.bones
		if deleteOpts.withChildren {
			bones = skeleton.Descendants(m.Bones, bones)
		}
		if err := deleteAll(m, edits{
			bones:       bones,
			vertices:    deleteOpts.vertices,
			morphs:      deleteOpts.morphs,
			materials:   deleteOpts.materials,
			rigidBodies: deleteOpts.rigidBodies,
		}); err != nil {
			return err
		}

		if err := pmx.WriteFile(deleteOpts.output, m); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d vertices, %d bones, %d morphs, %d materials, %d rigid bodies\n",
			deleteOpts.output, len(m.Vertices), len(m.Bones), len(m.Morphs), len(m.Materials), len(m.RigidBodies))
		return nil
	},
}

type edits struct {
	bones, vertices, morphs, materials, rigidBodies []int
}

// deleteAll applies every deletion. Each list names positions in the
// original model; categories do not share indices, so order is free.
func deleteAll(m *pmx.Model, e edits) error {
	steps := []struct {
		name string
		list []int
		fn   func(*pmx.Model, []int) error
	}{
		{"morphs", e.morphs, remap.DeleteMorphs},
		{"rigid bodies", e.rigidBodies, remap.DeleteRigidBodies},
		{"materials", e.materials, remap.DeleteMaterials},
		{"vertices", e.vertices, remap.DeleteVertices},
		{"bones", e.bones, remap.DeleteBones},
	}
	for _, s := range steps {
		list := sortedUnique(s.list)
		if len(list) == 0 {
			continue
		}
		if err := s.fn(m, list); err != nil {
			return err
		}
		glog.Infof("deleted %d %s", len(list), s.name)
	}
	return nil
}

func sortedUnique(vals []int) []int {
	out := append([]int(nil), vals...)
	sort.Ints(out)
	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}
	return out[:n]
}

func init() {
	f := deleteCmd.Flags()
	f.StringVarP(&deleteOpts.output, "out", "o", "", "output model path")
	f.IntSliceVar(&deleteOpts.bones, "bones", nil, "bone positions to delete")
	f.BoolVar(&deleteOpts.withChildren, "with-children", false, "also delete every descendant of the given bones")
	f.IntSliceVar(&deleteOpts.vertices, "vertices", nil, "vertex positions to delete")
	f.IntSliceVar(&deleteOpts.morphs, "morphs", nil, "morph positions to delete")
	f.IntSliceVar(&deleteOpts.materials, "materials", nil, "material positions to delete")
	f.IntSliceVar(&deleteOpts.rigidBodies, "rigid-bodies", nil, "rigid body positions to delete")
	rootCmd.AddCommand(deleteCmd)
}
