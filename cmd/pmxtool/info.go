package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pmx-toolkit/internal/batch"
	"pmx-toolkit/internal/pmx"
	"pmx-toolkit/internal/skeleton"
)

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Print a model's header, collection sizes and index widths",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, warnings, err := pmx.ReadFile(args[0])
		if err != nil {
			return err
		}
		return printInfo(cmd.OutOrStdout(), m, warnings)
	},
}

func printInfo(w io.Writer, m *pmx.Model, warnings []pmx.Warning) error {
	h := m.Header
	fmt.Fprintf(w, "Name:      %s / %s\n", h.Name, h.NameEn)
	fmt.Fprintf(w, "Version:   %.1f (%s, %d additional UVs)\n", h.Version, h.Encoding, h.AdditionalUVs)

	c := batch.CountsOf(m)
	fmt.Fprintf(w, "Vertices:  %d\n", c.Vertices)
	fmt.Fprintf(w, "Faces:     %d\n", c.Faces)
	fmt.Fprintf(w, "Textures:  %d\n", c.Textures)
	fmt.Fprintf(w, "Materials: %d\n", c.Materials)
	fmt.Fprintf(w, "Bones:     %d\n", c.Bones)
	fmt.Fprintf(w, "Morphs:    %d\n", c.Morphs)
	fmt.Fprintf(w, "Frames:    %d\n", c.Frames)
	fmt.Fprintf(w, "Bodies:    %d\n", c.RigidBodies)
	fmt.Fprintf(w, "Joints:    %d\n", c.Joints)
	if h.IsV21() {
		fmt.Fprintf(w, "Soft:      %d\n", c.SoftBodies)
	}

	widths, err := pmx.PlanWidths(m)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Index widths: vertex=%d texture=%d material=%d bone=%d morph=%d body=%d\n",
		widths.Vertex, widths.Texture, widths.Material, widths.Bone, widths.Morph, widths.RigidBody)

	if len(m.Bones) > 0 {
		depth := 0
		for _, d := range skeleton.Depths(m.Bones) {
			depth = max(depth, d)
		}
		fmt.Fprintf(w, "Skeleton:  %d roots, depth %d\n", len(skeleton.Roots(m.Bones)), depth)
		if cycle := skeleton.FindCycle(m.Bones); cycle != nil {
			fmt.Fprintf(w, "Parent cycle: %v\n", cycle)
		}
	}

	for _, warn := range warnings {
		fmt.Fprintf(w, "Warning: %s\n", warn)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
