package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"pmx-toolkit/internal/pmx"
	"pmx-toolkit/internal/texture"
)

var (
	previewDir   string
	texturesJSON bool
)

var texturesCmd = &cobra.Command{
	Use:   "textures FILE",
	Short: "Check a model's textures against the files next to it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := pmx.ReadFile(args[0])
		if err != nil {
			return err
		}
		idx, err := texture.BuildIndex(filepath.Dir(args[0]))
		if err != nil {
			return err
		}
		cache, err := texture.NewCache(cfg.TextureCache)
		if err != nil {
			return err
		}
		glog.V(1).Infof("textures: %d files indexed under %s", idx.Len(), idx.Root())

		entries := texture.Audit(m, idx, cache)
		out := cmd.OutOrStdout()
		if texturesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(entries); err != nil {
				return err
			}
		} else {
			for _, e := range entries {
				fmt.Fprintln(out, describe(e))
			}
			fmt.Fprintf(out, "%d textures, %d problems\n", len(entries), len(texture.Problems(entries)))
		}

		if previewDir == "" {
			return nil
		}
		written := 0
		for _, e := range entries {
			if !e.Found || e.Builtin || e.Error != "" {
				continue
			}
			img, _, err := cache.Load(e.Resolved)
			if err != nil {
				continue
			}
			dst := filepath.Join(previewDir, previewName(e.Path))
			if err := texture.WritePreview(dst, texture.Thumbnail(img, cfg.PreviewSize)); err != nil {
				return err
			}
			written++
		}
		glog.Infof("wrote %d previews to %s", written, previewDir)
		return nil
	},
}

func describe(e texture.Entry) string {
	var status string
	switch {
	case e.Builtin:
		status = "builtin"
	case !e.Found:
		status = "MISSING"
	case e.Error != "":
		status = "BROKEN " + e.Error
	default:
		status = fmt.Sprintf("%s %dx%d", e.Format, e.Width, e.Height)
	}
	line := fmt.Sprintf("%-40s %s", e.Path, status)
	if len(e.Materials) > 0 {
		line += " [" + strings.Join(e.Materials, ", ") + "]"
	}
	return line
}

// previewName flattens a texture path into a single file name.
func previewName(texPath string) string {
	r := strings.NewReplacer("\\", "_", "/", "_", ":", "_")
	return r.Replace(texPath) + ".webp"
}

func init() {
	texturesCmd.Flags().StringVar(&previewDir, "preview", "", "write WebP previews of every found texture to this directory")
	texturesCmd.Flags().BoolVar(&texturesJSON, "json", false, "print the audit as JSON")
	rootCmd.AddCommand(texturesCmd)
}
