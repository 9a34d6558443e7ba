package texture

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// Index maps model-relative texture paths to files on disk. Lookups ignore
// case and accept either separator, since models are usually authored on
// case-insensitive filesystems with backslash paths.
type Index struct {
	root    string
	entries map[string]string // normalized relative path -> full path
}

// BuildIndex walks modelDir and records every regular file below it.
func BuildIndex(modelDir string) (*Index, error) {
	idx := &Index{root: modelDir, entries: make(map[string]string)}
	err := filepath.WalkDir(modelDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(modelDir, p)
		if err != nil {
			return err
		}
		key := normalize(filepath.ToSlash(rel))
		if _, exists := idx.entries[key]; !exists {
			idx.entries[key] = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func normalize(texPath string) string {
	texPath = strings.ReplaceAll(texPath, "\\", "/")
	return strings.ToLower(strings.TrimPrefix(path.Clean(texPath), "./"))
}

// ResolvePath returns the file for a texture-table path, or ("", false).
func (idx *Index) ResolvePath(texPath string) (string, bool) {
	if texPath == "" {
		return "", false
	}
	p, ok := idx.entries[normalize(texPath)]
	return p, ok
}

// Root returns the directory the index was built from.
func (idx *Index) Root() string {
	return idx.root
}

// Len returns the number of indexed files.
func (idx *Index) Len() int {
	return len(idx.entries)
}
