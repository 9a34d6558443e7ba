package texture

import (
	"sort"

	"github.com/golang/glog"

	"pmx-toolkit/internal/pmx"
)

// Entry is the audit result for one texture path.
type Entry struct {
	Path      string   `json:"path"`
	Resolved  string   `json:"resolved,omitempty"`
	Builtin   bool     `json:"builtin,omitempty"`
	Found     bool     `json:"found"`
	Format    string   `json:"format,omitempty"`
	Width     int      `json:"width,omitempty"`
	Height    int      `json:"height,omitempty"`
	Error     string   `json:"error,omitempty"`
	Materials []string `json:"materials,omitempty"`
}

// Audit checks every path of the model's texture table, plus the shared
// toon ramps it uses, against the files indexed by idx. Tabled paths come
// first in table order, then builtin toons by number.
func Audit(m *pmx.Model, idx *Index, cache *Cache) []Entry {
	users := map[string][]string{}
	builtins := map[pmx.BuiltinToon][]string{}
	for _, mat := range m.Materials {
		refs := []string{mat.Texture, mat.Sphere}
		switch t := mat.Toon.(type) {
		case pmx.TextureToon:
			refs = append(refs, string(t))
		case pmx.BuiltinToon:
			builtins[t] = appendOnce(builtins[t], mat.Name)
		}
		for _, r := range refs {
			if r != "" {
				users[r] = appendOnce(users[r], mat.Name)
			}
		}
	}

	var entries []Entry
	for _, p := range pmx.TextureTable(m) {
		e := Entry{Path: p, Materials: users[p]}
		if resolved, ok := idx.ResolvePath(p); ok {
			e.Resolved = resolved
			e.Found = true
			img, format, err := cache.Load(resolved)
			e.Format = format
			if err != nil {
				e.Error = err.Error()
				glog.Warningf("texture %s: %v", p, err)
			} else {
				e.Width, e.Height = img.Bounds().Dx(), img.Bounds().Dy()
			}
		} else {
			glog.Warningf("texture %s: not found under %s", p, idx.Root())
		}
		if glog.V(1) {
			glog.Infof("texture %s found=%v format=%s %dx%d", p, e.Found, e.Format, e.Width, e.Height)
		}
		entries = append(entries, e)
	}

	toons := make([]pmx.BuiltinToon, 0, len(builtins))
	for t := range builtins {
		toons = append(toons, t)
	}
	sort.Slice(toons, func(i, j int) bool { return toons[i] < toons[j] })
	for _, t := range toons {
		entries = append(entries, Entry{Path: t.Name(), Builtin: true, Found: true, Materials: builtins[t]})
	}
	return entries
}

func appendOnce(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}

// Problems returns the entries that are missing or failed to decode.
func Problems(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if !e.Found || e.Error != "" {
			out = append(out, e)
		}
	}
	return out
}
