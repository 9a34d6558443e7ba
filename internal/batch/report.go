package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Summary totals a run.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Identical int `json:"identical"`
	Failed    int `json:"failed"`
}

// Summarize totals results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
		if r.Identical {
			s.Identical++
		}
	}
	return s
}

// Report is the JSON document written after a run.
type Report struct {
	Summary Summary  `json:"summary"`
	Results []Result `json:"results"`
}

// WriteReport writes the indented JSON report to path.
func WriteReport(path string, results []Result) error {
	data, err := json.MarshalIndent(Report{Summary: Summarize(results), Results: results}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ExpandPaths replaces every directory argument with the .pmx files below it.
// The result is sorted and free of duplicates.
func ExpandPaths(args []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".pmx") {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}
