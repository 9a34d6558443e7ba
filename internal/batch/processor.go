package batch

import (
	"bytes"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"pmx-toolkit/internal/pmx"
)

// Config holds the settings shared by every job of a run.
type Config struct {
	Workers int
	// Strict fails files that decode with warnings or do not re-encode to
	// identical bytes.
	Strict bool
}

// Result holds the outcome of verifying one file.
type Result struct {
	Path      string   `json:"path"`
	Success   bool     `json:"success"`
	Identical bool     `json:"identical"`
	Warnings  []string `json:"warnings,omitempty"`
	Error     string   `json:"error,omitempty"`
	Bytes     int      `json:"bytes"`
}

// Run verifies all files using a worker pool. Results are in input order.
func Run(cfg Config, paths []string) []Result {
	total := len(paths)
	results := make([]Result, total)
	var processed atomic.Int64
	workers := max(cfg.Workers, 1)

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					glog.Infof("[%d/%d] %.1f files/sec", p, total, float64(p)/elapsed)
				}
			}
		}
	}()

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = verifyFile(cfg, paths[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	glog.Infof("verified %d files in %s", total, time.Since(start).Round(time.Millisecond))
	return results
}

func verifyFile(cfg Config, path string) Result {
	res := Result{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Bytes = len(data)

	m, warnings, err := pmx.Decode(data)
	for _, w := range warnings {
		res.Warnings = append(res.Warnings, w.String())
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}

	out, err := pmx.Encode(m)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Identical = bytes.Equal(data, out)

	again, _, err := pmx.Decode(out)
	if err != nil {
		res.Error = fmt.Sprintf("re-decode: %v", err)
		return res
	}
	if err := sameCounts(m, again); err != nil {
		res.Error = err.Error()
		return res
	}

	switch {
	case cfg.Strict && len(warnings) > 0:
		res.Error = fmt.Sprintf("%d decode warnings", len(warnings))
	case cfg.Strict && !res.Identical:
		res.Error = "re-encoded bytes differ from input"
	default:
		res.Success = true
	}
	if glog.V(1) {
		glog.Infof("%s: success=%v identical=%v warnings=%d", path, res.Success, res.Identical, len(warnings))
	}
	return res
}

// Counts are the collection sizes of a model.
type Counts struct {
	Vertices    int `json:"vertices"`
	Faces       int `json:"faces"`
	Textures    int `json:"textures"`
	Materials   int `json:"materials"`
	Bones       int `json:"bones"`
	Morphs      int `json:"morphs"`
	Frames      int `json:"frames"`
	RigidBodies int `json:"rigid_bodies"`
	Joints      int `json:"joints"`
	SoftBodies  int `json:"soft_bodies"`
}

// CountsOf returns the collection sizes of m.
func CountsOf(m *pmx.Model) Counts {
	return Counts{
		Vertices:    len(m.Vertices),
		Faces:       len(m.Faces),
		Textures:    len(m.Textures),
		Materials:   len(m.Materials),
		Bones:       len(m.Bones),
		Morphs:      len(m.Morphs),
		Frames:      len(m.Frames),
		RigidBodies: len(m.RigidBodies),
		Joints:      len(m.Joints),
		SoftBodies:  len(m.SoftBodies),
	}
}

func sameCounts(a, b *pmx.Model) error {
	ca, cb := CountsOf(a), CountsOf(b)
	// Encode may append material-referenced paths to the texture table.
	ca.Textures, cb.Textures = 0, 0
	if ca != cb {
		return fmt.Errorf("counts changed after round trip: %+v vs %+v", ca, cb)
	}
	return nil
}
