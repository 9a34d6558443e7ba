package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds the tool's output paths and processing settings.
type Config struct {
	// Paths
	OutputDir  string `json:"output_dir"`
	ReportName string `json:"report_name"`

	// Processing
	Workers      int  `json:"workers"`
	Strict       bool `json:"strict"`
	PreviewSize  int  `json:"preview_size"`
	TextureCache int  `json:"texture_cache"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Strict {
		c.Strict = true
	}

	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.ReportName == "" {
		c.ReportName = "verify-report.json"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 128
	}
	if c.TextureCache <= 0 {
		c.TextureCache = 64
	}
}

// ReportPath is where the verify report is written.
func (c Config) ReportPath() string {
	if filepath.IsAbs(c.ReportName) {
		return c.ReportName
	}
	return filepath.Join(c.OutputDir, c.ReportName)
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Workers   int
	Strict    bool
}
