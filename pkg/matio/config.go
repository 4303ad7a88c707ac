package matio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the TOML analysis configuration. A minimal config names only
// the counts file; everything else has working defaults.
//
//	counts = "counts.dat"
//	symmetrize = true
//	min-count = 10
//	formats = ["gexf", "dot"]
//
//	[solver]
//	tol = 1e-10
//	max-iter = 10000
//
//	[[basin]]
//	label = "folded"
//	states = [0, 1, 2]
//
//	[[basin]]
//	label = "unfolded"
//	file = "unfolded.idx"
//
// Relative paths are resolved against the config file's directory.
type Config struct {
	Counts     string   `toml:"counts"`
	Symmetrize bool     `toml:"symmetrize"`
	MinCount   float64  `toml:"min-count"`
	OutDir     string   `toml:"out-dir"`
	Formats    []string `toml:"formats"`

	Solver SolverConfig  `toml:"solver"`
	Basin  []BasinConfig `toml:"basin"`

	// dir is the config file's directory, for resolving relative paths.
	dir string
}

// SolverConfig carries the numeric knobs for the iterative solvers.
// Zero values fall back to the package defaults in pkg/csn.
type SolverConfig struct {
	Tol         float64 `toml:"tol"`
	MaxIter     int     `toml:"max-iter"`
	SinkTol     float64 `toml:"sink-tol"`
	SinkMaxIter int     `toml:"sink-max-iter"`
}

// BasinConfig defines one basin, either inline through States or loaded
// from a one-index-per-line file. Exactly one of the two must be set.
type BasinConfig struct {
	Label  string `toml:"label"`
	States []int  `toml:"states"`
	File   string `toml:"file"`
}

// LoadConfig reads and validates a TOML analysis config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Counts == "" {
		return fmt.Errorf("counts file is required")
	}
	if c.MinCount < 0 {
		return fmt.Errorf("min-count must be non-negative, got %v", c.MinCount)
	}
	seen := make(map[string]bool, len(c.Basin))
	for k, b := range c.Basin {
		if b.Label == "" {
			return fmt.Errorf("basin %d: label is required", k)
		}
		if seen[b.Label] {
			return fmt.Errorf("basin %d: duplicate label %q", k, b.Label)
		}
		seen[b.Label] = true
		if (len(b.States) == 0) == (b.File == "") {
			return fmt.Errorf("basin %q: exactly one of states or file must be set", b.Label)
		}
	}
	return nil
}

// CountsPath returns the counts file path resolved against the config
// directory.
func (c *Config) CountsPath() string { return c.resolve(c.Counts) }

// Basins materializes the basin partition: inline state lists as-is,
// file-backed basins loaded from disk. Returns parallel basin and label
// slices, ready for the committor solver.
func (c *Config) Basins() (basins [][]int, labels []string, err error) {
	for _, b := range c.Basin {
		states := b.States
		if b.File != "" {
			states, err = LoadBasin(c.resolve(b.File))
			if err != nil {
				return nil, nil, fmt.Errorf("basin %q: %w", b.Label, err)
			}
		}
		basins = append(basins, states)
		labels = append(labels, b.Label)
	}
	return basins, labels, nil
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}
	return filepath.Join(c.dir, path)
}
