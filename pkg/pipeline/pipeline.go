// Package pipeline orchestrates the full CSN analysis: load → build →
// trim → solve → annotate → export.
//
// The CLI drives everything through a [Runner] so the stage wiring,
// logging, and timing live in one place. Stages can also be run
// individually when only part of the analysis is needed.
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/csnkit/pkg/csn"
	"github.com/matzehuels/csnkit/pkg/matio"
	"github.com/matzehuels/csnkit/pkg/sparse"
)

// Output format identifiers.
const (
	FormatGEXF = "gexf"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatGEXF: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// DefaultFormats is used when no formats are requested.
var DefaultFormats = []string{FormatGEXF}

// Options configures a pipeline run.
type Options struct {
	// CountsPath is the count-matrix file (dense CSV or triplets).
	// Exactly one of CountsPath and Counts must be set.
	CountsPath string

	// Counts is an already-loaded count matrix, for callers that bypass
	// the disk boundary.
	Counts *sparse.Matrix

	// Symmetrize replaces the counts with (C + Cᵀ)/2 at construction.
	Symmetrize bool

	// MinCount is the trim threshold on total outgoing counts.
	MinCount float64

	// SkipTrim leaves the network untrimmed. The solvers then operate on
	// the full matrix, which fails for disconnected inputs; this is
	// intended for inputs known to be a single communicating component.
	SkipTrim bool

	// Basins and Labels define the committor partition in original-space
	// indices. Empty means no committor analysis.
	Basins [][]int
	Labels []string

	// Solver carries tolerances and iteration caps; zero values use the
	// pkg/csn defaults.
	Solver matio.SolverConfig

	// Formats are the export formats to produce (gexf, dot, svg).
	Formats []string

	// Logger receives stage progress. Nil means log.Default().
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if (o.CountsPath == "") == (o.Counts == nil) {
		return fmt.Errorf("exactly one of CountsPath and Counts must be set")
	}
	if o.MinCount < 0 {
		return fmt.Errorf("min count must be non-negative, got %v", o.MinCount)
	}
	if len(o.Basins) != len(o.Labels) {
		return fmt.Errorf("%d basins but %d labels", len(o.Basins), len(o.Labels))
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return fmt.Errorf("invalid format: %q (must be one of: gexf, dot, svg)", f)
		}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	o.validated = true
	return nil
}

// FromConfig builds Options from a loaded TOML analysis config.
func FromConfig(cfg *matio.Config, logger *log.Logger) (Options, error) {
	basins, labels, err := cfg.Basins()
	if err != nil {
		return Options{}, err
	}
	return Options{
		CountsPath: cfg.CountsPath(),
		Symmetrize: cfg.Symmetrize,
		MinCount:   cfg.MinCount,
		Basins:     basins,
		Labels:     labels,
		Solver:     cfg.Solver,
		Formats:    cfg.Formats,
		Logger:     logger,
	}, nil
}

// Result holds the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this run; it is stamped into export
	// metadata.
	RunID string

	// CSN is the analyzed network, trimmed unless SkipTrim was set, with
	// its active graph annotated by every analysis that ran.
	CSN *csn.CSN

	// EigenWeights and MultWeights are the stationary distributions from
	// the two methods, over the active (trimmed) state space.
	EigenWeights []float64
	MultWeights  []float64

	// Committors is the committor matrix (one row per active state, one
	// column per basin), nil when no basins were given.
	Committors [][]float64

	// Artifacts are the rendered exports keyed by format.
	Artifacts map[string][]byte

	// Stats carries sizes and per-stage timings.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	States        int // states before trimming
	TrimmedStates int // states after trimming (== States when untrimmed)
	Edges         int // edges of the active network

	LoadTime   time.Duration
	TrimTime   time.Duration
	SolveTime  time.Duration
	ExportTime time.Duration
}

// newRunID returns the identifier stamped on a run's outputs.
func newRunID() string {
	return uuid.NewString()
}
