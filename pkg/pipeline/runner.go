package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/csnkit/pkg/csn"
	"github.com/matzehuels/csnkit/pkg/export"
	"github.com/matzehuels/csnkit/pkg/matio"
)

// Runner executes the analysis pipeline. It is stateless apart from its
// logger - results are returned, not stored - so a single Runner can
// serve multiple sequential runs with different options. The underlying
// CSN instances are not safe for concurrent use, so runs must not share
// a Result across goroutines without synchronization.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger means log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → build → trim → solve → export
// pipeline. The context is checked between stages; solver iterations
// themselves are bounded by their iteration caps rather than by the
// context.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     newRunID(),
		Artifacts: make(map[string][]byte),
	}

	loadStart := time.Now()
	c, err := r.Build(opts)
	if err != nil {
		return nil, err
	}
	result.CSN = c
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.States = c.NumStates()
	r.Logger.Info("built network",
		"states", c.NumStates(),
		"transitions", c.Counts().NNZ(),
		"symmetrized", opts.Symmetrize,
		"duration", result.Stats.LoadTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trimStart := time.Now()
	if opts.SkipTrim {
		result.Stats.TrimmedStates = c.NumStates()
	} else {
		trim, err := c.Trim(opts.MinCount)
		if err != nil {
			return nil, fmt.Errorf("trim: %w", err)
		}
		result.Stats.TrimmedStates = len(trim.Indices)
		r.Logger.Info("trimmed network",
			"retained", len(trim.Indices),
			"removed", c.NumStates()-len(trim.Indices),
			"duration", time.Since(trimStart))
	}
	result.Stats.TrimTime = time.Since(trimStart)
	result.Stats.Edges = c.ActiveGraph().NumEdges()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	solveStart := time.Now()
	if err := r.Solve(opts, result); err != nil {
		return nil, err
	}
	result.Stats.SolveTime = time.Since(solveStart)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exportStart := time.Now()
	if err := r.Export(opts, result); err != nil {
		return nil, err
	}
	result.Stats.ExportTime = time.Since(exportStart)
	r.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Build loads the count matrix (when a path was given) and constructs
// the CSN triple.
func (r *Runner) Build(opts Options) (*csn.CSN, error) {
	counts := opts.Counts
	if counts == nil {
		var err error
		counts, err = matio.LoadCounts(opts.CountsPath)
		if err != nil {
			return nil, fmt.Errorf("load counts: %w", err)
		}
	}
	c, err := csn.New(counts, opts.Symmetrize)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}
	return c, nil
}

// Solve runs both stationary-distribution methods and, when basins are
// configured, the committor analysis, annotating the active graph and
// filling the result in place.
func (r *Runner) Solve(opts Options, result *Result) error {
	c := result.CSN

	eigen, err := c.SolveEigen()
	if err != nil {
		return fmt.Errorf("eigenvector method: %w", err)
	}
	result.EigenWeights = eigen

	iterOpts := csn.IterOptions{Tol: opts.Solver.Tol, MaxIter: opts.Solver.MaxIter}
	mult, err := c.SolveIterative(iterOpts)
	if err != nil {
		return fmt.Errorf("iterative method: %w", err)
	}
	result.MultWeights = mult
	r.Logger.Debug("stationary distributions computed",
		"disagreement", maxAbsDiff(eigen, mult))

	if len(opts.Basins) == 0 {
		return nil
	}
	sinkOpts := csn.SinkOptions{Tol: opts.Solver.SinkTol, MaxIter: opts.Solver.SinkMaxIter}
	committors, err := c.Committors(opts.Basins, opts.Labels, sinkOpts)
	if err != nil {
		return fmt.Errorf("committor analysis: %w", err)
	}
	result.Committors = committors
	r.Logger.Info("committors computed", "basins", opts.Labels)
	return nil
}

// Export renders the requested formats from the active annotated graph
// into result.Artifacts.
func (r *Runner) Export(opts Options, result *Result) error {
	g := result.CSN.ActiveGraph()

	var dot string
	for _, format := range opts.Formats {
		switch format {
		case FormatGEXF:
			var buf bytes.Buffer
			gexfOpts := export.GEXFOptions{Description: "run " + result.RunID}
			if err := export.WriteGEXF(g, &buf, gexfOpts); err != nil {
				return fmt.Errorf("export gexf: %w", err)
			}
			result.Artifacts[FormatGEXF] = buf.Bytes()
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = export.ToDOT(g, export.DOTOptions{Detailed: true})
			}
			if format == FormatDOT {
				result.Artifacts[FormatDOT] = []byte(dot)
				continue
			}
			svg, err := export.RenderSVG(dot)
			if err != nil {
				return fmt.Errorf("export svg: %w", err)
			}
			result.Artifacts[FormatSVG] = svg
		}
	}
	return nil
}

// maxAbsDiff returns the largest per-entry difference between the two
// solver outputs, the cross-check number logged at debug level.
func maxAbsDiff(a, b []float64) float64 {
	var m float64
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		if d > m {
			m = d
		}
	}
	return m
}
