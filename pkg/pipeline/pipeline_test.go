package pipeline

import (
	"context"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/csnkit/pkg/matio"
	"github.com/matzehuels/csnkit/pkg/sparse"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testCounts(t *testing.T) *sparse.Matrix {
	t.Helper()
	m, err := sparse.FromDense([][]float64{
		{0, 5, 5, 0},
		{5, 0, 5, 0},
		{5, 5, 0, 0},
		{0, 0, 0, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestOptionsValidation(t *testing.T) {
	counts := testCounts(t)
	tests := []struct {
		name    string
		opts    Options
		wantMsg string
	}{
		{
			name:    "NoSource",
			opts:    Options{},
			wantMsg: "exactly one of",
		},
		{
			name:    "BothSources",
			opts:    Options{CountsPath: "counts.dat", Counts: counts},
			wantMsg: "exactly one of",
		},
		{
			name:    "NegativeMinCount",
			opts:    Options{Counts: counts, MinCount: -1},
			wantMsg: "min count must be non-negative",
		},
		{
			name:    "BasinLabelMismatch",
			opts:    Options{Counts: counts, Basins: [][]int{{0}}},
			wantMsg: "1 basins but 0 labels",
		},
		{
			name:    "UnknownFormat",
			opts:    Options{Counts: counts, Formats: []string{"png"}},
			wantMsg: "invalid format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("want error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want substring %q", err, tt.wantMsg)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Counts: testCounts(t)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatGEXF {
		t.Errorf("Formats = %v, want [gexf]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger is nil after defaults")
	}
	// Second validation is a no-op.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("revalidation: %v", err)
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(quietLogger())
	result, err := runner.Execute(context.Background(), Options{
		Counts:  testCounts(t),
		Basins:  [][]int{{0}, {1}},
		Labels:  []string{"a", "b"},
		Formats: []string{FormatGEXF, FormatDOT},
		Logger:  quietLogger(),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	if result.Stats.States != 4 {
		t.Errorf("Stats.States = %d, want 4", result.Stats.States)
	}
	if result.Stats.TrimmedStates != 3 {
		t.Errorf("Stats.TrimmedStates = %d, want 3", result.Stats.TrimmedStates)
	}
	if result.Stats.Edges != 6 {
		t.Errorf("Stats.Edges = %d, want 6", result.Stats.Edges)
	}

	// The symmetric 3-clique has the uniform stationary distribution.
	if len(result.EigenWeights) != 3 || len(result.MultWeights) != 3 {
		t.Fatalf("weights = %v / %v, want 3 entries each", result.EigenWeights, result.MultWeights)
	}
	for i := 0; i < 3; i++ {
		if math.Abs(result.EigenWeights[i]-1.0/3) > 1e-9 {
			t.Errorf("EigenWeights[%d] = %v, want 1/3", i, result.EigenWeights[i])
		}
		if math.Abs(result.MultWeights[i]-1.0/3) > 1e-9 {
			t.Errorf("MultWeights[%d] = %v, want 1/3", i, result.MultWeights[i])
		}
	}

	if len(result.Committors) != 3 {
		t.Fatalf("Committors rows = %d, want 3", len(result.Committors))
	}
	for b := 0; b < 2; b++ {
		if math.Abs(result.Committors[2][b]-0.5) > 1e-9 {
			t.Errorf("Committors[2][%d] = %v, want 0.5", b, result.Committors[2][b])
		}
	}

	gexf, ok := result.Artifacts[FormatGEXF]
	if !ok || !strings.Contains(string(gexf), "<gexf") {
		t.Error("missing or malformed gexf artifact")
	}
	dot, ok := result.Artifacts[FormatDOT]
	if !ok || !strings.Contains(string(dot), "digraph csn") {
		t.Error("missing or malformed dot artifact")
	}
	if _, ok := result.Artifacts[FormatSVG]; ok {
		t.Error("svg artifact present though not requested")
	}
}

func TestExecuteSkipTrim(t *testing.T) {
	counts, err := sparse.FromDense([][]float64{
		{0, 5, 5},
		{5, 0, 5},
		{5, 5, 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(quietLogger())
	result, err := runner.Execute(context.Background(), Options{
		Counts:   counts,
		SkipTrim: true,
		Formats:  []string{FormatDOT},
		Logger:   quietLogger(),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.CSN.Trimmed() != nil {
		t.Error("network was trimmed despite SkipTrim")
	}
	if result.Stats.TrimmedStates != 3 {
		t.Errorf("Stats.TrimmedStates = %d, want 3", result.Stats.TrimmedStates)
	}
	if result.Committors != nil {
		t.Error("Committors set without basins")
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(quietLogger())
	_, err := runner.Execute(ctx, Options{
		Counts: testCounts(t),
		Logger: quietLogger(),
	})
	if err == nil {
		t.Fatal("want context error, got nil")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := &matio.Config{
		Counts:     "counts.dat",
		Symmetrize: true,
		MinCount:   3,
		Formats:    []string{FormatDOT},
		Basin: []matio.BasinConfig{
			{Label: "a", States: []int{0}},
			{Label: "b", States: []int{1}},
		},
	}
	opts, err := FromConfig(cfg, quietLogger())
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if opts.CountsPath != "counts.dat" || !opts.Symmetrize || opts.MinCount != 3 {
		t.Errorf("opts = %+v", opts)
	}
	if len(opts.Basins) != 2 || opts.Labels[1] != "b" {
		t.Errorf("basins = %v, labels = %v", opts.Basins, opts.Labels)
	}
}
