// Package pkg provides the core libraries for csnkit conformation space
// network analysis.
//
// # Overview
//
// csnkit builds a conformation space network (CSN) from molecular-dynamics
// transition counts: a directed graph whose nodes are conformational states
// and whose edges carry the observed transition probabilities between them.
// The pkg directory is organized into five areas:
//
//  1. [sparse] - Canonical sparse count-matrix representation
//  2. [csn] - Domain logic (transition building, trimming, solvers, annotation)
//  3. [network] - The annotated directed graph
//  4. [matio] / [export] - Disk boundaries (input parsing, GEXF/DOT/SVG output)
//  5. [pipeline] - Orchestration (load → build → trim → solve → export)
//
// # Architecture
//
// The typical data flow through csnkit:
//
//	Count matrix (dense CSV or "i j count" triplets)
//	         ↓
//	    [sparse] package (canonical matrix)
//	         ↓
//	    [csn] package (transition matrix + trim + solvers)
//	         ↓
//	    [network] package (annotated graph)
//	         ↓
//	    GEXF/DOT/SVG output
//
// # Quick Start
//
// Build, trim, and solve a network:
//
//	import (
//	    "github.com/matzehuels/csnkit/pkg/csn"
//	    "github.com/matzehuels/csnkit/pkg/matio"
//	)
//
//	// 1. Load the count matrix
//	counts, _ := matio.LoadCounts("counts.dat")
//
//	// 2. Build the CSN, symmetrizing the counts
//	c, _ := csn.New(counts, true)
//
//	// 3. Trim to the main communicating component
//	trim, _ := c.Trim(10)
//
//	// 4. Solve for the stationary distribution
//	weights, _ := c.SolveEigen()
//
// # Main Packages
//
// [sparse] - Square non-negative sparse matrices in coordinate form, the
// currency between the disk boundary and the solvers. Construction
// canonicalizes (sorts, dedupes, drops zeros) so all downstream code can
// rely on one representation.
//
// [csn] - The analysis core. Builds row-stochastic transition matrices,
// trims networks to their main strongly-connected component, computes
// stationary distributions by eigendecomposition and power iteration, and
// solves committor probabilities via absorbing-chain analysis.
//
// [network] - The directed annotated graph. Nodes accumulate analysis
// results (stationary weights, committors, colors) across successive runs.
//
// [matio] - Input parsing: dense CSV and coordinate-triplet count matrices,
// basin index files, and the TOML analysis config.
//
// [export] - Output serialization: GEXF 1.2 with the viz extension for
// Gephi, Graphviz DOT, and SVG rasterization.
//
// [pipeline] - The complete analysis pipeline used by the CLI. Ensures
// consistent stage ordering, logging, and timing across entry points.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/csn/...      # Specific package
//
// [sparse]: https://pkg.go.dev/github.com/matzehuels/csnkit/pkg/sparse
// [csn]: https://pkg.go.dev/github.com/matzehuels/csnkit/pkg/csn
// [network]: https://pkg.go.dev/github.com/matzehuels/csnkit/pkg/network
// [matio]: https://pkg.go.dev/github.com/matzehuels/csnkit/pkg/matio
// [export]: https://pkg.go.dev/github.com/matzehuels/csnkit/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/csnkit/pkg/pipeline
package pkg
