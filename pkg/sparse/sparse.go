// Package sparse provides the canonical sparse-matrix representation used
// throughout csnkit.
//
// Count matrices arrive in heterogeneous forms (dense row-major arrays,
// coordinate triplets read from disk). This package converts each of them
// once, at the boundary, into a single canonical coordinate form: entries
// sorted row-major, duplicates summed, explicit zeros dropped. Everything
// downstream (transition building, trimming, the solvers) operates on this
// one representation.
//
// Matrices are immutable after construction. Operations like [Matrix.Add],
// [Matrix.Transpose], and [Matrix.Slice] return new matrices.
package sparse

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// InvalidMatrixError reports input that cannot form a valid count matrix:
// a non-square dense input, an out-of-range coordinate, mismatched triplet
// slice lengths, or a negative entry.
type InvalidMatrixError struct {
	Reason string
	Row    int // offending row index, -1 if not applicable
	Col    int // offending column index, -1 if not applicable
}

// Error implements the error interface.
func (e *InvalidMatrixError) Error() string {
	if e.Row >= 0 || e.Col >= 0 {
		return fmt.Sprintf("invalid matrix: %s (at %d,%d)", e.Reason, e.Row, e.Col)
	}
	return "invalid matrix: " + e.Reason
}

func invalid(reason string) *InvalidMatrixError {
	return &InvalidMatrixError{Reason: reason, Row: -1, Col: -1}
}

func invalidAt(reason string, row, col int) *InvalidMatrixError {
	return &InvalidMatrixError{Reason: reason, Row: row, Col: col}
}

// Entry is one non-zero element of a sparse matrix.
type Entry struct {
	Row, Col int
	Val      float64
}

// Matrix is a square sparse matrix in canonical coordinate form.
// Entries are sorted row-major, contain no duplicates and no explicit
// zeros, and all values are non-negative counts or probabilities.
//
// The zero value is not usable - use FromDense, FromCOO, or an operation
// on an existing Matrix.
type Matrix struct {
	n       int
	entries []Entry
}

// FromDense converts a dense row-major array into canonical form.
// Returns an InvalidMatrixError if the input is not square or contains
// a negative entry. An empty input produces a 0x0 matrix.
func FromDense(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	var entries []Entry
	for i, row := range rows {
		if len(row) != n {
			return nil, invalidAt(fmt.Sprintf("row has %d columns, want %d", len(row), n), i, -1)
		}
		for j, v := range row {
			if v < 0 {
				return nil, invalidAt("negative entry", i, j)
			}
			if v != 0 {
				entries = append(entries, Entry{Row: i, Col: j, Val: v})
			}
		}
	}
	return &Matrix{n: n, entries: entries}, nil
}

// FromCOO converts coordinate-triplet input (parallel row/column/value
// slices) into canonical form for an n x n matrix. Duplicate coordinates
// are summed. Returns an InvalidMatrixError for mismatched slice lengths,
// out-of-range coordinates, or negative values.
func FromCOO(n int, rows, cols []int, vals []float64) (*Matrix, error) {
	if n < 0 {
		return nil, invalid("negative dimension")
	}
	if len(rows) != len(cols) || len(rows) != len(vals) {
		return nil, invalid(fmt.Sprintf("triplet length mismatch: %d rows, %d cols, %d vals",
			len(rows), len(cols), len(vals)))
	}
	entries := make([]Entry, 0, len(vals))
	for k, v := range vals {
		i, j := rows[k], cols[k]
		if i < 0 || i >= n || j < 0 || j >= n {
			return nil, invalidAt("coordinate out of range", i, j)
		}
		if v < 0 {
			return nil, invalidAt("negative entry", i, j)
		}
		if v != 0 {
			entries = append(entries, Entry{Row: i, Col: j, Val: v})
		}
	}
	return &Matrix{n: n, entries: canonicalize(entries)}, nil
}

// fromEntries builds a matrix from entries that may be unsorted and contain
// duplicates. Values are assumed already validated as non-negative.
func fromEntries(n int, entries []Entry) *Matrix {
	return &Matrix{n: n, entries: canonicalize(entries)}
}

// canonicalize sorts entries row-major, merges duplicates, and drops zeros.
func canonicalize(entries []Entry) []Entry {
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].Row != entries[b].Row {
			return entries[a].Row < entries[b].Row
		}
		return entries[a].Col < entries[b].Col
	})
	out := entries[:0]
	for _, e := range entries {
		if len(out) > 0 && out[len(out)-1].Row == e.Row && out[len(out)-1].Col == e.Col {
			out[len(out)-1].Val += e.Val
			continue
		}
		out = append(out, e)
	}
	final := out[:0:0]
	for _, e := range out {
		if e.Val != 0 {
			final = append(final, e)
		}
	}
	return final
}

// Dim returns the matrix dimension n (the matrix is n x n).
func (m *Matrix) Dim() int { return m.n }

// NNZ returns the number of stored non-zero entries.
func (m *Matrix) NNZ() int { return len(m.entries) }

// Entries returns a copy of the non-zero entries in row-major order.
func (m *Matrix) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// At returns the value at (i, j), or 0 if no entry is stored there.
// Out-of-range indices panic, matching slice indexing semantics.
func (m *Matrix) At(i, j int) float64 {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(fmt.Sprintf("sparse: index (%d,%d) out of range for %dx%d matrix", i, j, m.n, m.n))
	}
	k := sort.Search(len(m.entries), func(k int) bool {
		e := m.entries[k]
		return e.Row > i || (e.Row == i && e.Col >= j)
	})
	if k < len(m.entries) && m.entries[k].Row == i && m.entries[k].Col == j {
		return m.entries[k].Val
	}
	return 0
}

// RowSums returns the sum of each row. For a count matrix this is the
// total outgoing count of each state.
func (m *Matrix) RowSums() []float64 {
	sums := make([]float64, m.n)
	for _, e := range m.entries {
		sums[e.Row] += e.Val
	}
	return sums
}

// Transpose returns the transpose as a new matrix.
func (m *Matrix) Transpose() *Matrix {
	entries := make([]Entry, len(m.entries))
	for k, e := range m.entries {
		entries[k] = Entry{Row: e.Col, Col: e.Row, Val: e.Val}
	}
	return fromEntries(m.n, entries)
}

// Add returns m + other. Returns an InvalidMatrixError if the dimensions
// differ.
func (m *Matrix) Add(other *Matrix) (*Matrix, error) {
	if m.n != other.n {
		return nil, invalid(fmt.Sprintf("dimension mismatch: %d vs %d", m.n, other.n))
	}
	entries := make([]Entry, 0, len(m.entries)+len(other.entries))
	entries = append(entries, m.entries...)
	entries = append(entries, other.entries...)
	return fromEntries(m.n, entries), nil
}

// Scale returns m with every entry multiplied by f. Negative factors are
// rejected to preserve the non-negativity invariant.
func (m *Matrix) Scale(f float64) (*Matrix, error) {
	if f < 0 {
		return nil, invalid("negative scale factor")
	}
	entries := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if v := e.Val * f; v != 0 {
			entries = append(entries, Entry{Row: e.Row, Col: e.Col, Val: v})
		}
	}
	return &Matrix{n: m.n, entries: entries}, nil
}

// Slice returns the submatrix restricted to the given original indices,
// relabeled 0..len(idx)-1 in order. The index list must be strictly
// increasing and within range; this is the re-indexing primitive used by
// trimming.
func (m *Matrix) Slice(idx []int) (*Matrix, error) {
	remap := make(map[int]int, len(idx))
	for k, orig := range idx {
		if orig < 0 || orig >= m.n {
			return nil, invalidAt("slice index out of range", orig, -1)
		}
		if k > 0 && idx[k-1] >= orig {
			return nil, invalid("slice indices must be strictly increasing")
		}
		remap[orig] = k
	}
	var entries []Entry
	for _, e := range m.entries {
		i, ok := remap[e.Row]
		if !ok {
			continue
		}
		j, ok := remap[e.Col]
		if !ok {
			continue
		}
		entries = append(entries, Entry{Row: i, Col: j, Val: e.Val})
	}
	return &Matrix{n: len(idx), entries: entries}, nil
}

// Dense converts the matrix to a gonum dense matrix for the numeric
// solvers. The result is a fresh allocation the caller owns.
func (m *Matrix) Dense() *mat.Dense {
	if m.n == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(m.n, m.n, nil)
	for _, e := range m.entries {
		d.Set(e.Row, e.Col, e.Val)
	}
	return d
}
