package sparse

import (
	"errors"
	"math"
	"testing"
)

func mustFromDense(t *testing.T, rows [][]float64) *Matrix {
	t.Helper()
	m, err := FromDense(rows)
	if err != nil {
		t.Fatalf("FromDense: %v", err)
	}
	return m
}

func TestFromDense(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]float64
		wantNNZ int
		wantErr bool
	}{
		{
			name:    "Empty",
			rows:    nil,
			wantNNZ: 0,
		},
		{
			name:    "Simple",
			rows:    [][]float64{{0, 2}, {3, 0}},
			wantNNZ: 2,
		},
		{
			name:    "DropsZeros",
			rows:    [][]float64{{1, 0, 0}, {0, 0, 0}, {0, 0, 5}},
			wantNNZ: 2,
		},
		{
			name:    "NotSquare",
			rows:    [][]float64{{1, 2, 3}, {4, 5, 6}},
			wantErr: true,
		},
		{
			name:    "RaggedRow",
			rows:    [][]float64{{1, 2}, {3}},
			wantErr: true,
		},
		{
			name:    "NegativeEntry",
			rows:    [][]float64{{1, -2}, {3, 4}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromDense(tt.rows)
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error, got nil")
				}
				var ime *InvalidMatrixError
				if !errors.As(err, &ime) {
					t.Errorf("error type = %T, want *InvalidMatrixError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.NNZ() != tt.wantNNZ {
				t.Errorf("NNZ = %d, want %d", m.NNZ(), tt.wantNNZ)
			}
			if m.Dim() != len(tt.rows) {
				t.Errorf("Dim = %d, want %d", m.Dim(), len(tt.rows))
			}
		})
	}
}

func TestFromCOO(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		rows    []int
		cols    []int
		vals    []float64
		wantErr bool
		check   func(t *testing.T, m *Matrix)
	}{
		{
			name: "SumsDuplicates",
			n:    2,
			rows: []int{0, 0, 1},
			cols: []int{1, 1, 0},
			vals: []float64{2, 3, 4},
			check: func(t *testing.T, m *Matrix) {
				if got := m.At(0, 1); got != 5 {
					t.Errorf("At(0,1) = %v, want 5", got)
				}
				if m.NNZ() != 2 {
					t.Errorf("NNZ = %d, want 2", m.NNZ())
				}
			},
		},
		{
			name:    "LengthMismatch",
			n:       2,
			rows:    []int{0},
			cols:    []int{1, 0},
			vals:    []float64{1, 2},
			wantErr: true,
		},
		{
			name:    "OutOfRange",
			n:       2,
			rows:    []int{2},
			cols:    []int{0},
			vals:    []float64{1},
			wantErr: true,
		},
		{
			name:    "Negative",
			n:       2,
			rows:    []int{0},
			cols:    []int{1},
			vals:    []float64{-1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FromCOO(tt.n, tt.rows, tt.cols, tt.vals)
			if tt.wantErr {
				if err == nil {
					t.Fatal("want error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, m)
			}
		})
	}
}

func TestRowSums(t *testing.T) {
	m := mustFromDense(t, [][]float64{
		{0, 2, 1},
		{0, 0, 0},
		{4, 0, 0},
	})
	want := []float64{3, 0, 4}
	got := m.RowSums()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RowSums[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTranspose(t *testing.T) {
	m := mustFromDense(t, [][]float64{
		{0, 2},
		{3, 7},
	})
	tr := m.Transpose()
	if got := tr.At(1, 0); got != 2 {
		t.Errorf("At(1,0) = %v, want 2", got)
	}
	if got := tr.At(0, 1); got != 3 {
		t.Errorf("At(0,1) = %v, want 3", got)
	}
	if got := tr.At(1, 1); got != 7 {
		t.Errorf("At(1,1) = %v, want 7", got)
	}
}

func TestAddScale(t *testing.T) {
	a := mustFromDense(t, [][]float64{{0, 2}, {3, 0}})
	sym, err := a.Add(a.Transpose())
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	half, err := sym.Scale(0.5)
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if got := half.At(0, 1); got != 2.5 {
		t.Errorf("At(0,1) = %v, want 2.5", got)
	}
	if got := half.At(1, 0); got != 2.5 {
		t.Errorf("At(1,0) = %v, want 2.5", got)
	}

	b := mustFromDense(t, [][]float64{{1}})
	if _, err := a.Add(b); err == nil {
		t.Error("Add with dimension mismatch: want error, got nil")
	}
	if _, err := a.Scale(-1); err == nil {
		t.Error("Scale with negative factor: want error, got nil")
	}
}

func TestSlice(t *testing.T) {
	m := mustFromDense(t, [][]float64{
		{1, 2, 0, 0},
		{0, 0, 3, 0},
		{4, 0, 5, 6},
		{0, 0, 0, 7},
	})

	sub, err := m.Slice([]int{0, 2})
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if sub.Dim() != 2 {
		t.Fatalf("Dim = %d, want 2", sub.Dim())
	}
	// Retained entries: (0,0)=1, (2,0)=4, (2,2)=5 remapped to 2x2.
	want := [][]float64{
		{1, 0},
		{4, 5},
	}
	for i := range want {
		for j := range want[i] {
			if got := sub.At(i, j); got != want[i][j] {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, got, want[i][j])
			}
		}
	}

	if _, err := m.Slice([]int{2, 0}); err == nil {
		t.Error("non-increasing indices: want error, got nil")
	}
	if _, err := m.Slice([]int{0, 9}); err == nil {
		t.Error("out-of-range index: want error, got nil")
	}
}

func TestDense(t *testing.T) {
	m := mustFromDense(t, [][]float64{{0, 0.5}, {0.25, 0}})
	d := m.Dense()
	r, c := d.Dims()
	if r != 2 || c != 2 {
		t.Fatalf("Dims = %dx%d, want 2x2", r, c)
	}
	if math.Abs(d.At(0, 1)-0.5) > 0 {
		t.Errorf("At(0,1) = %v, want 0.5", d.At(0, 1))
	}
	if math.Abs(d.At(1, 0)-0.25) > 0 {
		t.Errorf("At(1,0) = %v, want 0.25", d.At(1, 0))
	}
}
