// Package matio is the disk boundary for matrix and basin input.
//
// The analytical core never touches files; this package reads the
// on-disk formats and hands the core canonical [sparse.Matrix] values
// and basin index sets. Two matrix formats are supported:
//
//   - dense CSV: one row per line, comma-separated numeric entries
//   - coordinate triplets: "i j count" per line, whitespace-separated,
//     with '#' comments; the dimension is the largest index seen plus one
//
// Basin files hold one state index per line. The TOML analysis config
// (see [Config]) ties matrix, basins, and solver settings together for a
// whole run.
package matio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/csnkit/pkg/sparse"
)

// LoadCounts reads a count matrix from path, dispatching on extension:
// ".csv" is parsed as dense CSV, everything else as coordinate triplets.
func LoadCounts(path string) (*sparse.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open counts: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		m, err := ReadDenseCSV(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return m, nil
	}
	m, err := ReadTriplets(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ReadDenseCSV parses a dense row-major count matrix: one row per line,
// entries separated by commas. Blank lines and '#' comment lines are
// skipped. The row count must match the column count.
func ReadDenseCSV(r io.Reader) (*sparse.Matrix, error) {
	var rows [][]float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := stripComment(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		row := make([]float64, len(fields))
		for j, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %d: %w", line, j+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sparse.FromDense(rows)
}

// ReadTriplets parses coordinate-triplet input: "i j count" per line,
// whitespace-separated. Blank lines and '#' comments are skipped.
// Duplicate coordinates are summed. The matrix dimension is the largest
// index seen plus one.
func ReadTriplets(r io.Reader) (*sparse.Matrix, error) {
	var (
		is, js []int
		vs     []float64
		n      int
	)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := stripComment(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: want 3 fields \"i j count\", got %d", line, len(fields))
		}
		i, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: row index: %w", line, err)
		}
		j, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: column index: %w", line, err)
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: count: %w", line, err)
		}
		is = append(is, i)
		js = append(js, j)
		vs = append(vs, v)
		if i+1 > n {
			n = i + 1
		}
		if j+1 > n {
			n = j + 1
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sparse.FromCOO(n, is, js, vs)
}

// stripComment removes a trailing '#' comment and surrounding whitespace.
func stripComment(s string) string {
	if k := strings.IndexByte(s, '#'); k >= 0 {
		s = s[:k]
	}
	return strings.TrimSpace(s)
}
