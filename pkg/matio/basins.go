package matio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadBasin reads a basin file: one state index per line, with blank
// lines and '#' comments skipped. Indices reference the original
// (untrimmed) state space.
func LoadBasin(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open basin: %w", err)
	}
	defer f.Close()

	states, err := ReadBasin(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return states, nil
}

// ReadBasin parses basin input from r: one non-negative state index per
// line.
func ReadBasin(r io.Reader) ([]int, error) {
	var states []int
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := stripComment(sc.Text())
		if text == "" {
			continue
		}
		i, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if i < 0 {
			return nil, fmt.Errorf("line %d: negative state index %d", line, i)
		}
		states = append(states, i)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return states, nil
}
