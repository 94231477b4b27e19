// SPDX-License-Identifier: MIT

// Package dataset loads fitter training samples from CSV.
//
// A file has a header row naming the seven categories (parallel, output,
// wealth, power, resource, clash, combination) and the five axes (E, O, M,
// S, R) in any order. Columns listed in Ignore (default "id", "note") are
// skipped; any other column is an error. Blank lines are ignored.
//
//	id,parallel,output,wealth,power,resource,clash,combination,E,O,M,S,R
//	c1,4.03,0.2,0,0.8,1.38,-1.26,1.22,0.42,0.12,0.08,0.1,0.28
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/suksuki/bazi-sub001/matrix"
	"github.com/suksuki/bazi-sub001/tensor"
)

var (
	// ErrHeader indicates a missing, duplicate or unknown column.
	ErrHeader = errors.New("dataset: invalid header")

	// ErrValue indicates a cell that is not a finite number.
	ErrValue = errors.New("dataset: invalid value")

	// ErrEmpty indicates a file with a header but no samples.
	ErrEmpty = errors.New("dataset: no samples")
)

// Ignore lists the columns skipped by default.
var Ignore = []string{"id", "note"}

// Samples is a training set: X is N×7 (category order), Y is N×5 (axis order).
type Samples struct {
	X, Y *matrix.Dense
}

// Len returns N.
func (s Samples) Len() int { return s.X.Rows() }

type column struct {
	isAxis bool
	idx    int
	skip   bool
}

// Read parses one CSV stream.
func Read(r io.Reader) (Samples, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err == io.EOF {
		return Samples{}, ErrEmpty
	}
	if err != nil {
		return Samples{}, fmt.Errorf("read csv header: %w", err)
	}
	cols, err := parseHeader(header)
	if err != nil {
		return Samples{}, err
	}

	var xs, ys [][]float64
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Samples{}, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if blank(record) {
			continue
		}
		x := make([]float64, tensor.NumCategories)
		y := make([]float64, tensor.NumAxes)
		for i, cell := range record {
			col := cols[i]
			if col.skip {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return Samples{}, fmt.Errorf("line %d column %q: %w", line, header[i], ErrValue)
			}
			if col.isAxis {
				y[col.idx] = v
			} else {
				x[col.idx] = v
			}
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) == 0 {
		return Samples{}, ErrEmpty
	}

	X, err := matrix.NewDenseFromRows(xs)
	if err != nil {
		return Samples{}, err
	}
	Y, err := matrix.NewDenseFromRows(ys)
	if err != nil {
		return Samples{}, err
	}

	return Samples{X: X, Y: Y}, nil
}

func parseHeader(header []string) ([]column, error) {
	cols := make([]column, len(header))
	seen := make(map[string]bool, len(header))
	var nAxes, nCats int
	for i, h := range header {
		name := strings.TrimSpace(h)
		if seen[name] {
			return nil, fmt.Errorf("duplicate column %q: %w", name, ErrHeader)
		}
		seen[name] = true
		if isIgnored(name) {
			cols[i] = column{skip: true}
			continue
		}
		if a, err := tensor.ParseAxis(name); err == nil {
			cols[i] = column{isAxis: true, idx: int(a)}
			nAxes++
			continue
		}
		c, err := tensor.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("unknown column %q: %w", name, ErrHeader)
		}
		cols[i] = column{idx: int(c)}
		nCats++
	}
	if nAxes != tensor.NumAxes || nCats != tensor.NumCategories {
		return nil, fmt.Errorf("have %d categories and %d axes, want %d and %d: %w",
			nCats, nAxes, tensor.NumCategories, tensor.NumAxes, ErrHeader)
	}

	return cols, nil
}

func isIgnored(name string) bool {
	for _, ig := range Ignore {
		if strings.EqualFold(ig, name) {
			return true
		}
	}

	return false
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}

// ReadFile parses the CSV file at path.
func ReadFile(path string) (Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return Samples{}, err
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return Samples{}, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// ReadDir parses every *.csv file in dir, keyed by file name without extension.
func ReadDir(dir string) (map[string]Samples, []string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(paths)
	out := make(map[string]Samples, len(paths))
	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		s, err := ReadFile(p)
		if err != nil {
			return nil, nil, err
		}
		id := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		out[id] = s
		ids = append(ids, id)
	}

	return out, ids, nil
}
