// SPDX-License-Identifier: MIT

package tensor

import (
	"fmt"

	"github.com/suksuki/bazi-sub001/matrix"
)

// TransferMatrix maps axis rows to per-category weights.
// A missing row or cell is a zero weight.
type TransferMatrix map[Axis]map[Category]float64

// NewTransferMatrix returns a matrix with every row present and all weights zero.
func NewTransferMatrix() TransferMatrix {
	tm := make(TransferMatrix, NumAxes)
	for _, a := range Axes() {
		tm[a] = make(map[Category]float64, NumCategories)
	}

	return tm
}

// Get returns the weight at (a, c), zero when absent.
func (tm TransferMatrix) Get(a Axis, c Category) float64 {
	return tm[a][c]
}

// Set stores w at (a, c), creating the row when needed.
func (tm TransferMatrix) Set(a Axis, c Category, w float64) {
	row, ok := tm[a]
	if !ok {
		row = make(map[Category]float64, NumCategories)
		tm[a] = row
	}
	row[c] = w
}

// MissingAxes lists the axes without a row, in index order.
func (tm TransferMatrix) MissingAxes() []Axis {
	var out []Axis
	for _, a := range Axes() {
		if _, ok := tm[a]; !ok {
			out = append(out, a)
		}
	}

	return out
}

// Clone returns a deep copy.
func (tm TransferMatrix) Clone() TransferMatrix {
	out := make(TransferMatrix, len(tm))
	for a, row := range tm {
		cp := make(map[Category]float64, len(row))
		for c, w := range row {
			cp[c] = w
		}
		out[a] = cp
	}

	return out
}

// Dense returns the 5×7 row-major matrix; absent cells are zero.
// Non-finite weights report matrix.ErrNaNInf.
func (tm TransferMatrix) Dense() (*matrix.Dense, error) {
	data := make([]float64, NumAxes*NumCategories)
	for a, row := range tm {
		if int(a) >= NumAxes {
			continue
		}
		for c, w := range row {
			if int(c) < NumCategories {
				data[int(a)*NumCategories+int(c)] = w
			}
		}
	}

	return matrix.NewDenseFrom(NumAxes, NumCategories, data)
}

// TransferMatrixFromDense converts a 5×7 matrix into a fully populated TransferMatrix.
func TransferMatrixFromDense(m *matrix.Dense) (TransferMatrix, error) {
	if m == nil {
		return nil, fmt.Errorf("TransferMatrixFromDense: %w", matrix.ErrNilMatrix)
	}
	if r, c := m.Shape(); r != NumAxes || c != NumCategories {
		return nil, fmt.Errorf("TransferMatrixFromDense(%dx%d): %w", r, c, ErrShape)
	}
	tm := NewTransferMatrix()
	for _, a := range Axes() {
		row, err := m.Row(int(a))
		if err != nil {
			return nil, err
		}
		for _, c := range Categories() {
			tm[a][c] = row[c]
		}
	}

	return tm, nil
}

// Project computes tensor[a] = Σ_c tm[a][c]·in[c], where in is the frequency
// vector, saturated first when saturate is true.
// Axes without a row project to zero; the caller may report tm.MissingAxes().
func Project(fv FrequencyVector, tm TransferMatrix, saturate bool, opts ...Option) Tensor {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	in := fv.Dense()
	if saturate {
		in = SaturateVector(in, o.SaturationK)
	}
	var t Tensor
	for _, a := range Axes() {
		row, ok := tm[a]
		if !ok {
			continue
		}
		var s float64
		for _, c := range Categories() {
			s += row[c] * in[c]
		}
		t[a] = s
	}

	return t
}
