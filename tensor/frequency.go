// SPDX-License-Identifier: MIT

package tensor

import "math"

// FrequencyVector maps each category to its aggregated energy.
// Absent keys read as zero.
type FrequencyVector map[Category]float64

// Dense returns the vector in category index order.
func (fv FrequencyVector) Dense() [NumCategories]float64 {
	var out [NumCategories]float64
	for c, v := range fv {
		if int(c) < NumCategories {
			out[c] = v
		}
	}

	return out
}

// FromDense builds a FrequencyVector holding every category, zeros included.
func FromDense(v [NumCategories]float64) FrequencyVector {
	fv := make(FrequencyVector, NumCategories)
	for i, x := range v {
		fv[Category(i)] = x
	}

	return fv
}

// DefaultSaturationK is the default saturation scale.
const DefaultSaturationK = 3.0

// Saturate returns k·tanh(x/k): near-linear for |x| ≪ k, bounded by ±k.
// k ≤ 0 disables saturation and returns x.
func Saturate(x, k float64) float64 {
	if k <= 0 {
		return x
	}

	return k * math.Tanh(x/k)
}

// SaturateVector applies Saturate to every component.
func SaturateVector(v [NumCategories]float64, k float64) [NumCategories]float64 {
	for i := range v {
		v[i] = Saturate(v[i], k)
	}

	return v
}
