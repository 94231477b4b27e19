// SPDX-License-Identifier: MIT

package tensor

import "errors"

var (
	// ErrUnknownAxis indicates an axis name outside E, O, M, S, R.
	ErrUnknownAxis = errors.New("tensor: unknown axis")

	// ErrUnknownCategory indicates a category name outside the seven categories.
	ErrUnknownCategory = errors.New("tensor: unknown category")

	// ErrShape indicates a dense matrix that is not NumAxes×NumCategories.
	ErrShape = errors.New("tensor: transfer matrix must be 5x7")
)
