// Package interp provides one-dimensional linear interpolation over sampled data.
package interp

import "sort"

// Linear returns the piecewise-linear interpolant of (xs, ys) evaluated at x.
//
// xs must be non-decreasing and the same length as ys. Queries left of xs[0]
// return ys[0]; queries at or right of the last abscissa return the last
// ordinate. When abscissae repeat, the right-most sample at that abscissa is
// used as the left end of the interpolating segment.
func Linear(x float64, xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}

	i := sort.Search(n, func(i int) bool { return xs[i] > x })
	switch {
	case i == 0:
		return ys[0]
	case i == n:
		return ys[n-1]
	}

	j := i - 1
	slope := (ys[i] - ys[j]) / (xs[i] - xs[j])
	return ys[j] + slope*(x-xs[j])
}

// Bracket returns the index of the right-most sample whose abscissa is at or
// left of x, or -1 when x lies left of every sample.
func Bracket(x float64, xs []float64) int {
	return sort.Search(len(xs), func(i int) bool { return xs[i] > x }) - 1
}
