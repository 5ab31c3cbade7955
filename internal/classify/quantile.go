// Package classify computes tercile thresholds for two measures and assigns
// each region one of nine bivariate classes.
package classify

import (
	"math"
	"slices"
)

// Quantile returns the p-quantile of an ascending-sorted slice using linear
// interpolation between the order statistics at floor((n-1)p) and the next.
// ok is false for an empty slice or a p outside [0, 1].
func Quantile(sorted []float64, p float64) (q float64, ok bool) {
	n := len(sorted)
	if n == 0 || math.IsNaN(p) || p < 0 || p > 1 {
		return 0, false
	}
	if n == 1 || p == 0 {
		return sorted[0], true
	}
	if p == 1 {
		return sorted[n-1], true
	}
	i := float64(n-1) * p
	i0 := int(math.Floor(i))
	v0 := sorted[i0]
	v1 := sorted[i0+1]
	return v0 + (v1-v0)*(i-float64(i0)), true
}

// Values collects the finite values behind the non-nil pointers and sorts them.
func Values(ptrs []*float64) []float64 {
	out := make([]float64, 0, len(ptrs))
	for _, p := range ptrs {
		if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
			continue
		}
		out = append(out, *p)
	}
	slices.Sort(out)
	return out
}

// Bounds is a pair of tercile boundaries with Low <= High.
type Bounds struct {
	Low  float64
	High float64
}

// Terciles computes the boundaries at the low and high probabilities.
// ok is false when there are no values.
func Terciles(sorted []float64, low, high float64) (Bounds, bool) {
	lo, ok := Quantile(sorted, low)
	if !ok {
		return Bounds{}, false
	}
	hi, ok := Quantile(sorted, high)
	if !ok {
		return Bounds{}, false
	}
	return Bounds{Low: lo, High: hi}, true
}
