package calculator

import (
	"errors"
	"fmt"
	"math"
)

// PercentileSorted returns the q-th percentile (0 <= q <= 100) of an ascending slice.
//
// Values between order statistics are linearly interpolated: with h = (n-1)*q/100
// the result is x[floor(h)] + (h-floor(h))*(x[floor(h)+1]-x[floor(h)]). This is the
// "linear" (R type 7) method and matches numpy.percentile's default.
func PercentileSorted(sorted []float64, q float64) (float64, error) {
	if len(sorted) == 0 {
		return 0, errors.New("no values for percentile")
	}
	if q < 0 || q > 100 || math.IsNaN(q) {
		return 0, fmt.Errorf("percentile %v out of range [0, 100]", q)
	}
	h := float64(len(sorted)-1) * (q / 100)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1], nil
	}
	frac := h - float64(lo)
	a, b := sorted[lo], sorted[lo+1]
	if frac == 0 || a == b {
		return a, nil
	}
	v := a + frac*(b-a)
	// Keep the result inside its bracket so rounding cannot reorder percentiles.
	if v > b {
		v = b
	}
	return v, nil
}
