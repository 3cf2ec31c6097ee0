package mesh

import (
	"fmt"
	"math"
)

// OptimalBinning returns, per axis, the smallest FFT-friendly bin count at
// or above the given minimum. For a minimum n with p = ceil(log2(n)), the
// candidates are 2^p, 2^(p-1), 3*2^(p-2), 5*(p-3) and 7*(p-3); the
// candidate with the smallest non-negative excess over n wins, first
// enumerated winning ties. Minimums must be positive.
func OptimalBinning(min [3]int) ([3]int, error) {
	var out [3]int
	for i, n := range min {
		if n <= 0 {
			return out, fmt.Errorf(
				"Minimum bin counts must be positive, got %d on axis %d.",
				n, i,
			)
		}

		p := math.Ceil(math.Log2(float64(n)))
		candidates := []float64{
			math.Pow(2, p),
			math.Pow(2, p-1),
			3 * math.Pow(2, p-2),
			5 * (p - 3),
			7 * (p - 3),
		}

		best := math.Inf(1)
		for _, c := range candidates {
			diff := c - float64(n)
			if diff >= 0 && diff < best {
				best = diff
			}
		}
		out[i] = n + int(math.Round(best))
	}
	return out, nil
}
