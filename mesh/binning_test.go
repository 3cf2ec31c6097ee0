package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptimalBinningExamples(t *testing.T) {
	// Hand-checked against the candidate set {2^p, 2^(p-1), 3*2^(p-2),
	// 5*(p-3), 7*(p-3)}.
	cases := []struct{ in, out int }{
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 4},
		{5, 6},
		{39, 48},
		{40, 48},
		{100, 128},
		{384, 384},
		{387, 512},
		{500, 512},
		{512, 512},
	}

	for _, c := range cases {
		out, err := OptimalBinning([3]int{c.in, c.in, c.in})
		assert.NoError(t, err)
		assert.Equal(t, [3]int{c.out, c.out, c.out}, out, "n = %d", c.in)
	}
}

func TestOptimalBinningPerAxis(t *testing.T) {
	out, err := OptimalBinning([3]int{39, 387, 384})
	assert.NoError(t, err)
	assert.Equal(t, [3]int{48, 512, 384}, out)
}

func TestOptimalBinningNeverShrinks(t *testing.T) {
	for n := 1; n <= 2048; n++ {
		out, err := OptimalBinning([3]int{n, n, n})
		assert.NoError(t, err)
		assert.True(t, out[0] >= n, "n = %d gave %d", n, out[0])
		assert.True(
			t, float64(out[0]) <= math.Pow(2, math.Ceil(math.Log2(float64(n)))),
			"n = %d gave %d, above the next power of two", n, out[0],
		)
	}
}

func TestOptimalBinningRejectsNonPositive(t *testing.T) {
	_, err := OptimalBinning([3]int{0, 10, 10})
	assert.Error(t, err)
	_, err = OptimalBinning([3]int{10, -4, 10})
	assert.Error(t, err)
}
