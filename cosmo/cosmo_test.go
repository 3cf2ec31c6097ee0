package cosmo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubbleFrac(t *testing.T) {
	assert.InDelta(t, 1.0, HubbleFrac(0.31, 0.69, 0), 1e-12)
	// Einstein-de Sitter: h(z) = (1 + z)^1.5.
	assert.InDelta(t, 8.0, HubbleFrac(1, 0, 3), 1e-12)
	// Curvature term: Om + Ok sums to 1 at z = 0.
	assert.InDelta(t, 1.0, HubbleFrac(0.3, 0.6, 0), 1e-12)
}

func TestComovingDistanceEdS(t *testing.T) {
	// For OmegaM = 1 the integral has the closed form
	// D(z) = 2 (c/H0) (1 - 1/sqrt(1+z)).
	ds := ComovingDistance(100, 1, 0, []float64{0, 3})
	assert.InDelta(t, 0.0, ds[0], 1e-8)
	assert.InDelta(t, CMks/100, ds[1], 1e-6)
}

func TestComovingDistanceMonotonic(t *testing.T) {
	zs := []float64{0.1, 0.2, 0.5, 1, 2}
	ds := ComovingDistance(67.6, 0.31, 0.69, zs)
	for i := 1; i < len(ds); i++ {
		assert.Greater(t, ds[i], ds[i-1])
	}
}

func TestUnbiased(t *testing.T) {
	c := Cosmology{H100: 0.7, OmegaM: 0.3, OmegaL: 0.7, GrowthRate: 0.8, Bias: 2}
	u := c.Unbiased()
	assert.Equal(t, 1.0, u.Bias)
	assert.Equal(t, c.GrowthRate, u.GrowthRate)
	assert.Equal(t, 2.0, c.Bias, "the receiver must not change")
}
