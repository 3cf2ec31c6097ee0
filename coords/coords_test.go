package coords

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ntbfin00/JulVF/cosmo"
)

func testCosmology() cosmo.Cosmology {
	return cosmo.Cosmology{H100: 0.676, OmegaM: 0.31, OmegaL: 0.69}
}

func TestCartesianPositionsAxes(t *testing.T) {
	c := testCosmology()
	z := 0.5
	d := cosmo.ComovingDistance(c.H100*100, c.OmegaM, c.OmegaL, []float64{z})[0]

	rows := [][4]float64{
		{0, 0, 0, z},   // along +x
		{0, 90, 0, z},  // along +y
		{0, 0, 90, z},  // along +z
		{0, 180, 0, z}, // along -x
	}
	out, err := CartesianPositions(c, rows, "degrees")
	assert.NoError(t, err)

	want := [][3]float64{
		{d, 0, 0}, {0, d, 0}, {0, 0, d}, {-d, 0, 0},
	}
	for i := range want {
		for a := 0; a < 3; a++ {
			assert.InDelta(t, want[i][a], out[i][a], d*1e-12)
		}
	}
}

func TestCartesianPositionsRadians(t *testing.T) {
	c := testCosmology()
	deg := [][4]float64{{0, 45, 30, 0.3}}
	rad := [][4]float64{{0, math.Pi / 4, math.Pi / 6, 0.3}}

	a, err := CartesianPositions(c, deg, "degrees")
	assert.NoError(t, err)
	b, err := CartesianPositions(c, rad, "radians")
	assert.NoError(t, err)

	for axis := 0; axis < 3; axis++ {
		assert.InDelta(t, a[0][axis], b[0][axis], 1e-9)
	}
}

func TestCartesianPositionsBadUnits(t *testing.T) {
	_, err := CartesianPositions(
		testCosmology(), [][4]float64{{0, 0, 0, 0.1}}, "arcminutes",
	)
	assert.Error(t, err)
}
