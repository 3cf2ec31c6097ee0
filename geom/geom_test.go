package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridIndexRoundTrip(t *testing.T) {
	g := NewGrid([3]int{4, 6, 8})
	assert.Equal(t, 4*6*8, g.Volume)

	for idx := 0; idx < g.Volume; idx++ {
		x, y, z := g.Coords(idx)
		assert.True(t, g.BoundsCheck(x, y, z))
		assert.Equal(t, idx, g.Idx(x, y, z))
	}

	assert.False(t, g.BoundsCheck(4, 0, 0))
	assert.False(t, g.BoundsCheck(0, -1, 0))
}

func TestPMod(t *testing.T) {
	assert.Equal(t, 3, PMod(-1, 4))
	assert.Equal(t, 0, PMod(4, 4))
	assert.Equal(t, 1, PMod(5, 4))
	assert.Equal(t, 2, PMod(-6, 4))
}

func TestVecOps(t *testing.T) {
	v := Vec{1, 2, 3}
	u := Vec{4, 5, 6}

	assert.Equal(t, Vec{5, 7, 9}, v.Add(u))
	assert.Equal(t, Vec{-3, -3, -3}, v.Sub(u))
	assert.Equal(t, Vec{2, 4, 6}, v.Scale(2))
	assert.Equal(t, 32.0, v.Dot(u))
}
