package recon

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"gonum.org/v1/gonum/floats"
)

func TestFFT3RoundTrip(t *testing.T) {
	gen := rand.New(rand.NewSource(20))
	bins := [3]int{8, 6, 4}
	vals := make([]float64, bins[0]*bins[1]*bins[2])
	for i := range vals {
		vals[i] = gen.NormFloat64()
	}

	f := newFFT3(bins, 3)
	out := f.inverse(f.forward(vals))

	for i := range vals {
		assert.InDelta(t, vals[i], out[i], 1e-10)
	}
}

func TestSmoothGaussianPreservesMean(t *testing.T) {
	gen := rand.New(rand.NewSource(21))
	bins := [3]int{16, 16, 16}
	cell := [3]float64{2, 2, 2}
	vals := make([]float64, 16*16*16)
	for i := range vals {
		vals[i] = gen.NormFloat64()
	}
	mean := floats.Sum(vals) / float64(len(vals))

	varBefore := 0.0
	for _, v := range vals {
		varBefore += (v - mean) * (v - mean)
	}

	smoothGaussian(vals, bins, cell, 5, 2)

	assert.InDelta(t, mean, floats.Sum(vals)/float64(len(vals)), 1e-10)

	varAfter := 0.0
	for _, v := range vals {
		varAfter += (v - mean) * (v - mean)
	}
	assert.Less(t, varAfter, varBefore)
}

func TestIFFTUniformFieldNoDisplacement(t *testing.T) {
	gen := rand.New(rand.NewSource(22))
	pts := uniformPoints(gen, 100, 0, 32)

	eng, err := New(IFFT, boxOptions(pts, 32, 8))
	assert.NoError(t, err)

	// A spatially constant contrast field has no gradients to undo.
	eng.AssignData(pts, nil)
	g := eng.(*ifft).grid
	for i := range g.data {
		g.data[i] = 1
	}
	eng.SetDensityContrast(0)
	assert.NoError(t, eng.Run())

	out, err := eng.ShiftedPositions(pts, DisplacementRSD)
	assert.NoError(t, err)
	for i := range pts {
		for a := 0; a < 3; a++ {
			assert.InDelta(t, pts[i][a], out[i][a], 1e-10)
		}
	}
}

func TestIFFTDisplacementPointsTowardOverdensity(t *testing.T) {
	// A single clump at the box centre: removing the Zel'dovich
	// displacement moves nearby tracers away from the clump.
	L := 32.0
	clump := [][3]float64{{16, 16, 16}}

	eng, err := New(IFFT, boxOptions(clump, L, 16))
	assert.NoError(t, err)
	eng.AssignData(clump, []float64{100})
	eng.SetDensityContrast(2)
	assert.NoError(t, eng.Run())

	probe := [][3]float64{{22, 16, 16}}
	out, err := eng.ShiftedPositions(probe, Displacement)
	assert.NoError(t, err)
	assert.Greater(t, out[0][0], probe[0][0])
}

func TestIFFTParticleTracksItsOwnData(t *testing.T) {
	gen := rand.New(rand.NewSource(23))
	pts := uniformPoints(gen, 50, 0, 32)

	eng, err := New(IFFTParticle, boxOptions(pts, 32, 8))
	assert.NoError(t, err)
	eng.AssignData(pts, nil)
	eng.SetDensityContrast(4)
	assert.NoError(t, eng.Run())

	fromNil, err := eng.ShiftedPositions(nil, DisplacementRSD)
	assert.NoError(t, err)
	fromExplicit, err := eng.ShiftedPositions(pts, DisplacementRSD)
	assert.NoError(t, err)
	assert.Equal(t, fromExplicit, fromNil)

	// Plain IFFT engines refuse the nil sentinel.
	plain, err := New(IFFT, boxOptions(pts, 32, 8))
	assert.NoError(t, err)
	plain.AssignData(pts, nil)
	plain.SetDensityContrast(4)
	assert.NoError(t, plain.Run())
	_, err = plain.ShiftedPositions(nil, DisplacementRSD)
	assert.Error(t, err)
}

func TestRunBeforeContrastFails(t *testing.T) {
	gen := rand.New(rand.NewSource(24))
	pts := uniformPoints(gen, 10, 0, 32)

	eng, err := New(IFFT, boxOptions(pts, 32, 8))
	assert.NoError(t, err)
	assert.Error(t, eng.Run())
}
