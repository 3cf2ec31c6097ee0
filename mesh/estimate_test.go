package mesh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ntbfin00/JulVF/catalog"
	"github.com/ntbfin00/JulVF/cosmo"
)

func testCosmology() cosmo.Cosmology {
	return cosmo.Cosmology{
		H100: 0.676, OmegaM: 0.31, OmegaL: 0.69,
		GrowthRate: 0.8, Bias: 2,
	}
}

func uniformPoints(gen *rand.Rand, n int, lo, hi float64) [][3]float64 {
	pts := make([][3]float64, n)
	for i := range pts {
		for a := 0; a < 3; a++ {
			pts[i][a] = lo + (hi-lo)*gen.Float64()
		}
	}
	return pts
}

func TestSeparationBinsPeriodicBox(t *testing.T) {
	gen := rand.New(rand.NewSource(42))
	L := 1000.0
	n := 1000

	cat := &catalog.GalaxyCatalogue{Data: uniformPoints(gen, n, 0, L)}

	par := DefaultParams()
	par.Box = true
	par.BoxLength = L
	par.BoxCentre = [3]float64{L / 2, L / 2, L / 2}

	p := NewPipeline(testCosmology(), cat, par)
	bins, rSep, err := p.SeparationBins()
	assert.NoError(t, err)

	// For a periodic box the single-pass Poisson estimate is final.
	meanDens := float64(n) / (L * L * L)
	want := math.Pow(4*math.Pi*meanDens/3, -1.0/3)
	assert.InDelta(t, want, rSep, 1e-10)

	for a := 0; a < 3; a++ {
		wantBins := int(math.Ceil(par.CellsPerSep * par.Padding * L / rSep))
		assert.Equal(t, wantBins, bins[a])
	}
}

func TestSeparationBinsSurveyRefinement(t *testing.T) {
	gen := rand.New(rand.NewSource(99))

	// Randoms trace a 100-unit cube, but padding inflates the inferred
	// bounding box, so the naive density estimate is biased low. The
	// filled-cell refinement must pull r_sep back down.
	cat := &catalog.GalaxyCatalogue{
		Data:    uniformPoints(gen, 500, 0, 100),
		Randoms: uniformPoints(gen, 20000, 0, 100),
	}

	par := DefaultParams()
	p := NewPipeline(testCosmology(), cat, par)

	bins, rSep, err := p.SeparationBins()
	assert.NoError(t, err)

	// Bounding box: randoms extent times padding, matching the engine's
	// geometry inference.
	var box [3]float64
	for a := 0; a < 3; a++ {
		min, max := cat.Randoms[0][a], cat.Randoms[0][a]
		for _, r := range cat.Randoms[1:] {
			if r[a] < min {
				min = r[a]
			}
			if r[a] > max {
				max = r[a]
			}
		}
		box[a] = (max - min) * par.Padding
	}

	naiveDens := 500.0 / (box[0] * box[1] * box[2])
	naive := math.Pow(4*math.Pi*naiveDens/3, -1.0/3)

	assert.Less(t, rSep, naive)
	assert.Greater(t, rSep, naive/2)

	for a := 0; a < 3; a++ {
		wantBins := int(math.Ceil(par.CellsPerSep * par.Padding * box[a] / rSep))
		assert.Equal(t, wantBins, bins[a])
	}
}

func TestSeparationBinsSurveyRequiresRandoms(t *testing.T) {
	gen := rand.New(rand.NewSource(1))
	cat := &catalog.GalaxyCatalogue{Data: uniformPoints(gen, 100, 0, 100)}

	p := NewPipeline(testCosmology(), cat, DefaultParams())
	_, _, err := p.SeparationBins()
	assert.Error(t, err)
}
