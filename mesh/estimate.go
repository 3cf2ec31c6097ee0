package mesh

import (
	"log"
	"math"
)

// sepIterations is the number of footprint-corrected density refinements
// run for survey-shaped catalogues.
const sepIterations = 4

// SeparationBins estimates the mean galaxy separation r_sep and derives
// the per-axis bin count that samples it with CellsPerSep cells.
//
// The first estimate comes from the galaxy count over the full bounding
// box volume. That is exact for periodic boxes, but survey masks leave
// large empty regions inside the bounding box, biasing the density low, so
// survey catalogues refine the estimate by counting the grid cells the
// randoms actually occupy: a cell is "filled" if its random count exceeds
// 1% of the mean, and the density is re-estimated over the filled volume
// only.
func (p *Pipeline) SeparationBins() (bins [3]int, rSep float64, err error) {
	cos := p.Cosmo.Unbiased()

	eng, _, err := p.newEngine(cos, AutoBins(), p.Par.Padding)
	if err != nil {
		return bins, 0, err
	}
	box := eng.BoxSize()
	volume := box[0] * box[1] * box[2]

	nGal := float64(len(p.Cat.Data))
	meanDens := nGal / volume
	rSep = sepFromDensity(meanDens)

	if !p.Par.Box {
		for i := 0; i < sepIterations; i++ {
			var nb [3]int
			for a := 0; a < 3; a++ {
				nb[a] = int(math.Ceil(box[a] / rSep))
			}
			if i == sepIterations-1 {
				break
			}

			trial, _, err := p.newEngine(cos, FixedBins(nb), p.Par.Padding)
			if err != nil {
				return bins, 0, err
			}
			trial.AssignRandoms(p.Cat.Randoms, p.Cat.RandomWt)

			ran := trial.RandomsMesh()
			total := 0.0
			for _, v := range ran {
				total += v
			}
			threshold := 0.01 * total / float64(len(ran))
			filled := 0
			for _, v := range ran {
				if v > threshold {
					filled++
				}
			}

			cellVol := (box[0] / float64(nb[0])) *
				(box[1] / float64(nb[1])) * (box[2] / float64(nb[2]))
			meanDens = nGal / (float64(filled) * cellVol)
			rSep = sepFromDensity(meanDens)
		}
	}

	for a := 0; a < 3; a++ {
		bins[a] = int(math.Ceil(
			p.Par.CellsPerSep * p.Par.Padding * box[a] / rSep,
		))
	}
	log.Printf(
		"Estimated mean galaxy separation %.4g, minimum bins %d %d %d",
		rSep, bins[0], bins[1], bins[2],
	)
	return bins, rSep, nil
}

// sepFromDensity returns the mean nearest-neighbour spacing of a Poisson
// point process with the given mean density.
func sepFromDensity(meanDens float64) float64 {
	return math.Pow(4*math.Pi*meanDens/3, -1.0/3)
}
