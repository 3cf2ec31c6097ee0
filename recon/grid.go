package recon

import (
	"fmt"
	"math"
	"runtime"

	"gonum.org/v1/gonum/floats"

	"github.com/ntbfin00/JulVF/geom"
)

// provisionalBins is the grid resolution used when the caller asks the
// engine to infer its own geometry. Such engines only exist to measure box
// extents and coarse occupancy, so the resolution just has to be sane.
const provisionalBins = 64

// randomsFloor is the fraction of the mean random count per cell below
// which a cell is treated as outside the survey footprint.
const randomsFloor = 0.01

// grid holds the state shared by every engine variant: the box geometry,
// the accumulation meshes, and the solved displacement field.
type grid struct {
	boxSize   [3]float64
	boxCentre [3]float64
	bins      [3]int
	idx       *geom.Grid

	data    []float64
	randoms []float64
	delta   []float64
	psi     [3][]float64

	// Positions handed to AssignData, kept for particle-tracked read-back.
	dataPos [][3]float64

	randomsAssigned bool
	particle        bool

	growth, bias float64
	los          int
	wrap         bool
	precision    string
	threads      int
}

func newGrid(opt Options, particle bool) (*grid, error) {
	if len(opt.Positions) == 0 {
		return nil, fmt.Errorf(
			"Cannot construct an engine from an empty position array.",
		)
	}
	if opt.Bias == 0 {
		return nil, fmt.Errorf("Cannot construct an engine with bias = 0.")
	}

	g := &grid{
		bins:      opt.Bins,
		growth:    opt.GrowthRate,
		bias:      opt.Bias,
		los:       opt.LOS,
		wrap:      opt.Wrap,
		precision: opt.Precision,
		particle:  particle,
		threads:   opt.Threads,
	}
	if g.threads <= 0 {
		g.threads = runtime.NumCPU()
	}
	if g.precision == "" {
		g.precision = "f4"
	}

	if g.bins == [3]int{} {
		g.bins = [3]int{provisionalBins, provisionalBins, provisionalBins}
	}
	for i := 0; i < 3; i++ {
		if g.bins[i] <= 0 {
			return nil, fmt.Errorf(
				"Invalid bin count %d on axis %d.", g.bins[i], i,
			)
		}
	}

	if opt.BoxSize[0] > 0 && opt.BoxSize[1] > 0 && opt.BoxSize[2] > 0 {
		g.boxSize = opt.BoxSize
		g.boxCentre = opt.BoxCentre
	} else {
		pad := opt.Padding
		if pad <= 0 {
			pad = 1
		}
		g.inferBox(opt.Positions, pad)
	}

	g.idx = geom.NewGrid(g.bins)
	g.data = make([]float64, g.idx.Volume)
	g.randoms = make([]float64, g.idx.Volume)

	return g, nil
}

// inferBox sets the box geometry from the bounding box of the given
// positions, expanded by pad on every axis.
func (g *grid) inferBox(pos [][3]float64, pad float64) {
	min, max := pos[0], pos[0]
	for _, p := range pos[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	for i := 0; i < 3; i++ {
		g.boxCentre[i] = (max[i] + min[i]) / 2
		g.boxSize[i] = (max[i] - min[i]) * pad
	}
}

func (g *grid) BoxSize() [3]float64 { return g.boxSize }

func (g *grid) BoxCentre() [3]float64 { return g.boxCentre }

func (g *grid) Bins() [3]int { return g.bins }

// CellSize returns the physical size of one grid cell per axis.
func (g *grid) CellSize() [3]float64 {
	var c [3]float64
	for i := 0; i < 3; i++ {
		c[i] = g.boxSize[i] / float64(g.bins[i])
	}
	return c
}

func (g *grid) AssignData(pos [][3]float64, wt []float64) {
	g.dataPos = pos
	g.assign(g.data, pos, wt)
}

func (g *grid) AssignRandoms(pos [][3]float64, wt []float64) {
	g.randomsAssigned = true
	g.assign(g.randoms, pos, wt)
}

// assign deposits weighted points onto a mesh with cloud-in-cell
// interpolation.
func (g *grid) assign(mesh []float64, pos [][3]float64, wt []float64) {
	cell := g.CellSize()
	for n, p := range pos {
		w := 1.0
		if wt != nil {
			w = wt[n]
		}

		var i0 [3]int
		var f [3]float64
		for a := 0; a < 3; a++ {
			// Cell-centre coordinates: u = 0 is the centre of cell 0.
			u := (p[a]-g.boxCentre[a])/cell[a] + float64(g.bins[a])/2 - 0.5
			fl := math.Floor(u)
			i0[a] = int(fl)
			f[a] = u - fl
		}

		for dz := 0; dz < 2; dz++ {
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					x, ok0 := g.wrapIdx(i0[0]+dx, 0)
					y, ok1 := g.wrapIdx(i0[1]+dy, 1)
					z, ok2 := g.wrapIdx(i0[2]+dz, 2)
					if !ok0 || !ok1 || !ok2 {
						continue
					}
					frac := cicFrac(f[0], dx) * cicFrac(f[1], dy) *
						cicFrac(f[2], dz)
					mesh[g.idx.Idx(x, y, z)] += w * frac
				}
			}
		}
	}
}

func cicFrac(f float64, d int) float64 {
	if d == 1 {
		return f
	}
	return 1 - f
}

// wrapIdx maps a raw cell index onto the grid, wrapping when periodic
// boundaries are enabled and dropping out-of-box indices otherwise.
func (g *grid) wrapIdx(i, axis int) (int, bool) {
	n := g.bins[axis]
	if i >= 0 && i < n {
		return i, true
	}
	if g.wrap {
		return geom.PMod(i, n), true
	}
	return 0, false
}

// interpolate reads a mesh back at an arbitrary position with the same
// cloud-in-cell kernel used for assignment.
func (g *grid) interpolate(mesh []float64, p [3]float64) float64 {
	cell := g.CellSize()

	var i0 [3]int
	var f [3]float64
	for a := 0; a < 3; a++ {
		u := (p[a]-g.boxCentre[a])/cell[a] + float64(g.bins[a])/2 - 0.5
		fl := math.Floor(u)
		i0[a] = int(fl)
		f[a] = u - fl
	}

	v := 0.0
	for dz := 0; dz < 2; dz++ {
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				x, ok0 := g.wrapIdx(i0[0]+dx, 0)
				y, ok1 := g.wrapIdx(i0[1]+dy, 1)
				z, ok2 := g.wrapIdx(i0[2]+dz, 2)
				if !ok0 || !ok1 || !ok2 {
					continue
				}
				frac := cicFrac(f[0], dx) * cicFrac(f[1], dy) *
					cicFrac(f[2], dz)
				v += frac * mesh[g.idx.Idx(x, y, z)]
			}
		}
	}
	return v
}

// SetDensityContrast converts the accumulated counts into a bias-divided
// density contrast field. With randoms assigned, the contrast is computed
// against the survey selection function alpha * randoms; cells with a
// random count below randomsFloor of the mean are treated as outside the
// footprint and zeroed.
func (g *grid) SetDensityContrast(rSmooth float64) {
	delta := make([]float64, g.idx.Volume)

	if g.randomsAssigned {
		sumData := floats.Sum(g.data)
		sumRan := floats.Sum(g.randoms)
		alpha := sumData / sumRan
		floor := randomsFloor * sumRan / float64(len(g.randoms))
		for i := range delta {
			if g.randoms[i] > floor {
				ran := alpha * g.randoms[i]
				delta[i] = (g.data[i] - ran) / (ran * g.bias)
			}
		}
	} else {
		mean := floats.Sum(g.data) / float64(len(g.data))
		for i := range delta {
			delta[i] = (g.data[i]/mean - 1) / g.bias
		}
	}

	if rSmooth > 0 {
		smoothGaussian(delta, g.bins, g.CellSize(), rSmooth, g.threads)
	}
	g.delta = delta
}

func (g *grid) Mesh() []float64 { return g.delta }

func (g *grid) RandomsMesh() []float64 { return g.randoms }

// ShiftedPositions evaluates the solved displacement field at the given
// positions and removes the selected field component from them. A nil
// position array reads back at the engine's own tracked data, which only
// particle-tracked engines support.
func (g *grid) ShiftedPositions(
	data [][3]float64, field Field,
) ([][3]float64, error) {
	if g.psi[0] == nil {
		return nil, fmt.Errorf(
			"Cannot read shifted positions before the engine has run.",
		)
	}
	if data == nil {
		if !g.particle {
			return nil, fmt.Errorf(
				"Engine does not track its own data: " +
					"an explicit position array is required.",
			)
		}
		data = g.dataPos
	}
	if field >= EndField {
		return nil, fmt.Errorf("Unrecognized field selector (%d).", int(field))
	}

	out := make([][3]float64, len(data))
	for n, p := range data {
		var disp geom.Vec
		for a := 0; a < 3; a++ {
			disp[a] = g.interpolate(g.psi[a], p)
		}

		los := g.losVector(p)
		rsd := los.Scale(g.growth * disp.Dot(los))

		var shift geom.Vec
		switch field {
		case Displacement:
			shift = disp
		case RSD:
			shift = rsd
		case DisplacementRSD:
			shift = disp.Add(rsd)
		}

		for a := 0; a < 3; a++ {
			out[n][a] = p[a] - shift[a]
		}
	}
	return out, nil
}

// losVector returns the unit line-of-sight vector at position p: the fixed
// configured axis for periodic boxes, the radial direction from the
// observer for surveys.
func (g *grid) losVector(p [3]float64) geom.Vec {
	if g.los != NoLOS {
		var v geom.Vec
		v[g.los] = 1
		return v
	}
	r := math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
	if r == 0 {
		return geom.Vec{}
	}
	return geom.Vec{p[0] / r, p[1] / r, p[2] / r}
}
