package recon

import (
	"fmt"

	"github.com/ntbfin00/JulVF/geom"
)

const (
	// V-cycles run on the displacement potential solve.
	mgCycles = 8
	// Relaxation sweeps on descent and ascent of each cycle.
	mgSweeps = 4
	// Relaxation sweeps on the coarsest level.
	mgCoarseSweeps = 60
	// Coarsening stops once an axis is this small or odd.
	mgMinWidth = 4
)

// multigrid solves the displacement potential from the Poisson equation
// lap(phi) = delta with periodic Gauss-Seidel V-cycles, then differences
// psi = -grad(phi). Slower to converge than the FFT engines but does not
// require the contrast field to be well-behaved in Fourier space.
type multigrid struct {
	*grid
}

func newMultiGrid(opt Options) (Engine, error) {
	g, err := newGrid(opt, false)
	if err != nil {
		return nil, err
	}
	return &multigrid{g}, nil
}

func (e *multigrid) Run() error {
	if e.delta == nil {
		return fmt.Errorf("Cannot run before the density contrast is set.")
	}

	lv := newMGLevel(e.bins, e.CellSize())
	phi := make([]float64, lv.idx.Volume)
	for c := 0; c < mgCycles; c++ {
		lv.vcycle(phi, e.delta)
	}

	// psi = -grad(phi), central differences with periodic wrap.
	for axis := 0; axis < 3; axis++ {
		e.psi[axis] = lv.gradNeg(phi, axis)
	}
	return nil
}

// mgLevel is one resolution level of the multigrid hierarchy.
type mgLevel struct {
	bins [3]int
	h    [3]float64
	idx  *geom.Grid
}

func newMGLevel(bins [3]int, h [3]float64) *mgLevel {
	return &mgLevel{bins: bins, h: h, idx: geom.NewGrid(bins)}
}

// canCoarsen returns true if every axis is even and still wide enough to
// halve.
func (lv *mgLevel) canCoarsen() bool {
	for a := 0; a < 3; a++ {
		if lv.bins[a] <= mgMinWidth || lv.bins[a]%2 != 0 {
			return false
		}
	}
	return true
}

func (lv *mgLevel) coarser() *mgLevel {
	b := [3]int{lv.bins[0] / 2, lv.bins[1] / 2, lv.bins[2] / 2}
	h := [3]float64{lv.h[0] * 2, lv.h[1] * 2, lv.h[2] * 2}
	return newMGLevel(b, h)
}

func (lv *mgLevel) vcycle(phi, rhs []float64) {
	if !lv.canCoarsen() {
		lv.relax(phi, rhs, mgCoarseSweeps)
		return
	}

	lv.relax(phi, rhs, mgSweeps)

	res := lv.residual(phi, rhs)
	coarse := lv.coarser()
	cRhs := lv.restrict(res, coarse)
	cPhi := make([]float64, coarse.idx.Volume)
	coarse.vcycle(cPhi, cRhs)
	lv.prolongAdd(phi, cPhi, coarse)

	lv.relax(phi, rhs, mgSweeps)
}

// relax runs Gauss-Seidel sweeps of the 7-point periodic Laplacian
// lap(phi) = rhs with anisotropic spacings.
func (lv *mgLevel) relax(phi, rhs []float64, sweeps int) {
	ix, iy, iz := 1/(lv.h[0]*lv.h[0]), 1/(lv.h[1]*lv.h[1]), 1/(lv.h[2]*lv.h[2])
	diag := 2 * (ix + iy + iz)

	nx, ny, nz := lv.bins[0], lv.bins[1], lv.bins[2]
	for s := 0; s < sweeps; s++ {
		for z := 0; z < nz; z++ {
			zm, zp := geom.PMod(z-1, nz), geom.PMod(z+1, nz)
			for y := 0; y < ny; y++ {
				ym, yp := geom.PMod(y-1, ny), geom.PMod(y+1, ny)
				for x := 0; x < nx; x++ {
					xm, xp := geom.PMod(x-1, nx), geom.PMod(x+1, nx)
					sum := ix*(phi[lv.idx.Idx(xm, y, z)]+phi[lv.idx.Idx(xp, y, z)]) +
						iy*(phi[lv.idx.Idx(x, ym, z)]+phi[lv.idx.Idx(x, yp, z)]) +
						iz*(phi[lv.idx.Idx(x, y, zm)]+phi[lv.idx.Idx(x, y, zp)])
					phi[lv.idx.Idx(x, y, z)] = (sum - rhs[lv.idx.Idx(x, y, z)]) / diag
				}
			}
		}
	}
}

// residual returns rhs - lap(phi).
func (lv *mgLevel) residual(phi, rhs []float64) []float64 {
	ix, iy, iz := 1/(lv.h[0]*lv.h[0]), 1/(lv.h[1]*lv.h[1]), 1/(lv.h[2]*lv.h[2])
	diag := 2 * (ix + iy + iz)

	nx, ny, nz := lv.bins[0], lv.bins[1], lv.bins[2]
	res := make([]float64, lv.idx.Volume)
	for z := 0; z < nz; z++ {
		zm, zp := geom.PMod(z-1, nz), geom.PMod(z+1, nz)
		for y := 0; y < ny; y++ {
			ym, yp := geom.PMod(y-1, ny), geom.PMod(y+1, ny)
			for x := 0; x < nx; x++ {
				xm, xp := geom.PMod(x-1, nx), geom.PMod(x+1, nx)
				i := lv.idx.Idx(x, y, z)
				lap := ix*(phi[lv.idx.Idx(xm, y, z)]+phi[lv.idx.Idx(xp, y, z)]) +
					iy*(phi[lv.idx.Idx(x, ym, z)]+phi[lv.idx.Idx(x, yp, z)]) +
					iz*(phi[lv.idx.Idx(x, y, zm)]+phi[lv.idx.Idx(x, y, zp)]) -
					diag*phi[i]
				res[i] = rhs[i] - lap
			}
		}
	}
	return res
}

// restrict averages 2x2x2 blocks of fine cells onto the coarse grid.
func (lv *mgLevel) restrict(fine []float64, coarse *mgLevel) []float64 {
	out := make([]float64, coarse.idx.Volume)
	for z := 0; z < coarse.bins[2]; z++ {
		for y := 0; y < coarse.bins[1]; y++ {
			for x := 0; x < coarse.bins[0]; x++ {
				sum := 0.0
				for dz := 0; dz < 2; dz++ {
					for dy := 0; dy < 2; dy++ {
						for dx := 0; dx < 2; dx++ {
							sum += fine[lv.idx.Idx(2*x+dx, 2*y+dy, 2*z+dz)]
						}
					}
				}
				out[coarse.idx.Idx(x, y, z)] = sum / 8
			}
		}
	}
	return out
}

// prolongAdd injects the coarse correction back into the fine solution.
func (lv *mgLevel) prolongAdd(phi, cPhi []float64, coarse *mgLevel) {
	for z := 0; z < lv.bins[2]; z++ {
		for y := 0; y < lv.bins[1]; y++ {
			for x := 0; x < lv.bins[0]; x++ {
				phi[lv.idx.Idx(x, y, z)] +=
					cPhi[coarse.idx.Idx(x/2, y/2, z/2)]
			}
		}
	}
}

// gradNeg returns -d(phi)/dx_axis with periodic central differences.
func (lv *mgLevel) gradNeg(phi []float64, axis int) []float64 {
	out := make([]float64, lv.idx.Volume)
	n := lv.bins
	for z := 0; z < n[2]; z++ {
		for y := 0; y < n[1]; y++ {
			for x := 0; x < n[0]; x++ {
				c := [3]int{x, y, z}
				m, p := c, c
				m[axis] = geom.PMod(c[axis]-1, n[axis])
				p[axis] = geom.PMod(c[axis]+1, n[axis])
				out[lv.idx.Idx(x, y, z)] = -(phi[lv.idx.Idx(p[0], p[1], p[2])] -
					phi[lv.idx.Idx(m[0], m[1], m[2])]) / (2 * lv.h[axis])
			}
		}
	}
	return out
}
