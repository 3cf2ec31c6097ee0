package recon

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/ntbfin00/JulVF/geom"
)

// ifft solves for the Zel'dovich displacement field in Fourier space:
// psi(k) = i k / k^2 delta(k), inverse transformed per axis. The particle
// flag on the embedded grid decides whether read-back defaults to the
// engine's own tracked data (IFFTparticle) or requires explicit positions
// (IFFT).
type ifft struct {
	*grid
}

func newIFFT(opt Options, particle bool) (Engine, error) {
	g, err := newGrid(opt, particle)
	if err != nil {
		return nil, err
	}
	return &ifft{g}, nil
}

func (e *ifft) Run() error {
	if e.delta == nil {
		return fmt.Errorf("Cannot run before the density contrast is set.")
	}

	f := newFFT3(e.bins, e.threads)
	cell := e.CellSize()
	dk := f.forward(e.delta)

	for axis := 0; axis < 3; axis++ {
		pk := make([]complex128, len(dk))
		for i := range dk {
			x, y, z := f.idx.Coords(i)
			kx := 2 * math.Pi * f.plans[0].Freq(x) / cell[0]
			ky := 2 * math.Pi * f.plans[1].Freq(y) / cell[1]
			kz := 2 * math.Pi * f.plans[2].Freq(z) / cell[2]
			k2 := kx*kx + ky*ky + kz*kz
			if k2 == 0 {
				continue
			}
			ks := [3]float64{kx, ky, kz}
			pk[i] = complex(0, ks[axis]/k2) * dk[i]
		}
		e.psi[axis] = f.inverse(pk)
	}
	return nil
}

// smoothGaussian convolves vals in place with an isotropic Gaussian of
// radius r by multiplying with exp(-k^2 r^2 / 2) in Fourier space.
func smoothGaussian(vals []float64, bins [3]int, cell [3]float64, r float64, threads int) {
	f := newFFT3(bins, threads)
	ck := f.forward(vals)
	for i := range ck {
		x, y, z := f.idx.Coords(i)
		kx := 2 * math.Pi * f.plans[0].Freq(x) / cell[0]
		ky := 2 * math.Pi * f.plans[1].Freq(y) / cell[1]
		kz := 2 * math.Pi * f.plans[2].Freq(z) / cell[2]
		k2 := kx*kx + ky*ky + kz*kz
		ck[i] *= complex(math.Exp(-k2*r*r/2), 0)
	}
	out := f.inverse(ck)
	copy(vals, out)
}

// fft3 composes gonum's 1D complex FFTs into a 3D transform over a flat
// x-fastest grid, parallelized across grid lines.
type fft3 struct {
	bins    [3]int
	idx     *geom.Grid
	plans   [3]*fourier.CmplxFFT
	threads int
}

func newFFT3(bins [3]int, threads int) *fft3 {
	f := &fft3{bins: bins, idx: geom.NewGrid(bins), threads: threads}
	for a := 0; a < 3; a++ {
		f.plans[a] = fourier.NewCmplxFFT(bins[a])
	}
	if f.threads <= 0 {
		f.threads = 1
	}
	return f
}

func (f *fft3) forward(vals []float64) []complex128 {
	c := make([]complex128, len(vals))
	for i, v := range vals {
		c[i] = complex(v, 0)
	}
	for a := 0; a < 3; a++ {
		f.transformAxis(c, a, false)
	}
	return c
}

func (f *fft3) inverse(c []complex128) []float64 {
	work := make([]complex128, len(c))
	copy(work, c)
	for a := 0; a < 3; a++ {
		f.transformAxis(work, a, true)
	}
	norm := float64(f.idx.Volume)
	out := make([]float64, len(work))
	for i, v := range work {
		out[i] = real(v) / norm
	}
	return out
}

// transformAxis runs 1D transforms along one axis for every grid line.
// Lines are split across workers; each worker owns a private plan since
// CmplxFFT carries internal scratch state.
func (f *fft3) transformAxis(c []complex128, axis int, inverse bool) {
	n := f.bins[axis]
	stride := 1
	for a := 0; a < axis; a++ {
		stride *= f.bins[a]
	}

	// Enumerate the starting index of every line along this axis.
	lines := make([]int, 0, f.idx.Volume/n)
	switch axis {
	case 0:
		for z := 0; z < f.bins[2]; z++ {
			for y := 0; y < f.bins[1]; y++ {
				lines = append(lines, f.idx.Idx(0, y, z))
			}
		}
	case 1:
		for z := 0; z < f.bins[2]; z++ {
			for x := 0; x < f.bins[0]; x++ {
				lines = append(lines, f.idx.Idx(x, 0, z))
			}
		}
	case 2:
		for y := 0; y < f.bins[1]; y++ {
			for x := 0; x < f.bins[0]; x++ {
				lines = append(lines, f.idx.Idx(x, y, 0))
			}
		}
	}

	workers := f.threads
	if workers > len(lines) {
		workers = len(lines)
	}

	wg := &sync.WaitGroup{}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			plan := fourier.NewCmplxFFT(n)
			src := make([]complex128, n)
			dst := make([]complex128, n)
			for li := w; li < len(lines); li += workers {
				base := lines[li]
				for i := 0; i < n; i++ {
					src[i] = c[base+i*stride]
				}
				if inverse {
					plan.Sequence(dst, src)
				} else {
					plan.Coefficients(dst, src)
				}
				for i := 0; i < n; i++ {
					c[base+i*stride] = dst[i]
				}
			}
		}(w)
	}
	wg.Wait()
}
