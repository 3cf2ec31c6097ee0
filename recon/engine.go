/*package recon implements the density-field reconstruction engines used to
remove redshift-space distortions before void finding. An Engine owns a
fixed box geometry, accumulates galaxies and randoms onto its grid,
computes a density contrast field, and solves for the Zel'dovich
displacement field with one of three algorithm variants.
*/
package recon

import (
	"fmt"
	"strings"
)

// Algorithm selects one of the reconstruction engine variants.
type Algorithm int

const (
	// IFFTParticle solves for displacements with FFTs and reads them back
	// at the positions the engine itself was given at assignment time.
	IFFTParticle Algorithm = iota
	// IFFT solves for displacements with FFTs and reads them back at
	// caller-supplied positions.
	IFFT
	// MultiGrid solves the displacement potential with a multigrid
	// relaxation of the Poisson equation instead of FFTs.
	MultiGrid

	EndAlgorithm
)

// String returns the config-file name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case IFFTParticle:
		return "IFFTparticle"
	case IFFT:
		return "IFFT"
	case MultiGrid:
		return "MultiGrid"
	}
	panic(fmt.Sprintf("Unknown Algorithm %d", a))
}

// AlgorithmFromString returns the Algorithm with the given name and true,
// or false if there is no such Algorithm. The comparison is
// case-insensitive.
func AlgorithmFromString(s string) (Algorithm, bool) {
	for a := Algorithm(0); a < EndAlgorithm; a++ {
		if strings.EqualFold(a.String(), s) {
			return a, true
		}
	}
	return EndAlgorithm, false
}

// Field selects which part of the displacement field is removed when
// reading back shifted positions.
type Field int

const (
	// Displacement removes the full Zel'dovich displacement.
	Displacement Field = iota
	// RSD removes only the line-of-sight redshift-space distortion term.
	RSD
	// DisplacementRSD removes both.
	DisplacementRSD

	EndField
)

// String returns the config-file name of the field selector.
func (f Field) String() string {
	switch f {
	case Displacement:
		return "disp"
	case RSD:
		return "rsd"
	case DisplacementRSD:
		return "disp+rsd"
	}
	panic(fmt.Sprintf("Unknown Field %d", f))
}

// FieldFromString returns the Field with the given name and true, or false
// if there is no such Field.
func FieldFromString(s string) (Field, bool) {
	for f := Field(0); f < EndField; f++ {
		if strings.EqualFold(f.String(), s) {
			return f, true
		}
	}
	return EndField, false
}

// Options parameterizes engine construction. Geometry is baked in at
// construction time: an engine is never resized, a fresh one is built for
// every bin count instead.
type Options struct {
	GrowthRate, Bias float64

	// LOS is the fixed line-of-sight axis (0, 1 or 2), or NoLOS for
	// survey-shaped data where the line of sight is radial.
	LOS int

	// Bins is the requested bin count per axis. The zero value means
	// "infer a provisional grid from the data extent".
	Bins [3]int

	// Positions is the point set the box geometry is inferred from: the
	// galaxies themselves for periodic boxes, the randoms for surveys.
	Positions [][3]float64

	// Padding multiplies the data extent per axis when the box is
	// inferred. Ignored when BoxSize is set explicitly.
	Padding float64

	// BoxSize and BoxCentre pin the box geometry explicitly when
	// positive; otherwise both are inferred from Positions and Padding.
	BoxSize   [3]float64
	BoxCentre [3]float64

	// Wrap enables periodic wrap-around during grid assignment and
	// interpolation.
	Wrap bool

	// Precision is the numeric width tag for output meshes, "f4" or "f8".
	Precision string

	// Threads is the parallelism hint for the engine's internal loops.
	// Non-positive means one worker per logical core.
	Threads int
}

// NoLOS marks survey-shaped data with no fixed line-of-sight axis.
const NoLOS = -1

// Engine is the reconstruction capability shared by all algorithm
// variants. An Engine is exclusively owned by the orchestration call that
// created it.
type Engine interface {
	// BoxSize returns the box side lengths per axis.
	BoxSize() [3]float64
	// BoxCentre returns the box centre.
	BoxCentre() [3]float64
	// Bins returns the bin count per axis, fixed at construction.
	Bins() [3]int

	// AssignData accumulates galaxy positions and weights onto the grid.
	// A nil weight array means unit weights.
	AssignData(pos [][3]float64, wt []float64)
	// AssignRandoms accumulates random positions and weights onto the
	// randoms grid.
	AssignRandoms(pos [][3]float64, wt []float64)

	// SetDensityContrast converts the accumulated counts into a density
	// contrast field, smoothed with a Gaussian of the given radius.
	// A radius of zero means no smoothing.
	SetDensityContrast(rSmooth float64)

	// Run solves for the displacement field. SetDensityContrast must have
	// been called first.
	Run() error

	// ShiftedPositions evaluates the displacement field at the given
	// positions and returns them shifted so that the selected field is
	// removed. A nil position array means "use the engine's internally
	// tracked data", which only IFFTparticle engines support.
	ShiftedPositions(data [][3]float64, field Field) ([][3]float64, error)

	// Mesh returns the raw density contrast grid in x-fastest order.
	Mesh() []float64
	// RandomsMesh returns the raw randoms-assignment grid.
	RandomsMesh() []float64
}

// New constructs the engine variant selected by alg.
func New(alg Algorithm, opt Options) (Engine, error) {
	switch alg {
	case IFFTParticle:
		return newIFFT(opt, true)
	case IFFT:
		return newIFFT(opt, false)
	case MultiGrid:
		return newMultiGrid(opt)
	}
	return nil, fmt.Errorf("Unrecognized reconstruction algorithm (%d).", int(alg))
}
