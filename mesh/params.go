/*package mesh builds the density meshes that void finding runs on. It
estimates an appropriate grid resolution from the galaxy separation scale,
refines it to an FFT-friendly bin count, and orchestrates catalogue
assignment, density contrast computation, and reconstruction through the
engines in the recon package.
*/
package mesh

import (
	"fmt"

	"github.com/ntbfin00/JulVF/recon"
)

// BinRequest is a requested per-axis bin count: either a fixed count or a
// request to derive one from the data. This replaces the "zero means auto"
// sentinel so that the auto branch is visible in the type.
type BinRequest struct {
	n    [3]int
	auto bool
}

// AutoBins requests that the bin count be derived from the data.
func AutoBins() BinRequest {
	return BinRequest{auto: true}
}

// FixedBins requests an explicit per-axis bin count.
func FixedBins(n [3]int) BinRequest {
	return BinRequest{n: n}
}

// Auto returns true if the bin count should be derived from the data.
func (b BinRequest) Auto() bool { return b.auto }

// Counts returns the fixed per-axis bin count, or the zero vector for an
// auto request.
func (b BinRequest) Counts() [3]int { return b.n }

// Params configures mesh construction and reconstruction. Build one with
// DefaultParams and set fields explicitly; cross-field defaults (like the
// derived mesh file name) are resolved where they are used, never at
// declaration.
type Params struct {
	// Precision is the numeric width of the output mesh, "f4" or "f8".
	Precision string

	// VoidBins is the mesh resolution used for void finding, ReconBins
	// the resolution used during reconstruction.
	VoidBins, ReconBins BinRequest

	// Box marks the catalogue as a periodic simulation box. Survey
	// catalogues (Box = false) must carry randoms.
	Box bool
	// BoxLength and BoxCentre pin the box geometry in Box mode.
	BoxLength float64
	BoxCentre [3]float64

	// Padding expands the randoms footprint when the box is inferred in
	// survey mode. Ignored in Box mode.
	Padding float64

	// CellsPerSep is the number of mesh cells per average galaxy
	// separation used when deriving a resolution.
	CellsPerSep float64

	// SaveMesh writes the void-finding mesh to mesh/<name>.fits. MeshFile
	// overrides the derived name.
	SaveMesh bool
	MeshFile string

	// Algorithm selects the reconstruction engine variant; ReconField
	// selects what the shifted positions have removed.
	Algorithm  recon.Algorithm
	ReconField recon.Field

	// Smoothing is the Gaussian smoothing radius used during
	// reconstruction, in position units.
	Smoothing float64

	// LOS is the fixed line-of-sight axis, used in Box mode only.
	LOS int

	// Threads is the parallelism hint handed to the engines.
	Threads int
}

// DefaultParams returns the default mesh configuration: auto-computed
// resolutions, survey mode, and IFFTparticle reconstruction.
func DefaultParams() Params {
	return Params{
		Precision:   "f4",
		VoidBins:    AutoBins(),
		ReconBins:   AutoBins(),
		Padding:     1.2,
		CellsPerSep: 2,
		Algorithm:   recon.IFFTParticle,
		ReconField:  recon.DisplacementRSD,
		Smoothing:   10,
		LOS:         2,
	}
}

// Check returns an error for parameter combinations that can never work.
func (par *Params) Check() error {
	if par.Precision != "f4" && par.Precision != "f8" {
		return fmt.Errorf("Precision must be 'f4' or 'f8', not '%s'.",
			par.Precision)
	}
	if par.Box && par.BoxLength <= 0 {
		return fmt.Errorf("Box mode requires a positive BoxLength.")
	}
	if !par.Box && par.Padding <= 0 {
		return fmt.Errorf("Survey mode requires a positive Padding.")
	}
	if par.CellsPerSep <= 0 {
		return fmt.Errorf("CellsPerSep must be positive.")
	}
	if par.LOS < 0 || par.LOS > 2 {
		return fmt.Errorf("LOS axis must be 0, 1 or 2, not %d.", par.LOS)
	}
	return nil
}
