package mesh

import (
	"fmt"
	"log"
	"math"
	"path/filepath"

	"github.com/ntbfin00/JulVF/catalog"
	"github.com/ntbfin00/JulVF/cosmo"
	meshio "github.com/ntbfin00/JulVF/io"
	"github.com/ntbfin00/JulVF/recon"
)

// meshDir is the directory mesh artifacts are written into.
const meshDir = "mesh"

// EngineFactory constructs reconstruction engines. The orchestrators only
// talk to engines through this seam, so tests can substitute a
// deterministic fake for the numeric solvers.
type EngineFactory interface {
	New(alg recon.Algorithm, opt recon.Options) (recon.Engine, error)
}

type reconFactory struct{}

func (reconFactory) New(alg recon.Algorithm, opt recon.Options) (recon.Engine, error) {
	return recon.New(alg, opt)
}

// Pipeline sequences bin estimation, engine construction, density field
// computation, reconstruction and mesh creation for one catalogue. Each
// engine it builds is exclusively owned by the call that built it.
type Pipeline struct {
	Cosmo   cosmo.Cosmology
	Cat     *catalog.GalaxyCatalogue
	Par     Params
	Factory EngineFactory
}

// NewPipeline returns a Pipeline backed by the real reconstruction
// engines.
func NewPipeline(
	c cosmo.Cosmology, cat *catalog.GalaxyCatalogue, par Params,
) *Pipeline {
	return &Pipeline{Cosmo: c, Cat: cat, Par: par, Factory: reconFactory{}}
}

// newEngine validates the catalogue, selects the position set the box
// geometry is inferred from, and constructs an engine at the requested
// resolution. It returns the engine along with the position array later
// read-back should treat as primary data: nil for particle-tracked
// engines, the galaxy positions otherwise.
func (p *Pipeline) newEngine(
	cos cosmo.Cosmology, bins BinRequest, padding float64,
) (recon.Engine, [][3]float64, error) {
	opt := recon.Options{
		GrowthRate: cos.GrowthRate,
		Bias:       cos.Bias,
		Bins:       bins.Counts(),
		Padding:    padding,
		Wrap:       true,
		Precision:  p.Par.Precision,
		Threads:    p.Par.Threads,
	}

	if p.Par.Box {
		opt.LOS = p.Par.LOS
		opt.Positions = p.Cat.Data
		L := p.Par.BoxLength
		opt.BoxSize = [3]float64{L, L, L}
		opt.BoxCentre = p.Par.BoxCentre
	} else {
		if !p.Cat.HasRandoms() {
			return nil, nil, fmt.Errorf(
				"Survey-shaped catalogues require randoms, but none " +
					"were provided.",
			)
		}
		opt.LOS = recon.NoLOS
		opt.Positions = p.Cat.Randoms
	}

	eng, err := p.Factory.New(p.Par.Algorithm, opt)
	if err != nil {
		return nil, nil, err
	}

	if !bins.Auto() {
		box, nb := eng.BoxSize(), eng.Bins()
		log.Printf(
			"Built %s engine: box size %.4g %.4g %.4g, bins %d %d %d",
			p.Par.Algorithm, box[0], box[1], box[2], nb[0], nb[1], nb[2],
		)
	}

	var primary [][3]float64
	if p.Par.Algorithm != recon.IFFTParticle {
		primary = p.Cat.Data
	}
	return eng, primary, nil
}

// computeDensityField assigns the catalogue onto the engine's grid and
// computes the density contrast at the given smoothing radius. Survey
// catalogues also assign their randoms.
func (p *Pipeline) computeDensityField(eng recon.Engine, rSmooth float64) {
	eng.AssignData(p.Cat.Data, p.Cat.DataWt)
	if !p.Par.Box {
		eng.AssignRandoms(p.Cat.Randoms, p.Cat.RandomWt)
	}
	eng.SetDensityContrast(rSmooth)
}

// Reconstruct runs density-field reconstruction and returns a new
// catalogue with the galaxy positions shifted to remove the configured
// field. Weights and randoms are carried over unchanged.
func (p *Pipeline) Reconstruct() (*catalog.GalaxyCatalogue, error) {
	if err := p.Cat.Check(); err != nil {
		return nil, err
	}

	if !p.Par.Box && p.Par.Padding <= 1.0 {
		log.Printf(
			"Warning: padding %.3g <= 1 may wrap reconstructed positions "+
				"back into the survey footprint",
			p.Par.Padding,
		)
	}

	bins := p.Par.ReconBins
	if bins.Auto() {
		prov, _, err := p.newEngine(p.Cosmo, AutoBins(), p.Par.Padding)
		if err != nil {
			return nil, err
		}
		box := prov.BoxSize()
		var min [3]int
		for a := 0; a < 3; a++ {
			min[a] = int(math.Ceil(box[a] / p.Par.Smoothing))
		}
		nb, err := OptimalBinning(min)
		if err != nil {
			return nil, err
		}
		bins = FixedBins(nb)
	}

	eng, primary, err := p.newEngine(p.Cosmo, bins, p.Par.Padding)
	if err != nil {
		return nil, err
	}

	box, nb := eng.BoxSize(), eng.Bins()
	for a := 0; a < 3; a++ {
		if box[a]/float64(nb[a]) > p.Par.Smoothing {
			log.Printf(
				"Warning: cell size %.4g on axis %d exceeds the smoothing "+
					"radius %.4g; the density field is under-resolved",
				box[a]/float64(nb[a]), a, p.Par.Smoothing,
			)
		}
	}

	p.computeDensityField(eng, p.Par.Smoothing)
	if err := eng.Run(); err != nil {
		return nil, err
	}

	shifted, err := eng.ShiftedPositions(primary, p.Par.ReconField)
	if err != nil {
		return nil, err
	}

	return &catalog.GalaxyCatalogue{
		Data:     shifted,
		DataWt:   p.Cat.DataWt,
		Randoms:  p.Cat.Randoms,
		RandomWt: p.Cat.RandomWt,
	}, nil
}

// CreateMesh builds the unsmoothed, bias-neutral density contrast mesh
// that void finding runs on, optionally persisting it as a FITS file, and
// returns the mesh alongside its box geometry.
func (p *Pipeline) CreateMesh() (m []float64, boxSize, boxCentre [3]float64, err error) {
	if err := p.Cat.Check(); err != nil {
		return nil, boxSize, boxCentre, err
	}

	cos := p.Cosmo.Unbiased()
	pad := p.Par.Padding
	if p.Par.Box {
		pad = 1
	}

	bins := p.Par.VoidBins
	if bins.Auto() {
		min, _, err := p.SeparationBins()
		if err != nil {
			return nil, boxSize, boxCentre, err
		}
		nb, err := OptimalBinning(min)
		if err != nil {
			return nil, boxSize, boxCentre, err
		}
		bins = FixedBins(nb)
	}

	eng, _, err := p.newEngine(cos, bins, pad)
	if err != nil {
		return nil, boxSize, boxCentre, err
	}

	p.computeDensityField(eng, 0)

	m = eng.Mesh()
	nan := 0
	for _, v := range m {
		if math.IsNaN(v) {
			nan++
		}
	}
	if nan > 0 {
		log.Printf(
			"Mesh contains %d NaN cells; check the input catalogue", nan,
		)
	}

	if p.Par.SaveMesh {
		nb := eng.Bins()
		name := p.Par.MeshFile
		if name == "" {
			name = fmt.Sprintf(
				"delta_mesh_%dx%dx%d_%s",
				nb[0], nb[1], nb[2], p.Par.Precision,
			)
		}
		path := filepath.Join(meshDir, name+".fits")
		err = meshio.WriteMesh(
			path, m, nb, eng.BoxSize(), eng.BoxCentre(), p.Par.Precision,
		)
		if err != nil {
			return nil, boxSize, boxCentre, err
		}
		log.Printf("Wrote mesh to %s", path)
	}

	return m, eng.BoxSize(), eng.BoxCentre(), nil
}
