/*package cosmo contains the background cosmology used to convert redshifts
to comoving distances and to parameterize reconstruction.
*/
package cosmo

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// CMks is the speed of light in km/s.
const CMks = 299792.458

// quadNodes is the order of the fixed-point quadrature used for the
// comoving distance integral. The integrand is smooth, so this is already
// overkill at any survey redshift.
const quadNodes = 100

// Cosmology describes a Lambda-CDM background along with the tracer
// properties needed by reconstruction. It is a value type: copy it instead
// of sharing pointers.
type Cosmology struct {
	H100       float64 // Dimensionless Hubble parameter, H0 / (100 km/s/Mpc)
	OmegaM     float64 // Matter density fraction at z = 0
	OmegaL     float64 // Dark energy density fraction at z = 0
	GrowthRate float64 // Linear growth rate, f
	Bias       float64 // Linear galaxy bias, b
}

// Unbiased returns a copy of c with the galaxy bias set to 1. Mesh building
// for void finding operates on the galaxy field directly, so it must not
// divide out a bias.
func (c Cosmology) Unbiased() Cosmology {
	c.Bias = 1
	return c
}

// HubbleFrac calculates h(z) = H(z)/H0 for a Lambda-CDM universe with
// curvature OmegaK = 1 - OmegaM - OmegaL. Radiation is neglected.
func HubbleFrac(omegaM, omegaL, z float64) float64 {
	omegaK := 1 - omegaM - omegaL
	a := 1 + z
	return math.Sqrt(omegaM*a*a*a + omegaK*a*a + omegaL)
}

// ComovingDistance returns the line-of-sight comoving distance to each
// redshift in zs, in Mpc for h0 in km/s/Mpc. Negative redshifts give
// negative distances, which is never what you want, so don't pass them.
func ComovingDistance(h0, omegaM, omegaL float64, zs []float64) []float64 {
	dH := CMks / h0
	ds := make([]float64, len(zs))
	for i, z := range zs {
		ds[i] = dH * quad.Fixed(func(zz float64) float64 {
			return 1 / HubbleFrac(omegaM, omegaL, zz)
		}, 0, z, quadNodes, nil, 0)
	}
	return ds
}
