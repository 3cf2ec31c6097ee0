/*package catalog holds galaxy and random catalogues as parallel position
and weight arrays.
*/
package catalog

import (
	"fmt"
)

// GalaxyCatalogue stores galaxy positions and weights along with the
// unclustered random catalogue describing the survey footprint. The random
// arrays are empty for periodic simulation boxes. All positions within one
// catalogue must be comoving Cartesian coordinates in the same units.
type GalaxyCatalogue struct {
	Data   [][3]float64
	DataWt []float64

	Randoms  [][3]float64
	RandomWt []float64
}

// Check returns an error if a weight array is present but does not match
// the length of its position array, or if the catalogue has no galaxies.
// A nil weight array means unit weights.
func (cat *GalaxyCatalogue) Check() error {
	if len(cat.Data) == 0 {
		return fmt.Errorf("Catalogue contains no galaxy positions.")
	}
	if cat.DataWt != nil && len(cat.DataWt) != len(cat.Data) {
		return fmt.Errorf(
			"Catalogue has %d galaxy positions, but %d galaxy weights.",
			len(cat.Data), len(cat.DataWt),
		)
	}
	if cat.RandomWt != nil && len(cat.RandomWt) != len(cat.Randoms) {
		return fmt.Errorf(
			"Catalogue has %d random positions, but %d random weights.",
			len(cat.Randoms), len(cat.RandomWt),
		)
	}
	return nil
}

// HasRandoms returns true if the catalogue carries a random catalogue.
func (cat *GalaxyCatalogue) HasRandoms() bool {
	return len(cat.Randoms) > 0
}
