/*package coords converts angular sky positions and redshifts into 3D
comoving Cartesian positions.
*/
package coords

import (
	"fmt"
	"log"
	"math"

	"github.com/ntbfin00/JulVF/cosmo"
)

// CartesianPositions converts rows of [unused, angle1, angle2, redshift]
// into N x 3 comoving Cartesian positions. angle1 is the azimuthal angle
// (right ascension) and angle2 the elevation (declination). units must be
// either "degrees" or "radians".
func CartesianPositions(
	c cosmo.Cosmology, rows [][4]float64, units string,
) ([][3]float64, error) {
	var toRad float64
	switch units {
	case "degrees":
		toRad = math.Pi / 180
	case "radians":
		toRad = 1
	default:
		return nil, fmt.Errorf(
			"Angle units must be 'degrees' or 'radians', not '%s'.", units,
		)
	}

	zs := make([]float64, len(rows))
	for i := range rows {
		zs[i] = rows[i][3]
	}
	ds := cosmo.ComovingDistance(c.H100*100, c.OmegaM, c.OmegaL, zs)

	log.Printf(
		"Converting %d (angle, angle, z) rows to Cartesian positions", len(rows),
	)

	out := make([][3]float64, len(rows))
	for i, row := range rows {
		ra, dec := row[1]*toRad, row[2]*toRad
		d := ds[i]
		out[i][0] = d * math.Cos(dec) * math.Cos(ra)
		out[i][1] = d * math.Cos(dec) * math.Sin(ra)
		out[i][2] = d * math.Sin(dec)
	}
	return out, nil
}
