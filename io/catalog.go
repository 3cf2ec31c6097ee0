package io

import (
	"fmt"
	"os"

	"github.com/phil-mansfield/table"
)

// ReadXYZ reads comoving Cartesian positions from the first three columns
// of a whitespace-separated text file.
func ReadXYZ(file string) ([][3]float64, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, err
	}

	xs, ys, zs := cols[0], cols[1], cols[2]
	out := make([][3]float64, len(xs))
	for i := range out {
		out[i] = [3]float64{xs[i], ys[i], zs[i]}
	}
	return out, nil
}

// ReadRDZ reads (angle, angle, redshift) rows from the first three columns
// of a whitespace-separated text file, in the N x 4 layout the coordinate
// transform expects.
func ReadRDZ(file string) ([][4]float64, error) {
	cols, err := table.ReadTable(file, []int{0, 1, 2}, nil)
	if err != nil {
		return nil, err
	}

	ras, decs, zs := cols[0], cols[1], cols[2]
	out := make([][4]float64, len(ras))
	for i := range out {
		out[i] = [4]float64{0, ras[i], decs[i], zs[i]}
	}
	return out, nil
}

// ReadWeights reads a single-column weight file.
func ReadWeights(file string) ([]float64, error) {
	cols, err := table.ReadTable(file, []int{0}, nil)
	if err != nil {
		return nil, err
	}
	return cols[0], nil
}

// WriteCatalogue writes positions, and weights if non-nil, as a
// whitespace-separated text file.
func WriteCatalogue(file string, pos [][3]float64, wt []float64) error {
	if wt != nil && len(wt) != len(pos) {
		return fmt.Errorf(
			"Cannot write %d positions with %d weights.", len(pos), len(wt),
		)
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	for i, p := range pos {
		if wt == nil {
			_, err = fmt.Fprintf(f, "%.10g %.10g %.10g\n", p[0], p[1], p[2])
		} else {
			_, err = fmt.Fprintf(
				f, "%.10g %.10g %.10g %.10g\n", p[0], p[1], p[2], wt[i],
			)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
