package io

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/astrogo/fitsio"
)

// WriteMesh writes a density mesh as a single-HDU FITS image at the given
// path, creating the parent directory if needed and overwriting any
// existing file. The box geometry is recorded in the header. precision
// selects the pixel width, "f4" or "f8"; vals are in x-fastest order and
// must match bins.
func WriteMesh(
	path string, vals []float64, bins [3]int,
	boxSize, boxCentre [3]float64, precision string,
) error {
	if len(vals) != bins[0]*bins[1]*bins[2] {
		return fmt.Errorf(
			"Mesh has %d values, but bins are %d x %d x %d.",
			len(vals), bins[0], bins[1], bins[2],
		)
	}

	var bitpix int
	switch precision {
	case "f4":
		bitpix = -32
	case "f8":
		bitpix = -64
	default:
		return fmt.Errorf("Precision must be 'f4' or 'f8', not '%s'.",
			precision)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return err
	}
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()

	f, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer f.Close()

	img := fitsio.NewImage(bitpix, []int{bins[0], bins[1], bins[2]})
	defer img.Close()

	cards := []fitsio.Card{
		{Name: "BOXSIZE1", Value: boxSize[0], Comment: "box side length, axis 1"},
		{Name: "BOXSIZE2", Value: boxSize[1], Comment: "box side length, axis 2"},
		{Name: "BOXSIZE3", Value: boxSize[2], Comment: "box side length, axis 3"},
		{Name: "BOXCENT1", Value: boxCentre[0], Comment: "box centre, axis 1"},
		{Name: "BOXCENT2", Value: boxCentre[1], Comment: "box centre, axis 2"},
		{Name: "BOXCENT3", Value: boxCentre[2], Comment: "box centre, axis 3"},
	}
	if err := img.Header().Append(cards...); err != nil {
		return err
	}

	if precision == "f4" {
		data := make([]float32, len(vals))
		for i, v := range vals {
			data[i] = float32(v)
		}
		err = img.Write(&data)
	} else {
		data := make([]float64, len(vals))
		copy(data, vals)
		err = img.Write(&data)
	}
	if err != nil {
		return err
	}

	return f.Write(img)
}
