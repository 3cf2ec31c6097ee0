package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteMeshCreatesArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh", "delta_mesh_4x4x4_f4.fits")

	vals := make([]float64, 64)
	for i := range vals {
		vals[i] = float64(i)
	}

	err := WriteMesh(
		path, vals, [3]int{4, 4, 4},
		[3]float64{100, 100, 100}, [3]float64{50, 50, 50}, "f4",
	)
	assert.NoError(t, err)

	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// Overwriting the same path must succeed.
	err = WriteMesh(
		path, vals, [3]int{4, 4, 4},
		[3]float64{100, 100, 100}, [3]float64{50, 50, 50}, "f8",
	)
	assert.NoError(t, err)
}

func TestWriteMeshRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.fits")
	vals := make([]float64, 64)

	err := WriteMesh(
		path, vals, [3]int{4, 4, 5},
		[3]float64{1, 1, 1}, [3]float64{0, 0, 0}, "f4",
	)
	assert.Error(t, err, "shape mismatch")

	err = WriteMesh(
		path, vals, [3]int{4, 4, 4},
		[3]float64{1, 1, 1}, [3]float64{0, 0, 0}, "f2",
	)
	assert.Error(t, err, "unknown precision")
}

func TestCatalogueRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalogue.txt")

	pos := [][3]float64{{1, 2, 3}, {4.5, 5.5, 6.5}, {-1, 0, 1}}
	wt := []float64{1, 0.5, 2}

	assert.NoError(t, WriteCatalogue(path, pos, wt))

	gotPos, err := ReadXYZ(path)
	assert.NoError(t, err)
	assert.Equal(t, pos, gotPos)

	gotWt, err := ReadWeights(path)
	assert.NoError(t, err)
	// Column 0 of the file is the x coordinate.
	assert.Equal(t, []float64{1, 4.5, -1}, gotWt)
}
