/*package io reads catalogue files and configuration, and writes mesh
artifacts.
*/
package io

import (
	"github.com/ntbfin00/JulVF/recon"
)

const ExamplePrepareFile = `[Prepare]

#######################
# Required Parameters #
#######################

# Whitespace-separated text file with the galaxy catalogue.
Data = path/to/galaxies.txt

# Column convention of the catalogue files. Must be one of [ XYZ | rdz ].
# XYZ files contain comoving Cartesian positions, rdz files contain
# (angle, angle, redshift) rows which are converted using the cosmology
# parameters below.
Columns = XYZ

#######################
# Optional Parameters #
#######################

# Random catalogue describing the survey footprint. Required unless
# Box = true.
# Randoms = path/to/randoms.txt

# Single-column weight files matching the catalogue files row for row.
# DataWeights   = path/to/galaxy_weights.txt
# RandomWeights = path/to/random_weights.txt

# Units of the angle columns in rdz files. Must be one of
# [ degrees | radians ].
# AngleUnits = degrees

# Background cosmology and tracer properties. GrowthRate and Bias are only
# used during reconstruction.
# H100       = 0.676
# OmegaM     = 0.31
# OmegaL     = 0.69
# GrowthRate = 0.8
# Bias       = 2.0

# Set Box = true for periodic simulation boxes. BoxLength and BoxCentre*
# then pin the box geometry and no randoms are needed.
# Box        = false
# BoxLength  = 1000
# BoxCentreX = 500
# BoxCentreY = 500
# BoxCentreZ = 500

# Fractional margin added around the randoms footprint in survey mode.
# Values at or below 1 risk wrapping reconstructed positions back into the
# survey.
# Padding = 1.2

# Number of mesh cells per average galaxy separation when the resolution
# is derived from the data.
# CellsPerRsep = 2

# Per-axis bin counts for the void-finding and reconstruction meshes.
# 0 derives the count from the galaxy separation (void finding) or the
# smoothing radius (reconstruction).
# VoidBins  = 0
# ReconBins = 0

# Run reconstruction before meshing, removing the given field from the
# galaxy positions. Must be one of [ disp | rsd | disp+rsd ]. Leave unset
# to mesh the raw catalogue.
# Reconstruct = disp+rsd

# Reconstruction algorithm. Must be one of
# [ IFFTparticle | IFFT | MultiGrid ].
# Algorithm = IFFTparticle

# Gaussian smoothing radius used during reconstruction, in the position
# units of the catalogue.
# Smoothing = 10

# Line-of-sight axis for Box mode. Must be one of [ X | Y | Z ].
# LOSAxis = Z

# Numeric width of the output mesh. Must be one of [ f4 | f8 ].
# Precision = f4

# Write the void-finding mesh to mesh/<MeshFile>.fits. With MeshFile
# unset, the name is derived from the bin counts and precision.
# SaveMesh = true
# MeshFile = delta_mesh

# Write the reconstructed catalogue to this text file.
# Output = path/to/reconstructed.txt

# Redirect the log here. Generally there isn't a reason to use this unless
# something goes wrong.
# LogFile = log.out`

// PrepareConfig configures a full mesh-preparation run. Zero bin counts
// mean "derive from the data" and are converted to explicit requests at
// the mesh package boundary.
type PrepareConfig struct {
	// Required
	Data    string
	Columns string

	// Optional
	Randoms                    string
	DataWeights, RandomWeights string
	AngleUnits                 string

	H100, OmegaM, OmegaL float64
	GrowthRate, Bias     float64

	Box                                bool
	BoxLength                          float64
	BoxCentreX, BoxCentreY, BoxCentreZ float64

	Padding      float64
	CellsPerRsep float64

	VoidBins, ReconBins int

	Reconstruct string
	Algorithm   string
	Smoothing   float64
	LOSAxis     string
	Precision   string

	SaveMesh bool
	MeshFile string
	Output   string
	LogFile  string
}

type PrepareWrapper struct {
	Prepare PrepareConfig
}

// DefaultPrepareWrapper returns a PrepareWrapper with every cross-field
// default resolved.
func DefaultPrepareWrapper() *PrepareWrapper {
	con := PrepareConfig{}
	con.AngleUnits = "degrees"
	con.H100 = 0.676
	con.OmegaM = 0.31
	con.OmegaL = 0.69
	con.GrowthRate = 0.8
	con.Bias = 2.0
	con.Padding = 1.2
	con.CellsPerRsep = 2
	con.Algorithm = "IFFTparticle"
	con.Smoothing = 10
	con.LOSAxis = "Z"
	con.Precision = "f4"
	return &PrepareWrapper{con}
}

func (con *PrepareConfig) ValidData() bool {
	return con.Data != ""
}
func (con *PrepareConfig) ValidColumns() bool {
	return con.Columns == "XYZ" || con.Columns == "rdz"
}
func (con *PrepareConfig) ValidAngleUnits() bool {
	return con.AngleUnits == "degrees" || con.AngleUnits == "radians"
}
func (con *PrepareConfig) ValidCosmology() bool {
	return con.H100 > 0 && con.OmegaM > 0 && con.OmegaL > 0
}
func (con *PrepareConfig) ValidAlgorithm() bool {
	_, ok := recon.AlgorithmFromString(con.Algorithm)
	return ok
}
func (con *PrepareConfig) ValidReconstruct() bool {
	if con.Reconstruct == "" {
		return true
	}
	_, ok := recon.FieldFromString(con.Reconstruct)
	return ok
}
func (con *PrepareConfig) ValidSmoothing() bool {
	return con.Smoothing > 0
}
func (con *PrepareConfig) ValidLOSAxis() bool {
	return con.LOSAxis == "X" || con.LOSAxis == "Y" || con.LOSAxis == "Z"
}
func (con *PrepareConfig) ValidPrecision() bool {
	return con.Precision == "f4" || con.Precision == "f8"
}
func (con *PrepareConfig) ValidBins() bool {
	return con.VoidBins >= 0 && con.ReconBins >= 0
}
func (con *PrepareConfig) ValidBox() bool {
	return !con.Box || con.BoxLength > 0
}

// LOS returns the line-of-sight axis index.
func (con *PrepareConfig) LOS() int {
	switch con.LOSAxis {
	case "X":
		return 0
	case "Y":
		return 1
	}
	return 2
}
