package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/ntbfin00/JulVF/catalog"
	"github.com/ntbfin00/JulVF/coords"
	"github.com/ntbfin00/JulVF/cosmo"
	jio "github.com/ntbfin00/JulVF/io"
	"github.com/ntbfin00/JulVF/mesh"
	"github.com/ntbfin00/JulVF/recon"
)

var threads int

func main() {
	// The main function manages input sanitization and hands the actual
	// work to prepareMain. The code tries to fail gracefully if the user
	// provides incorrect input.

	var (
		prepareStr    string
		exampleConfig string
	)
	vars := map[string]*string{
		"Prepare":       &prepareStr,
		"ExampleConfig": &exampleConfig,
	}

	flag.IntVar(
		&threads, "Threads", runtime.NumCPU(),
		"Number of threads used. Default is the number of logical cores.",
	)
	flag.StringVar(
		&prepareStr, "Prepare", "",
		"Configuration file for [Prepare] mode: build a density mesh for "+
			"void finding, optionally after reconstruction.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. The only accepted argument is 'Prepare'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Prepare":
		wrap := jio.DefaultPrepareWrapper()
		err := gcfg.ReadFileInto(wrap, prepareStr)
		if err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.Prepare

		if !con.ValidData() {
			log.Fatal("Invalid/non-existent 'Data' value.")
		} else if !con.ValidColumns() {
			log.Fatal("'Columns' must be one of 'XYZ' and 'rdz'.")
		} else if !con.ValidAngleUnits() {
			log.Fatal("'AngleUnits' must be one of 'degrees' and 'radians'.")
		} else if !con.ValidCosmology() {
			log.Fatal("'H100', 'OmegaM' and 'OmegaL' must all be positive.")
		} else if !con.ValidAlgorithm() {
			log.Fatalf("Unrecognized 'Algorithm' value, '%s'.", con.Algorithm)
		} else if !con.ValidReconstruct() {
			log.Fatalf(
				"Unrecognized 'Reconstruct' value, '%s'.", con.Reconstruct,
			)
		} else if !con.ValidSmoothing() {
			log.Fatal("'Smoothing' must be positive.")
		} else if !con.ValidLOSAxis() {
			log.Fatal("'LOSAxis' must be one of 'X', 'Y' and 'Z'.")
		} else if !con.ValidPrecision() {
			log.Fatal("'Precision' must be one of 'f4' and 'f8'.")
		} else if !con.ValidBins() {
			log.Fatal("'VoidBins' and 'ReconBins' must not be negative.")
		} else if !con.ValidBox() {
			log.Fatal("Box mode requires a positive 'BoxLength'.")
		}

		prepareMain(con)

	case "ExampleConfig":
		switch exampleConfig {
		case "Prepare":
			fmt.Println(jio.ExamplePrepareFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only " +
					"recognized argument is 'Prepare'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive
// error if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}
	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}
	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but only one flag is "+
				"accepted at a time.",
			strings.Join(setNames, ", "),
		)
	}
	return setNames[0], nil
}

// prepareMain reads the catalogues, runs reconstruction if requested, and
// builds the void-finding mesh.
func prepareMain(con *jio.PrepareConfig) {
	if con.LogFile != "" {
		lf, err := os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		defer lf.Close()
		log.SetOutput(lf)
	}

	c := cosmo.Cosmology{
		H100:       con.H100,
		OmegaM:     con.OmegaM,
		OmegaL:     con.OmegaL,
		GrowthRate: con.GrowthRate,
		Bias:       con.Bias,
	}

	cat := &catalog.GalaxyCatalogue{}
	var err error

	cat.Data, err = readPositions(c, con, con.Data)
	if err != nil {
		log.Fatal(err.Error())
	}
	if con.Randoms != "" {
		cat.Randoms, err = readPositions(c, con, con.Randoms)
		if err != nil {
			log.Fatal(err.Error())
		}
	}
	if con.DataWeights != "" {
		cat.DataWt, err = jio.ReadWeights(con.DataWeights)
		if err != nil {
			log.Fatal(err.Error())
		}
	}
	if con.RandomWeights != "" {
		cat.RandomWt, err = jio.ReadWeights(con.RandomWeights)
		if err != nil {
			log.Fatal(err.Error())
		}
	}
	if err := cat.Check(); err != nil {
		log.Fatal(err.Error())
	}
	log.Printf(
		"Read %d galaxies and %d randoms", len(cat.Data), len(cat.Randoms),
	)

	par := paramsFromConfig(con)
	pipe := mesh.NewPipeline(c, cat, par)

	if con.Reconstruct != "" {
		recat, err := pipe.Reconstruct()
		if err != nil {
			log.Fatal(err.Error())
		}
		if con.Output != "" {
			if err := jio.WriteCatalogue(
				con.Output, recat.Data, recat.DataWt,
			); err != nil {
				log.Fatal(err.Error())
			}
			log.Printf("Wrote reconstructed catalogue to %s", con.Output)
		}
		pipe = mesh.NewPipeline(c, recat, par)
	}

	m, boxSize, _, err := pipe.CreateMesh()
	if err != nil {
		log.Fatal(err.Error())
	}
	log.Printf(
		"Built mesh with %d cells in a %.4g x %.4g x %.4g box",
		len(m), boxSize[0], boxSize[1], boxSize[2],
	)
}

// readPositions reads one catalogue file, converting (angle, angle, z)
// rows to Cartesian positions when the rdz column convention is
// configured.
func readPositions(
	c cosmo.Cosmology, con *jio.PrepareConfig, file string,
) ([][3]float64, error) {
	if con.Columns == "XYZ" {
		return jio.ReadXYZ(file)
	}
	rows, err := jio.ReadRDZ(file)
	if err != nil {
		return nil, err
	}
	return coords.CartesianPositions(c, rows, con.AngleUnits)
}

// paramsFromConfig converts the validated config into mesh parameters,
// resolving the zero-means-auto bin sentinels into explicit requests.
func paramsFromConfig(con *jio.PrepareConfig) mesh.Params {
	par := mesh.DefaultParams()
	par.Precision = con.Precision
	par.Box = con.Box
	par.BoxLength = con.BoxLength
	par.BoxCentre = [3]float64{con.BoxCentreX, con.BoxCentreY, con.BoxCentreZ}
	par.Padding = con.Padding
	par.CellsPerSep = con.CellsPerRsep
	par.SaveMesh = con.SaveMesh
	par.MeshFile = con.MeshFile
	par.Smoothing = con.Smoothing
	par.LOS = con.LOS()
	par.Threads = threads

	if con.VoidBins > 0 {
		n := con.VoidBins
		par.VoidBins = mesh.FixedBins([3]int{n, n, n})
	}
	if con.ReconBins > 0 {
		n := con.ReconBins
		par.ReconBins = mesh.FixedBins([3]int{n, n, n})
	}

	// Validated above, so the lookups cannot fail.
	par.Algorithm, _ = recon.AlgorithmFromString(con.Algorithm)
	if con.Reconstruct != "" {
		par.ReconField, _ = recon.FieldFromString(con.Reconstruct)
	}

	return par
}
