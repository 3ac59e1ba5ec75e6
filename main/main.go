package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/ctessum/sparse"
	"gopkg.in/gcfg.v1"

	"github.com/delaossa/Wake-T/beam"
	"github.com/delaossa/Wake-T/deposit"
	"github.com/delaossa/Wake-T/io"
	"github.com/delaossa/Wake-T/plasma"
	"github.com/delaossa/Wake-T/wakefield"
)

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil {
		err := fg.log.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		err := fg.prof.Close()
		if err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	// The main function manages input sanitization and calls the secondary
	// main functions for each mode.

	var (
		solveStr      string
		exampleConfig string
	)
	vars := map[string]*string{
		"Solve":         &solveStr,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&solveStr, "Solve", "",
		"Configuration file for [Solve] mode.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. The only accepted argument is 'Solve'.",
	)

	flag.Parse()

	// Figure out the mode and fail with a descriptive error if the user
	// gave incorrect flags.
	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Solve":
		wrap := io.DefaultSolveWrapper()
		err := gcfg.ReadFileInto(wrap, solveStr)
		if err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.Solve

		if !con.ValidOutput() {
			log.Fatal("Invalid/non-existent 'Output' value.")
		} else if !con.ValidDensity() {
			log.Fatal("Invalid/non-existent 'Density' value.")
		} else if !con.ValidBox() {
			log.Fatal(
				"Invalid/non-existent box bounds. You must set 'XiMin', " +
					"'XiMax' and 'RMax' with XiMin < XiMax.",
			)
		} else if !con.ValidGrid() {
			log.Fatal(
				"Invalid/non-existent grid shape. You must set 'NXi' and " +
					"'NR' to at least 3.",
			)
		}

		if wrap.Laser.Valid() &&
			!(wrap.Laser.Waist > 0 && wrap.Laser.Length > 0) {
			log.Fatal(
				"Invalid 'Waist'/'Length' values in the [Laser] section.",
			)
		}

		solveMain(wrap)

	case "ExampleConfig":
		switch exampleConfig {
		case "Solve":
			fmt.Println(io.ExampleSolveFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only " +
					"recognized argument is 'Solve'.",
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
			"The following flags were set: %s, but waket only accepts "+
				"one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

// solveSetupIO redirects logging, starts profiling and creates the output
// directory, as requested by the config file.
func solveSetupIO(con *io.SolveConfig) *FileGroup {
	var err error
	fg := new(FileGroup)

	if con.ValidLogFile() {
		fg.log, err = os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		log.SetOutput(fg.log)
	}

	if con.ValidProfileFile() {
		fg.prof, err = os.Create(con.ProfileFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		err = pprof.StartCPUProfile(fg.prof)
		if err != nil {
			log.Fatal(err.Error())
		}
	}

	if err = os.MkdirAll(con.Output, 0777); err != nil {
		log.Fatal(err.Error())
	}

	return fg
}

// solveMain runs one quasistatic solve and writes the output grids.
func solveMain(wrap *io.SolveWrapper) {
	con := &wrap.Solve
	fg := solveSetupIO(con)
	defer fg.Close()

	shape, ok := deposit.ShapeFromString(con.Shape)
	if !ok {
		log.Fatalf("Invalid particle shape, '%s'", con.Shape)
	}
	pusher, ok := plasma.PusherFromString(con.Pusher)
	if !ok {
		log.Fatalf("Invalid plasma pusher, '%s'", con.Pusher)
	}

	p := plasma.DefaultParams()
	p.Density = con.Density
	p.XiMin, p.XiMax, p.RMax = con.XiMin, con.XiMax, con.RMax
	p.NXi, p.NR = con.NXi, con.NR
	p.PPC = con.PPC
	p.Shape = shape
	p.Pusher = pusher
	p.MaxGamma = con.MaxGamma
	p.RMaxPlasma = con.RMaxPlasma
	p.ParabolicCoefficient = con.ParabolicCoefficient
	p.IonMotion = con.IonMotion
	p.IonMassRatio = con.IonMassRatio

	bunches := readBunches(wrap)

	var laserA2 *sparse.DenseArray
	if wrap.Laser.Valid() {
		pulse := &wakefield.Laser{
			A0:     wrap.Laser.A0,
			Waist:  wrap.Laser.Waist,
			Length: wrap.Laser.Length,
			XiC:    wrap.Laser.XiC,
		}
		laserA2 = pulse.SampleGrid(p.XiMin, p.XiMax, p.RMax, p.NXi, p.NR)
		log.Printf("Sampled a laser envelope with a0 = %g.", wrap.Laser.A0)
	}

	log.Printf("Solving the wake on a %d x %d grid driven by %d bunches.",
		p.NXi, p.NR, len(bunches))

	w, err := plasma.CalculateWakefields(laserA2, bunches, p)
	if err != nil {
		log.Fatal(err.Error())
	}
	if w.Frozen > 0 {
		log.Printf("Put %d plasma particles at rest at the gamma limit.",
			w.Frozen)
	}

	writeFields(con, w)
}

// readBunches builds one bunch per [Bunch "name"] section, in a fixed
// order.
func readBunches(wrap *io.SolveWrapper) []*beam.Bunch {
	names := make([]string, 0, len(wrap.Bunch))
	for name := range wrap.Bunch {
		names = append(names, name)
	}
	sort.Strings(names)

	bunches := make([]*beam.Bunch, 0, len(names))
	for _, name := range names {
		bcon := wrap.Bunch[name]
		if !bcon.ValidFiles() {
			log.Fatalf("Invalid/non-existent 'Files' value for bunch '%s'.",
				name)
		}

		files, err := io.GlobBunchFiles(bcon.Files)
		if err != nil {
			log.Fatal(err.Error())
		}
		b, err := io.ReadBunchFiles(name, files)
		if err != nil {
			log.Fatal(err.Error())
		}

		log.Printf("Read %d particles for bunch '%s' from %d files.",
			b.N(), name, len(files))
		bunches = append(bunches, b)
	}
	return bunches
}

// writeFields writes every grid of the solve to its own .wtg file inside
// the output directory. The grid axes travel inside the headers.
func writeFields(con *io.SolveConfig, w *plasma.Wakefields) {
	hd := io.NewGridHeader(
		len(w.Xi), len(w.R), con.XiMin, con.XiMax, con.RMax,
		con.Density, con.Time,
	)

	grids := []struct {
		name string
		vals *sparse.DenseArray
	}{
		{"ez", w.Ez},
		{"er", w.Er},
		{"wr", w.Wr},
		{"btheta", w.BTheta},
		{"rho", w.Rho},
		{"chi", w.Chi},
	}

	for _, g := range grids {
		out := filepath.Join(con.Output, g.name+".wtg")
		log.Printf("Writing to %s", out)
		if err := io.WriteGridFile(out, hd, g.vals); err != nil {
			log.Fatal(err.Error())
		}
	}
}
