/*package io reads and writes the on-disk formats of the solver: gcfg
configuration files, whitespace bunch tables, and the .wtg binary field
grids the command line tool produces.*/
package io

import (
	"fmt"
	"path/filepath"

	"github.com/facette/natsort"
	"github.com/phil-mansfield/table"

	"github.com/delaossa/Wake-T/beam"
)

// Bunch tables hold one row per macroparticle with columns x y xi q.
var bunchCols = []int{0, 1, 2, 3}

// GlobBunchFiles expands a bunch file pattern and returns the matches in
// natural order, so bunch_2 sorts before bunch_10.
func GlobBunchFiles(pattern string) ([]string, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("bunch pattern %q matches no files", pattern)
	}
	natsort.Sort(files)
	return files, nil
}

// ReadBunchFiles reads the given whitespace bunch tables and concatenates
// them into a single bunch with the given name. Positions are in meters
// and charges in coulombs; momenta start at zero.
func ReadBunchFiles(name string, files []string) (*beam.Bunch, error) {
	var x, y, xi, q []float64
	for _, file := range files {
		cols, err := table.ReadTable(file, bunchCols, nil)
		if err != nil {
			return nil, fmt.Errorf("bunch %q: %v", name, err)
		}
		x = append(x, cols[0]...)
		y = append(y, cols[1]...)
		xi = append(xi, cols[2]...)
		q = append(q, cols[3]...)
	}

	px := make([]float64, len(x))
	py := make([]float64, len(x))
	pz := make([]float64, len(x))
	return beam.NewBunch(name, x, y, xi, px, py, pz, q)
}
