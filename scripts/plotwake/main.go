/*plotwake draws the on-axis lineout of a .wtg field grid.

Usage:

	plotwake [-o fig.png] field.wtg

Without -o the figure opens in a matplotlib window. Either way the script
shells out to python, so matplotlib must be installed.
*/
package main

import (
	"flag"
	"fmt"
	"log"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/delaossa/Wake-T/io"
)

func main() {
	out := flag.String("o", "",
		"Write the figure to this file instead of opening a window.")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("Usage: plotwake [-o fig.png] field.wtg")
	}
	file := flag.Arg(0)

	hd, vals, err := io.ReadGridFile(file)
	if err != nil {
		log.Fatal(err.Error())
	}

	// The innermost radial cell is the on-axis lineout.
	xi := hd.XiNodes()
	axis := make([]float64, len(xi))
	for i := range axis {
		xi[i] *= 1e6
		axis[i] = vals.Get(i, 0)
	}

	plt.Reset()
	plt.Figure()
	plt.Plot(xi, axis, "b", plt.LW(2))
	plt.Title(fmt.Sprintf("%s at t = %.3g s, n = %.3g m^-3",
		file, hd.Time, hd.Density))
	plt.XLabel(`$\xi$ $[\mu {\rm m}]$`, plt.FontSize(16))
	plt.YLabel("on-axis value", plt.FontSize(16))

	if *out != "" {
		plt.SaveFig(*out)
	} else {
		plt.Show()
	}
	plt.Execute()
}
