package plasma

import (
	"fmt"
	"os"
	"testing"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/delaossa/Wake-T/beam"
	"github.com/delaossa/Wake-T/deposit"
	"github.com/delaossa/Wake-T/units"
)

// TestPlotOnAxisWake draws the on-axis longitudinal field behind a drive
// bunch for eyeballing. It shells out to python and matplotlib, so it only
// runs when WAKET_PYPLOT is set.
func TestPlotOnAxisWake(t *testing.T) {
	if os.Getenv("WAKET_PYPLOT") == "" {
		t.Skip("set WAKET_PYPLOT to run the matplotlib check")
	}

	p := DefaultParams()
	p.Density = 1e24
	p.RMax = 60e-6
	p.XiMin, p.XiMax = -90e-6, 0
	p.NR, p.NXi = 50, 50
	p.Shape = deposit.Linear

	sd := units.SkinDepth(p.Density)
	xiHi := -2 * sd
	bunch := blockBunch(t, -50e-12, 0.5*sd, xiHi-sd, xiHi, 6, 8)

	w, err := CalculateWakefields(nil, []*beam.Bunch{bunch}, p)
	if err != nil {
		t.Fatal(err)
	}

	xi := make([]float64, len(w.Xi))
	ez := make([]float64, len(w.Xi))
	for i := range xi {
		xi[i] = w.Xi[i] * 1e6
		ez[i] = w.Ez.Get(i, 0)
	}

	plt.Reset()
	plt.Figure()
	plt.Plot(xi, ez, "b", plt.LW(2))
	plt.Title(fmt.Sprintf("on-axis wake at n = %.3g m^-3", p.Density))
	plt.XLabel(`$\xi$ $[\mu {\rm m}]$`, plt.FontSize(16))
	plt.YLabel(`$E_z$ [V/m]`, plt.FontSize(16))
	plt.Show()
	plt.Execute()
}
