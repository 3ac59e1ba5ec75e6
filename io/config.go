package io

import (
	"github.com/delaossa/Wake-T/plasma"
)

const ExampleSolveFile = `[Solve]

#######################
## Required Settings ##
#######################

# Directory the output .wtg field grids are written to.
Output = path/to/output/dir

# On-axis plasma density in m^-3.
Density = 1e24

# Simulation box in meters. Xi increases towards the head of the box, so
# the whole box usually sits at XiMin < XiMax <= 0 behind the driver.
XiMin = -120e-6
XiMax = 0
RMax = 60e-6

# Grid resolution along xi and r.
NXi = 200
NR = 120

#######################
## Optional Settings ##
#######################

# File to write logging information to. Defaults to stderr.
# LogFile = path/to/log/file

# File to write a pprof CPU profile to.
# ProfileFile = path/to/profile/file

# Number of plasma particles per radial cell. Defaults to 2.
# PPC = 2

# Particle shape factor, either "linear" or "cubic". Defaults to "cubic".
# Shape = cubic

# Plasma pusher, either "rk4" or "ab5". Defaults to "rk4".
# Pusher = rk4

# Quasistatic validity bound. Plasma particles pushed beyond this Lorentz
# factor are put at rest. Defaults to 10.
# MaxGamma = 10

# Radial extent of the plasma column in meters. Defaults to RMax.
# RMaxPlasma = 60e-6

# Parabolic channel coefficient in m^-2: n(r) = Density*(1 + pc*r^2).
# ParabolicCoefficient = 0

# Make the plasma ions mobile. Defaults to false.
# IonMotion = false

# Ion to electron mass ratio used when IonMotion is set. Defaults to the
# proton value.
# IonMassRatio = 1836.15267343

# Simulation time stamped on the output grids, in seconds.
# Time = 0

# Each Bunch section names one drive or witness bunch and points at its
# particle files: whitespace tables with one row per macroparticle and
# columns x y xi q, in meters and coulombs. Files may be a glob; matches
# are read in natural order and concatenated.
[Bunch "drive"]
Files = path/to/bunches/drive_*.txt

# A Laser section adds a static Gaussian envelope
# a^2 = A0^2 exp(-2 r^2/Waist^2) exp(-2 (xi-XiC)^2/Length^2),
# with all lengths in meters.
# [Laser]
# A0 = 1.0
# Waist = 30e-6
# Length = 15e-6
# XiC = -20e-6
`

// SolveConfig is the [Solve] section of a config file: one quasistatic
// solve of the plasma response on a fixed (xi, r) box.
type SolveConfig struct {
	Output      string
	LogFile     string
	ProfileFile string

	Density            float64
	XiMin, XiMax, RMax float64
	NXi, NR            int

	PPC                  int
	Shape                string
	Pusher               string
	MaxGamma             float64
	RMaxPlasma           float64
	ParabolicCoefficient float64
	IonMotion            bool
	IonMassRatio         float64

	Time float64
}

// BunchConfig is one [Bunch "name"] section.
type BunchConfig struct {
	Files string
}

// LaserConfig is the [Laser] section. A section with a zero amplitude is
// treated as absent.
type LaserConfig struct {
	A0     float64
	Waist  float64
	Length float64
	XiC    float64
}

// SolveWrapper is the struct gcfg parses a solve config file into.
type SolveWrapper struct {
	Solve SolveConfig
	Bunch map[string]*BunchConfig
	Laser LaserConfig
}

// DefaultSolveWrapper returns a wrapper seeded with the solver defaults,
// so fields left out of the file keep their usual values.
func DefaultSolveWrapper() *SolveWrapper {
	p := plasma.DefaultParams()
	w := &SolveWrapper{}
	w.Solve = SolveConfig{
		PPC:          p.PPC,
		Shape:        p.Shape.String(),
		Pusher:       p.Pusher.String(),
		MaxGamma:     p.MaxGamma,
		IonMassRatio: p.IonMassRatio,
	}
	return w
}

func (con *SolveConfig) ValidOutput() bool {
	return con.Output != ""
}

func (con *SolveConfig) ValidLogFile() bool {
	return con.LogFile != ""
}

func (con *SolveConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}

func (con *SolveConfig) ValidDensity() bool {
	return con.Density > 0
}

func (con *SolveConfig) ValidBox() bool {
	return con.XiMin < con.XiMax && con.RMax > 0
}

func (con *SolveConfig) ValidGrid() bool {
	return con.NXi >= 3 && con.NR >= 3
}

func (con *BunchConfig) ValidFiles() bool {
	return con.Files != ""
}

// Valid reports whether the section describes a pulse.
func (con *LaserConfig) Valid() bool {
	return con.A0 != 0
}
