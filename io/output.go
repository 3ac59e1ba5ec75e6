package io

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// All .wtg files are little endian.
var end = binary.LittleEndian

const (
	// GridMagic opens every .wtg file. It spells "wake".
	GridMagic int64 = 0x77616b65

	// GridVersion is the format version this package writes.
	GridVersion int64 = 1
)

// GridHeader describes one field grid stored in a .wtg file: the grid
// shape, the (xi, r) box it was solved on in meters, the reference plasma
// density in m^-3 and the simulation time in seconds. The payload follows
// the header as NXi*NR float64 values in row-major order, one row per xi
// node.
type GridHeader struct {
	Magic, Version int64
	NXi, NR        int64

	XiMin, XiMax float64
	RMax         float64
	Density      float64
	Time         float64
}

// NewGridHeader fills a header for a grid of the given shape and box.
func NewGridHeader(
	nXi, nR int, xiMin, xiMax, rMax, density, time float64,
) *GridHeader {
	return &GridHeader{
		Magic: GridMagic, Version: GridVersion,
		NXi: int64(nXi), NR: int64(nR),
		XiMin: xiMin, XiMax: xiMax, RMax: rMax,
		Density: density, Time: time,
	}
}

// XiNodes returns the xi axis of the stored grid in meters: NXi evenly
// spaced nodes spanning [XiMin, XiMax].
func (hd *GridHeader) XiNodes() []float64 {
	return floats.Span(make([]float64, hd.NXi), hd.XiMin, hd.XiMax)
}

// RNodes returns the radial axis of the stored grid in meters: NR
// cell-centered nodes inside [0, RMax].
func (hd *GridHeader) RNodes() []float64 {
	rs := make([]float64, hd.NR)
	dr := hd.RMax / float64(hd.NR)
	for j := range rs {
		rs[j] = (float64(j) + 0.5) * dr
	}
	return rs
}

// check reports headers this version of the package cannot have written.
func (hd *GridHeader) check() error {
	if hd.Magic != GridMagic {
		return fmt.Errorf("wake grid magic %#x, want %#x", hd.Magic, GridMagic)
	}
	if hd.Version != GridVersion {
		return fmt.Errorf("wake grid version %d, want %d",
			hd.Version, GridVersion)
	}
	if hd.NXi < 2 || hd.NR < 1 {
		return fmt.Errorf("wake grid of shape [%d %d]", hd.NXi, hd.NR)
	}
	return nil
}

// WriteGrid writes vals and its header to wr. vals must have the
// (NXi, NR) shape the header declares.
func WriteGrid(wr io.Writer, hd *GridHeader, vals *sparse.DenseArray) error {
	if err := hd.check(); err != nil {
		return err
	}
	if len(vals.Shape) != 2 || int64(vals.Shape[0]) != hd.NXi ||
		int64(vals.Shape[1]) != hd.NR {
		return fmt.Errorf("wake grid of shape %v does not match header "+
			"shape [%d %d]", vals.Shape, hd.NXi, hd.NR)
	}

	if err := binary.Write(wr, end, hd); err != nil {
		return err
	}
	return binary.Write(wr, end, vals.Elements)
}

// ReadGrid reads one grid and its header back from r.
func ReadGrid(r io.Reader) (*GridHeader, *sparse.DenseArray, error) {
	hd := &GridHeader{}
	if err := binary.Read(r, end, hd); err != nil {
		return nil, nil, err
	}
	if err := hd.check(); err != nil {
		return nil, nil, err
	}

	vals := sparse.ZerosDense(int(hd.NXi), int(hd.NR))
	if err := binary.Read(r, end, vals.Elements); err != nil {
		return nil, nil, err
	}
	return hd, vals, nil
}

// WriteGridFile writes a single grid to the named file.
func WriteGridFile(file string, hd *GridHeader, vals *sparse.DenseArray) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := WriteGrid(f, hd, vals); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadGridFile reads a single grid from the named file.
func ReadGridFile(file string) (*GridHeader, *sparse.DenseArray, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadGrid(f)
}
