package model

import (
	"fmt"
	"strings"
)

// Axis is the row numbering convention of a tile source.
// Everything outside a provider uses XYZ rows, Normalize converts them into the providers convention.
type Axis interface {
	Name() string
	// Normalize converts a XYZ tile into the row numbering of this convention
	Normalize(tile Tile) Tile
	// RowSign is the sign applied to the row parity while walking up the pyramid
	RowSign() int
	// CorrectY converts the accumulated row offset into the final y offset, unit is the offset unit after the walk
	CorrectY(offsetY, unit int) int
}

var (
	XYZ Axis = xyzAxis{}
	TMS Axis = tmsAxis{}
)

// ParseAxis returns the axis for the name, an empty name means xyz
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "xyz", "google", "slippy":
		return XYZ, nil
	case "tms":
		return TMS, nil
	}
	return nil, fmt.Errorf("unknown axis convention: %s", name)
}

// north up, row 0 is the northern most row
type xyzAxis struct{}

func (xyzAxis) Name() string { return "xyz" }

func (xyzAxis) Normalize(tile Tile) Tile { return tile }

func (xyzAxis) RowSign() int { return 1 }

func (xyzAxis) CorrectY(offsetY, _ int) int {
	return offsetY
}

// south up, row 0 is the southern most row, mbtiles use this
type tmsAxis struct{}

func (tmsAxis) Name() string { return "tms" }

func (tmsAxis) Normalize(tile Tile) Tile {
	ymax := 1 << tile.Z
	tile.Y = ymax - tile.Y - 1
	return tile
}

func (tmsAxis) RowSign() int { return -1 }

// the parity bits count from the bottom of the ancestor while the decoder counts from the top,
// offsetY is negative here.
func (tmsAxis) CorrectY(offsetY, unit int) int {
	return unit + offsetY - NativeExtent
}
