package model

import (
	"math/bits"

	"github.com/paulmach/orb"
)

// Correction maps the native coordinates of an ancestor tile onto the requested tile.
// Offsets are given in native units of the magnified ancestor.
type Correction struct {
	Scale   int
	OffsetX int
	OffsetY int
}

// Identity is the correction of an exactly found tile
func Identity() Correction {
	return Correction{Scale: 1}
}

func (c Correction) IsIdentity() bool {
	return c.Scale == 1 && c.OffsetX == 0 && c.OffsetY == 0
}

// Exponent is the number of zoom levels walked up, log2(scale)
func (c Correction) Exponent() int {
	if c.Scale <= 1 {
		return 0
	}
	return bits.Len(uint(c.Scale)) - 1
}

// Apply maps a native point of the ancestor tile into the native space of the requested tile
func (c Correction) Apply(p orb.Point) orb.Point {
	s := float64(c.Scale)
	if c.Scale == 0 {
		s = 1
	}
	return orb.Point{p[0]*s - float64(c.OffsetX), p[1]*s - float64(c.OffsetY)}
}
