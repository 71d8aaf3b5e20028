package model

import "fmt"

// NativeExtent is the coordinate space of a decoded tile before it is scaled to the output tile size
const NativeExtent = 4096

type Tile struct {
	Provider string
	Z        int
	X        int
	Y        int
}

func (t Tile) String() string {
	return fmt.Sprintf("Provider: %s, Z:%d, X:%d, Y:%d", t.Provider, t.Z, t.X, t.Y)
}

// Parent returns the tile one zoom level up, containing this tile
func (t Tile) Parent() Tile {
	return Tile{
		Provider: t.Provider,
		Z:        t.Z - 1,
		X:        t.X >> 1,
		Y:        t.Y >> 1,
	}
}

// IsValid checks the column and row against the number of tiles of the zoom level
func (t Tile) IsValid() bool {
	if t.Z < 0 || t.Z > 30 {
		return false
	}
	max := 1 << t.Z // 2^zoom
	if t.X < 0 || t.X >= max {
		return false
	}
	if t.Y < 0 || t.Y >= max {
		return false
	}
	return true
}
