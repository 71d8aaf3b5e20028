package provider

import (
	"sync"

	"github.com/willie68/go_vtrender/internal/model"
)

// Memory is a provider holding the tiles in a map, the tiles are given in the providers axis
type Memory struct {
	name  string
	axis  model.Axis
	tlock sync.RWMutex
	tiles map[[3]int][]byte
	hits  map[[3]int]int
}

func NewMemory(name string, axis model.Axis) *Memory {
	return &Memory{
		name:  name,
		axis:  axis,
		tiles: make(map[[3]int][]byte),
		hits:  make(map[[3]int]int),
	}
}

func (m *Memory) Put(tile model.Tile, data []byte) {
	m.tlock.Lock()
	defer m.tlock.Unlock()
	m.tiles[[3]int{tile.Z, tile.X, tile.Y}] = data
}

func (m *Memory) Tile(tile model.Tile) ([]byte, error) {
	key := [3]int{tile.Z, tile.X, tile.Y}
	m.tlock.Lock()
	defer m.tlock.Unlock()
	m.hits[key]++
	data, ok := m.tiles[key]
	if !ok || len(data) == 0 {
		return nil, ErrNoTile
	}
	return data, nil
}

// Lookups returns how often the tile was requested
func (m *Memory) Lookups(tile model.Tile) int {
	m.tlock.RLock()
	defer m.tlock.RUnlock()
	return m.hits[[3]int{tile.Z, tile.X, tile.Y}]
}

func (m *Memory) Info() Info {
	minZoom, maxZoom := -1, 0
	m.tlock.RLock()
	defer m.tlock.RUnlock()
	for k := range m.tiles {
		if minZoom < 0 || k[0] < minZoom {
			minZoom = k[0]
		}
		if k[0] > maxZoom {
			maxZoom = k[0]
		}
	}
	if minZoom < 0 {
		minZoom = 0
	}
	return Info{
		Name:    m.name,
		Format:  "pbf",
		Axis:    m.axis,
		MinZoom: minZoom,
		MaxZoom: maxZoom,
	}
}
