package overzoom

import (
	"errors"
	"fmt"

	"github.com/willie68/go_vtrender/internal/model"
	"github.com/willie68/go_vtrender/internal/provider"
	"github.com/willie68/go_vtrender/internal/resolution"
)

var (
	// ErrNoData neither the tile nor one of its ancestors has data
	ErrNoData = errors.New("no data for tile")
	// ErrZoomOutOfRange the zoom is outside of the resolution table, no ancestor walk is done
	ErrZoomOutOfRange = errors.New("zoom level out of range")
)

type lookup interface {
	Tile(tile model.Tile) ([]byte, error)
}

// Result is the data found for a tile, Source is the tile the data belongs to
type Result struct {
	Data       []byte
	Source     model.Tile
	Correction model.Correction
}

// Resolver finds the data of a tile, the tile is given in the axis convention of the resolver
type Resolver struct {
	tiles lookup
	axis  model.Axis
}

func New(tiles lookup, axis model.Axis) *Resolver {
	return &Resolver{tiles: tiles, axis: axis}
}

func (r *Resolver) Axis() model.Axis {
	return r.axis
}

// Resolve returns the data of the tile or of the nearest ancestor with the correction
// mapping the ancestor onto the tile. The snapshot limits the valid zoom levels.
func (r *Resolver) Resolve(tile model.Tile, table *resolution.Snapshot) (*Result, error) {
	if !table.Contains(tile.Z) {
		return nil, fmt.Errorf("%w: %d", ErrZoomOutOfRange, tile.Z)
	}
	data, err := r.get(tile)
	if err != nil {
		return nil, err
	}
	if data != nil {
		return &Result{Data: data, Source: tile, Correction: model.Identity()}, nil
	}

	scale := 1
	unit := model.NativeExtent
	offsetX, offsetY := 0, 0
	current := tile
	for current.Z > 0 {
		scale *= 2
		offsetX += (current.X % 2) * unit
		offsetY += (current.Y % 2) * unit * r.axis.RowSign()
		current = current.Parent()
		unit *= 2

		data, err = r.get(current)
		if err != nil {
			return nil, err
		}
		if data != nil {
			break
		}
	}
	if data == nil {
		return nil, ErrNoData
	}
	return &Result{
		Data:   data,
		Source: current,
		Correction: model.Correction{
			Scale:   scale,
			OffsetX: offsetX,
			OffsetY: r.axis.CorrectY(offsetY, unit),
		},
	}, nil
}

// missing tiles are nil data without error
func (r *Resolver) get(tile model.Tile) ([]byte, error) {
	data, err := r.tiles.Tile(tile)
	if errors.Is(err, provider.ErrNoTile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}
