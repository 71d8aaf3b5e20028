package tiles

import (
	"errors"

	"github.com/willie68/go_vtrender/internal/model"
	"github.com/willie68/go_vtrender/internal/overzoom"
	"github.com/willie68/go_vtrender/internal/provider"
	"github.com/willie68/go_vtrender/internal/render"
	"github.com/willie68/go_vtrender/internal/resolution"
	"github.com/willie68/go_vtrender/internal/source"
	"github.com/willie68/go_vtrender/internal/style"
	"github.com/willie68/go_vtrender/internal/utils/measurement"
)

// State is the progress of one tile request
type State int

const (
	Idle State = iota
	RequestingData
	Decoding
	MatchingLayers
	Assembled
	NoContent
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case RequestingData:
		return "requesting data"
	case Decoding:
		return "decoding"
	case MatchingLayers:
		return "matching layers"
	case Assembled:
		return "assembled"
	case NoContent:
		return "no content"
	}
	return "unknown"
}

// Source is the render pipeline of one provider. All fields are read only after creation,
// so a source renders any number of tiles in parallel.
type Source struct {
	name     string
	axis     model.Axis
	resolver *overzoom.Resolver
	decoder  *source.Decoder
	table    *resolution.Table
	layers   []*style.Layer
	metrics  *measurement.Service
}

func NewSource(name string, ps provider.Service, table *resolution.Table, decoder *source.Decoder, layers []*style.Layer) *Source {
	axis := ps.Info().Axis
	if axis == nil {
		axis = model.XYZ
	}
	return &Source{
		name:     name,
		axis:     axis,
		resolver: overzoom.New(ps, axis),
		decoder:  decoder,
		table:    table,
		layers:   layers,
		metrics:  measurement.New(false),
	}
}

func (src *Source) Name() string {
	return src.name
}

func (src *Source) Layers() []*style.Layer {
	return src.layers
}

func (src *Source) Table() *resolution.Table {
	return src.table
}

// Render runs the pipeline for the tile and returns the state it ended in,
// on errors this is the stage that failed.
func (src *Source) Render(tile model.Tile) (*render.Bundle, State, error) {
	if !tile.IsValid() {
		return nil, Idle, ErrInvalidTile
	}
	// one snapshot for the whole request, window changes apply to the next one
	table := src.table.Snapshot()

	td := src.metrics.Start("resolve")
	res, err := src.resolver.Resolve(src.axis.Normalize(tile), table)
	td.Stop()
	if errors.Is(err, overzoom.ErrNoData) || errors.Is(err, overzoom.ErrZoomOutOfRange) {
		return nil, NoContent, ErrNoContent
	}
	if err != nil {
		return nil, RequestingData, err
	}

	td = src.metrics.Start("decode")
	features, err := src.decoder.Decode(tile, res.Data, res.Correction)
	td.Stop()
	if err != nil {
		return nil, Decoding, err
	}
	if len(features) == 0 {
		return nil, NoContent, ErrNoContent
	}

	td = src.metrics.Start("assemble")
	b := render.Assemble(features, src.layers, tile.Z, src.decoder.TileSize())
	td.Stop()
	b.OverzoomExponent = res.Correction.Exponent()
	return b, Assembled, nil
}
