package source

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/project"
	"github.com/pkg/errors"

	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/model"
)

// Decoder turns the raw bytes of a tile into features in the pixel space of the requested tile
type Decoder struct {
	log      *logging.Logger
	tileSize int
	buffer   int
}

// New creates a decoder for the tile size, features outside the tile plus buffer pixels are dropped
func New(tileSize, buffer int) *Decoder {
	return &Decoder{
		log:      logging.New().WithName("source"),
		tileSize: tileSize,
		buffer:   buffer,
	}
}

func (d *Decoder) TileSize() int {
	return d.tileSize
}

// PixelScale is the factor from native units to pixel
func (d *Decoder) PixelScale() float64 {
	return float64(d.tileSize) / model.NativeExtent
}

// Window is the area of the tile in pixel space, with buffer
func (d *Decoder) Window() orb.Bound {
	b := float64(d.buffer)
	ts := float64(d.tileSize)
	return orb.Bound{Min: orb.Point{-b, -b}, Max: orb.Point{ts + b, ts + b}}
}

// Decode decodes the tile data, the correction maps the data of an ancestor onto the tile.
// An empty slice is returned for tiles without features.
func (d *Decoder) Decode(tile model.Tile, data []byte, c model.Correction) ([]model.Feature, error) {
	raw, err := Uncompress(data)
	if err != nil {
		return nil, errors.Wrapf(err, "tile %d/%d/%d", tile.Z, tile.X, tile.Y)
	}
	layers, err := mvt.Unmarshal(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "can't decode vector tile %d/%d/%d", tile.Z, tile.X, tile.Y)
	}
	window := d.Window()
	pixelScale := d.PixelScale()
	features := make([]model.Feature, 0)
	for _, layer := range layers {
		extentScale := 1.0
		if layer.Extent != 0 && layer.Extent != model.NativeExtent {
			extentScale = float64(model.NativeExtent) / float64(layer.Extent)
		}
		proj := func(p orb.Point) orb.Point {
			p = c.Apply(orb.Point{p[0] * extentScale, p[1] * extentScale})
			return orb.Point{p[0] * pixelScale, p[1] * pixelScale}
		}
		for _, f := range layer.Features {
			if f.Geometry == nil {
				continue
			}
			for _, g := range split(f.Geometry) {
				kind, ok := model.KindOf(g)
				if !ok {
					d.log.Debugf("unsupported geometry %s in layer %s", g.GeoJSONType(), layer.Name)
					continue
				}
				g = project.Geometry(g, proj)
				if !g.Bound().Intersects(window) {
					continue
				}
				features = append(features, model.Feature{
					ID:          f.ID,
					SourceLayer: layer.Name,
					Kind:        kind,
					Geometry:    g,
					Tags:        map[string]any(f.Properties),
				})
			}
		}
	}
	return features, nil
}

// multi points become single points, each one a symbol candidate
func split(g orb.Geometry) []orb.Geometry {
	if mp, ok := g.(orb.MultiPoint); ok {
		gs := make([]orb.Geometry, 0, len(mp))
		for _, p := range mp {
			gs = append(gs, p)
		}
		return gs
	}
	return []orb.Geometry{g}
}
