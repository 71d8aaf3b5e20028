package render

import (
	"github.com/paulmach/orb"

	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/model"
	"github.com/willie68/go_vtrender/internal/style"
)

var log = logging.New().WithName("render")

type PathPaint struct {
	Layer string      `json:"layer"`
	Path  *Path       `json:"path"`
	Paint style.Paint `json:"paint"`
}

// Bundle is the render ready result of a tile, paths and symbol groups in layer order
type Bundle struct {
	TileSize         int         `json:"tileSize"`
	Zoom             int         `json:"zoom"`
	OverzoomExponent int         `json:"overzoom"`
	Paths            []PathPaint `json:"paths"`
	Symbols          [][]Symbol  `json:"symbols"`
}

// IsEmpty is true if nothing is to be drawn
func (b *Bundle) IsEmpty() bool {
	return len(b.Paths) == 0 && len(b.Symbols) == 0
}

// Assemble renders the features with the layers into a new bundle
func Assemble(features []model.Feature, layers []*style.Layer, zoom, tileSize int) *Bundle {
	b := &Bundle{
		TileSize: tileSize,
		Zoom:     zoom,
		Paths:    make([]PathPaint, 0),
		Symbols:  make([][]Symbol, 0),
	}
	view := orb.Bound{Max: orb.Point{float64(tileSize), float64(tileSize)}}
	for _, l := range style.Visible(layers, zoom) {
		path := NewPath()
		symbols := make([]Symbol, 0)
		for i := range features {
			f := &features[i]
			if !l.Accepts(f, zoom) {
				continue
			}
			switch ActionFor(f.Kind, l.Kind) {
			case AppendPath:
				AppendToPath(path, f)
			case Symbolize:
				if s, ok := ExtractSymbol(f, l, tileSize); ok {
					symbols = append(symbols, s)
				}
			default:
				log.Debugf("ignoring %s feature for %s layer %s", f.Kind, l.Kind, l.ID)
			}
		}
		if !path.IsEmpty() && path.Bound().Intersects(view) {
			for _, p := range l.Paints {
				b.Paths = append(b.Paths, PathPaint{Layer: l.ID, Path: path, Paint: p})
			}
		}
		if len(symbols) > 0 {
			b.Symbols = append(b.Symbols, symbols)
		}
	}
	return b
}
