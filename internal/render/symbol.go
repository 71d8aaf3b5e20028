package render

import (
	"github.com/paulmach/orb"

	"github.com/willie68/go_vtrender/internal/model"
	"github.com/willie68/go_vtrender/internal/style"
)

type Symbol struct {
	Layer string         `json:"layer"`
	Point orb.Point      `json:"point"`
	Icon  string         `json:"icon,omitempty"`
	Tags  map[string]any `json:"tags,omitempty"`
}

// ExtractSymbol creates the symbol of a point feature. Points outside the tile belong to a neighbour tile,
// the upper edge is exclusive.
func ExtractSymbol(f *model.Feature, l *style.Layer, tileSize int) (Symbol, bool) {
	if l.Kind != style.Symbol {
		return Symbol{}, false
	}
	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		log.Debugf("unsupported geometry %s for symbol layer %s", f.Kind, l.ID)
		return Symbol{}, false
	}
	ts := float64(tileSize)
	if pt[0] < 0 || pt[0] >= ts || pt[1] < 0 || pt[1] >= ts {
		return Symbol{}, false
	}
	return Symbol{
		Layer: l.ID,
		Point: pt,
		Icon:  l.Icon,
		Tags:  f.Tags,
	}, true
}
