package render

import (
	"github.com/willie68/go_vtrender/internal/model"
	"github.com/willie68/go_vtrender/internal/style"
)

// Action is what happens to a feature of a geometry kind matched by a layer kind
type Action int

const (
	// Ignore drops the feature silently
	Ignore Action = iota
	AppendPath
	Symbolize
)

func (a Action) String() string {
	switch a {
	case AppendPath:
		return "path"
	case Symbolize:
		return "symbol"
	}
	return "ignore"
}

// every combination of geometry and layer kind
var actions = map[model.GeometryKind]map[style.Kind]Action{
	model.Point: {
		style.Fill:   Ignore,
		style.Line:   Ignore,
		style.Symbol: Symbolize,
	},
	model.LineString: {
		style.Fill:   AppendPath,
		style.Line:   AppendPath,
		style.Symbol: Ignore,
	},
	model.MultiLineString: {
		style.Fill:   AppendPath,
		style.Line:   AppendPath,
		style.Symbol: Ignore,
	},
	model.Polygon: {
		style.Fill:   AppendPath,
		style.Line:   AppendPath,
		style.Symbol: Ignore,
	},
	model.MultiPolygon: {
		style.Fill:   AppendPath,
		style.Line:   AppendPath,
		style.Symbol: Ignore,
	},
}

// ActionFor returns the action for the combination, unknown kinds are ignored
func ActionFor(g model.GeometryKind, k style.Kind) Action {
	if la, ok := actions[g]; ok {
		return la[k]
	}
	return Ignore
}
