package style

import (
	"fmt"
	"strings"

	"github.com/willie68/go_vtrender/internal/model"
)

type Kind int

const (
	Fill Kind = iota
	Line
	Symbol
)

func (k Kind) String() string {
	switch k {
	case Fill:
		return "fill"
	case Line:
		return "line"
	case Symbol:
		return "symbol"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds lists all style layer kinds
func Kinds() []Kind {
	return []Kind{Fill, Line, Symbol}
}

func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "fill":
		return Fill, nil
	case "line":
		return Line, nil
	case "symbol":
		return Symbol, nil
	}
	return 0, fmt.Errorf("unknown style layer type: %s", name)
}

type PaintMode string

const (
	FillMode   PaintMode = "fill"
	StrokeMode PaintMode = "stroke"
)

// Paint is one visual treatment of the geometry of a layer
type Paint struct {
	Mode    PaintMode `json:"mode" yaml:"mode"`
	Color   string    `json:"color" yaml:"color"`
	Width   float64   `json:"width,omitempty" yaml:"width"`
	Opacity float64   `json:"opacity,omitempty" yaml:"opacity"`
	Pattern string    `json:"pattern,omitempty" yaml:"pattern"`
}

// Filter decides on the tags of a feature, if a layer applies
type Filter interface {
	Evaluate(f *model.Feature) bool
}

type FilterFunc func(f *model.Feature) bool

func (fn FilterFunc) Evaluate(f *model.Feature) bool {
	return fn(f)
}

// All accepts every feature
var All Filter = FilterFunc(func(*model.Feature) bool { return true })

// Layer is one rule of the style sheet. Layers are rendered in their order, later layers paint over earlier ones.
type Layer struct {
	ID          string
	SourceLayer string
	Kind        Kind
	MinZoom     int
	MaxZoom     int
	Enabled     bool
	Filter      Filter
	Paints      []Paint
	Icon        string
}

func (l *Layer) Validate() error {
	if l.MinZoom < 0 || l.MinZoom > l.MaxZoom {
		return fmt.Errorf("layer %s: invalid zoom range %d - %d", l.ID, l.MinZoom, l.MaxZoom)
	}
	if l.SourceLayer == "" {
		return fmt.Errorf("layer %s: source layer missing", l.ID)
	}
	return nil
}

// ZoomVisible checks the zoom window of the layer
func (l *Layer) ZoomVisible(zoom int) bool {
	return zoom >= l.MinZoom && zoom <= l.MaxZoom
}

// Accepts checks if the feature has to be rendered with this layer at the zoom level
func (l *Layer) Accepts(f *model.Feature, zoom int) bool {
	if !l.Enabled || !l.ZoomVisible(zoom) {
		return false
	}
	if f.SourceLayer != l.SourceLayer {
		return false
	}
	if l.Filter == nil {
		return true
	}
	return l.Filter.Evaluate(f)
}

// Match is a feature accepted by a layer
type Match struct {
	Layer   *Layer
	Feature *model.Feature
}

// Matches returns all layers accepting the feature, in layer order. Layers are not exclusive.
func Matches(f *model.Feature, layers []*Layer, zoom int) []Match {
	ms := make([]Match, 0)
	for _, l := range layers {
		if l.Accepts(f, zoom) {
			ms = append(ms, Match{Layer: l, Feature: f})
		}
	}
	return ms
}

// Visible returns the enabled layers of the zoom level, in order
func Visible(layers []*Layer, zoom int) []*Layer {
	vs := make([]*Layer, 0, len(layers))
	for _, l := range layers {
		if l.Enabled && l.ZoomVisible(zoom) {
			vs = append(vs, l)
		}
	}
	return vs
}
