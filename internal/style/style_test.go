package style

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/willie68/go_vtrender/internal/model"
)

func road(class string) *model.Feature {
	return &model.Feature{
		SourceLayer: "roads",
		Kind:        model.LineString,
		Geometry:    orb.LineString{{0, 0}, {10, 10}},
		Tags:        map[string]any{"class": class},
	}
}

func TestAccepts(t *testing.T) {
	ast := assert.New(t)
	l := &Layer{
		ID:          "primary",
		SourceLayer: "roads",
		Kind:        Line,
		MinZoom:     5,
		MaxZoom:     12,
		Enabled:     true,
		Filter:      NewTagFilter(map[string]string{"class": "primary"}),
	}
	tt := []struct {
		name    string
		feature *model.Feature
		zoom    int
		exp     bool
	}{
		{"match", road("primary"), 8, true},
		{"min zoom", road("primary"), 5, true},
		{"max zoom", road("primary"), 12, true},
		{"below", road("primary"), 4, false},
		{"above", road("primary"), 13, false},
		{"filter", road("service"), 8, false},
		{"source layer", &model.Feature{SourceLayer: "water", Tags: map[string]any{"class": "primary"}}, 8, false},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			ast.Equal(tc.exp, l.Accepts(tc.feature, tc.zoom))
		})
	}

	l.Enabled = false
	ast.False(l.Accepts(road("primary"), 8))
}

func TestZoomWindowWinsOverFilter(t *testing.T) {
	ast := assert.New(t)
	called := 0
	l := &Layer{SourceLayer: "roads", MinZoom: 10, MaxZoom: 12, Enabled: true,
		Filter: FilterFunc(func(*model.Feature) bool {
			called++
			return true
		})}
	for _, z := range []int{0, 9, 13, 20} {
		ast.False(l.Accepts(road("x"), z))
	}
	ast.Equal(0, called)
	ast.True(l.Accepts(road("x"), 11))
	ast.Equal(1, called)
}

func TestMatches(t *testing.T) {
	ast := assert.New(t)
	casing := &Layer{ID: "casing", SourceLayer: "roads", Kind: Line, MaxZoom: 20, Enabled: true, Filter: All}
	primary := &Layer{ID: "primary", SourceLayer: "roads", Kind: Line, MaxZoom: 20, Enabled: true,
		Filter: NewTagFilter(map[string]string{"class": "primary, trunk"})}
	water := &Layer{ID: "water", SourceLayer: "water", Kind: Fill, MaxZoom: 20, Enabled: true}
	layers := []*Layer{casing, water, primary}

	ms := Matches(road("trunk"), layers, 10)
	require.Len(t, ms, 2)
	ast.Equal("casing", ms[0].Layer.ID)
	ast.Equal("primary", ms[1].Layer.ID)

	ms = Matches(road("service"), layers, 10)
	require.Len(t, ms, 1)
	ast.Equal("casing", ms[0].Layer.ID)

	ast.Empty(Matches(road("trunk"), layers, 21))
}

func TestVisible(t *testing.T) {
	ast := assert.New(t)
	layers := []*Layer{
		{ID: "a", MinZoom: 0, MaxZoom: 5, Enabled: true},
		{ID: "b", MinZoom: 4, MaxZoom: 10, Enabled: true},
		{ID: "c", MinZoom: 0, MaxZoom: 10, Enabled: false},
	}
	vs := Visible(layers, 4)
	ast.Len(vs, 2)
	ast.Equal("a", vs[0].ID)
	ast.Equal("b", vs[1].ID)
	ast.Len(Visible(layers, 6), 1)
}

func TestTagFilter(t *testing.T) {
	ast := assert.New(t)
	f := NewTagFilter(map[string]string{"class": "primary;secondary", "surface": "*"})
	ast.False(f.Evaluate(road("primary")))
	ft := road("Secondary")
	ft.Tags["surface"] = "asphalt"
	ast.True(f.Evaluate(ft))
	ft.Tags["class"] = "track"
	ast.False(f.Evaluate(ft))
}

func TestValidate(t *testing.T) {
	ast := assert.New(t)
	ast.NoError((&Layer{ID: "a", SourceLayer: "a", MinZoom: 3, MaxZoom: 3}).Validate())
	ast.Error((&Layer{ID: "a", SourceLayer: "a", MinZoom: 4, MaxZoom: 3}).Validate())
	ast.Error((&Layer{ID: "a", MinZoom: 0, MaxZoom: 3}).Validate())
}

const sheet = `
name: test
layers:
  - id: water
    source: water
    type: fill
    paints:
      - color: "#aad3df"
  - source: roads
    type: line
    minzoom: 6
    maxzoom: 18
    filter:
      class: primary, secondary
    paints:
      - color: "#ffffff"
        width: 4
      - color: "#f7c16b"
        width: 2
  - id: poi
    source: poi
    type: symbol
    enabled: false
    icon: marker
`

func TestParse(t *testing.T) {
	ast := assert.New(t)
	layers, err := Parse([]byte(sheet))
	require.NoError(t, err)
	require.Len(t, layers, 3)

	ast.Equal("water", layers[0].ID)
	ast.Equal(Fill, layers[0].Kind)
	ast.Equal(0, layers[0].MinZoom)
	ast.Equal(24, layers[0].MaxZoom)
	ast.True(layers[0].Enabled)
	ast.Equal(FillMode, layers[0].Paints[0].Mode)

	ast.Equal("roads-line", layers[1].ID)
	ast.Equal(Line, layers[1].Kind)
	ast.Len(layers[1].Paints, 2)
	ast.Equal(StrokeMode, layers[1].Paints[1].Mode)
	ast.Equal(4.0, layers[1].Paints[0].Width)
	ast.True(layers[1].Accepts(road("secondary"), 10))
	ast.False(layers[1].Accepts(road("service"), 10))

	ast.Equal(Symbol, layers[2].Kind)
	ast.False(layers[2].Enabled)
	ast.Equal("marker", layers[2].Icon)
}

func TestParseErrors(t *testing.T) {
	ast := assert.New(t)
	_, err := Parse([]byte("layers:\n  - source: a\n    type: circle\n"))
	ast.Error(err)
	_, err = Parse([]byte("layers:\n  - source: a\n    type: fill\n    minzoom: 10\n    maxzoom: 2\n"))
	ast.Error(err)
	_, err = Parse([]byte("layers: [\n"))
	ast.Error(err)
	_, err = LoadFile("unknown.yaml")
	ast.Error(err)
}
