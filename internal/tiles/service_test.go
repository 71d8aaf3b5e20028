package tiles

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willie68/go_vtrender/internal/model"
	"github.com/willie68/go_vtrender/internal/provider"
	"github.com/willie68/go_vtrender/internal/render"
	"github.com/willie68/go_vtrender/internal/resolution"
	"github.com/willie68/go_vtrender/internal/testdata"
	"github.com/willie68/go_vtrender/internal/utils/measurement"
)

const tileSize = 512

var dataTile = model.Tile{Provider: "osm", Z: 14, X: 8000, Y: 6000}

func newService(t *testing.T, axis model.Axis, cfg provider.Config) (*Service, *provider.Memory) {
	m := provider.NewMemory("osm", axis)
	m.Put(axis.Normalize(dataTile), testdata.Basic().MVT())
	s := New(tileSize, measurement.New(true))
	require.NoError(t, s.Add("osm", m, cfg))
	return s, m
}

func layerPaths(b *render.Bundle, layer string) []render.PathPaint {
	pps := make([]render.PathPaint, 0)
	for _, pp := range b.Paths {
		if pp.Layer == layer {
			pps = append(pps, pp)
		}
	}
	return pps
}

func TestRenderExactTile(t *testing.T) {
	ast := assert.New(t)
	s, _ := newService(t, model.XYZ, provider.Config{})
	ast.True(s.HasProvider("osm"))
	ast.Equal([]string{"osm"}, s.Providers())

	b, err := s.Render(dataTile)
	require.NoError(t, err)
	ast.Equal(tileSize, b.TileSize)
	ast.Equal(14, b.Zoom)
	ast.Equal(0, b.OverzoomExponent)

	// embedded style: building fill and outline, one minor road, the major road with casing
	ast.Len(layerPaths(b, "buildings"), 2)
	ast.Len(layerPaths(b, "roads-minor"), 1)
	ast.Len(layerPaths(b, "roads-major"), 2)
	ast.Len(b.Paths, 5)
	ast.Equal("buildings", b.Paths[0].Layer)

	require.Len(t, b.Symbols, 1)
	require.Len(t, b.Symbols[0], 2)
	ast.Equal("marker", b.Symbols[0][0].Icon)
	ast.InDelta(125, b.Symbols[0][0].Point[0], 1e-9)

	data := s.metrics.Point("renderTile").Data()
	ast.Equal(1, data.Count)
	ast.Equal(1, s.metrics.Point("resolve").Data().Count)
}

func TestRenderOverzoom(t *testing.T) {
	ast := assert.New(t)
	s, m := newService(t, model.XYZ, provider.Config{})
	// south east quadrant of the data tile
	tile := model.Tile{Provider: "osm", Z: 15, X: 16001, Y: 12001}
	b, err := s.Render(tile)
	require.NoError(t, err)
	ast.Equal(1, b.OverzoomExponent)
	ast.Equal(15, b.Zoom)
	ast.Equal(1, m.Lookups(tile))
	ast.Equal(1, m.Lookups(dataTile))

	buildings := layerPaths(b, "buildings")
	require.Len(t, buildings, 2)
	ast.True(buildings[0].Path.Contains(orb.Point{100, 100}))
	ast.False(buildings[0].Path.Contains(orb.Point{300, 300}))
	// both pois lie in the other quadrants
	ast.Empty(b.Symbols)
}

func TestRenderAxisConventions(t *testing.T) {
	ast := assert.New(t)
	xyz, _ := newService(t, model.XYZ, provider.Config{})
	tms, _ := newService(t, model.TMS, provider.Config{})
	for _, tile := range []model.Tile{
		dataTile,
		{Provider: "osm", Z: 15, X: 16001, Y: 12001},
		{Provider: "osm", Z: 17, X: 64003, Y: 48002},
	} {
		b1, err1 := xyz.Render(tile)
		b2, err2 := tms.Render(tile)
		ast.Equal(err1, err2)
		ast.Equal(b1, b2, "tile %s", tile.String())
	}
}

func TestRenderNoContent(t *testing.T) {
	ast := assert.New(t)
	s, _ := newService(t, model.XYZ, provider.Config{MaxZoom: 16})
	src, ok := s.Source("osm")
	require.True(t, ok)

	tt := []struct {
		name string
		tile model.Tile
	}{
		{name: "no data", tile: model.Tile{Provider: "osm", Z: 14, X: 1, Y: 1}},
		{name: "above window", tile: model.Tile{Provider: "osm", Z: 18, X: 64000, Y: 48000}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			b, state, err := src.Render(tc.tile)
			ast.ErrorIs(err, ErrNoContent)
			ast.Nil(b)
			ast.Equal(NoContent, state)
		})
	}

	// the tile exists but has no features
	m := provider.NewMemory("empty", model.XYZ)
	m.Put(model.Tile{Z: 0}, testdata.Layers{"poi": {}}.MVT())
	require.NoError(t, s.Add("empty", m, provider.Config{}))
	_, err := s.Render(model.Tile{Provider: "empty", Z: 2, X: 1, Y: 1})
	ast.ErrorIs(err, ErrNoContent)
}

func TestRenderErrors(t *testing.T) {
	ast := assert.New(t)
	s, m := newService(t, model.XYZ, provider.Config{})

	_, err := s.Render(model.Tile{Provider: "unknown", Z: 1})
	ast.ErrorIs(err, provider.ErrNotFound)

	_, err = s.Render(model.Tile{Provider: "osm", Z: 3, X: 8, Y: 0})
	ast.ErrorIs(err, ErrInvalidTile)

	corrupt := model.Tile{Provider: "osm", Z: 10, X: 1, Y: 1}
	m.Put(corrupt, []byte{0x1f, 0x8b, 0x08, 0x00, 0x01})
	src, _ := s.Source("osm")
	_, state, err := src.Render(corrupt)
	ast.Error(err)
	ast.NotErrorIs(err, ErrNoContent)
	ast.Equal(Decoding, state)
	ast.Equal(1, s.metrics.Point("decode").Data().Count)
}

func TestSetWindow(t *testing.T) {
	ast := assert.New(t)
	s, _ := newService(t, model.XYZ, provider.Config{})
	tile := model.Tile{Provider: "osm", Z: 15, X: 16001, Y: 12001}
	_, err := s.Render(tile)
	ast.NoError(err)

	snap, err := s.SetWindow("osm", 0, 14)
	require.NoError(t, err)
	ast.Equal(uint64(2), snap.Version)
	_, err = s.Render(tile)
	ast.ErrorIs(err, ErrNoContent)

	_, err = s.SetWindow("osm", 10, 5)
	ast.ErrorIs(err, resolution.ErrInvalidWindow)
	_, err = s.SetWindow("unknown", 0, 5)
	ast.ErrorIs(err, provider.ErrNotFound)
	ast.Equal(uint64(2), s.sources["osm"].Table().Snapshot().Version)
}

func TestConcurrentRender(t *testing.T) {
	ast := assert.New(t)
	s, _ := newService(t, model.XYZ, provider.Config{})
	tile := model.Tile{Provider: "osm", Z: 16, X: 32002, Y: 24002}
	want, err := s.Render(tile)
	require.NoError(t, err)

	wg := sync.WaitGroup{}
	results := make(chan error, 64)
	for i := range 64 {
		wg.Go(func() {
			if i%8 == 0 {
				_, err := s.SetWindow("osm", 0, 15+(i/8)%2)
				results <- err
				return
			}
			b, err := s.Render(tile)
			if err == nil && !assert.ObjectsAreEqual(want, b) {
				err = assert.AnError
			}
			if errors.Is(err, ErrNoContent) {
				err = nil
			}
			results <- err
		})
	}
	wg.Wait()
	close(results)
	for err := range results {
		ast.NoError(err)
	}
}

func TestCustomStyle(t *testing.T) {
	ast := assert.New(t)
	fn := filepath.Join(t.TempDir(), "style.yaml")
	require.NoError(t, os.WriteFile(fn, []byte(`
layers:
  - id: houses
    source: buildings
    type: fill
    paints:
      - color: "#ff0000"
`), 0o644))
	s, _ := newService(t, model.XYZ, provider.Config{Style: fn})
	b, err := s.Render(dataTile)
	require.NoError(t, err)
	require.Len(t, b.Paths, 1)
	ast.Equal("houses", b.Paths[0].Layer)
	ast.Equal("#ff0000", b.Paths[0].Paint.Color)
	ast.Empty(b.Symbols)

	m := provider.NewMemory("osm", model.XYZ)
	ast.Error(New(tileSize, nil).Add("broken", m, provider.Config{Style: filepath.Join(t.TempDir(), "missing.yaml")}))
	ast.Error(New(tileSize, nil).Add("broken", m, provider.Config{MinZoom: 10, MaxZoom: 5}))
}

type testConfig struct {
	providers provider.ConfigMap
}

func (c *testConfig) GetProviderConfig() provider.ConfigMap {
	return c.providers
}

func (c *testConfig) GetTileSize() int {
	return 256
}

func TestInit(t *testing.T) {
	ast := assert.New(t)
	inj := do.New()
	do.ProvideValue(inj, &testConfig{providers: provider.ConfigMap{
		"osm": {Type: "memory", MaxZoom: 18},
	}})
	measurement.Init(inj)
	provider.Init(inj)
	Init(inj)

	s := do.MustInvoke[*Service](inj)
	ast.True(s.HasProvider("osm"))
	ast.False(s.HasProvider("wms"))
	ast.Equal(256, s.TileSize())

	m, ok := do.MustInvokeNamed[provider.Service](inj, "osm").(*provider.Memory)
	require.True(t, ok)
	m.Put(dataTile, testdata.Basic().MVT())
	b, err := s.Render(dataTile)
	require.NoError(t, err)
	ast.Equal(256, b.TileSize)
	_, err = s.Render(model.Tile{Provider: "osm", Z: 19})
	ast.ErrorIs(err, ErrNoContent)
}
