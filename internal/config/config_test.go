package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willie68/go_vtrender/configs"
	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/utils/measurement"
)

func TestDefaultConfig(t *testing.T) {
	ast := assert.New(t)
	require.NoError(t, Parse([]byte(configs.ConfigFile)))

	c := Get()
	ast.Equal(8580, c.Port)
	ast.Equal(512, c.TileSize)
	ast.True(c.Metrics.Active)
	ast.Equal("info", c.Logging.Level)
	require.Contains(t, c.Providers, "osm")
	ast.Equal("mbtiles", c.Providers["osm"].Type)
	ast.Equal(20, c.Providers["osm"].MaxZoom)
	ast.Equal(8, c.Providers["osm"].Buffer)
	ast.Equal("xyz", c.Providers["contours"].Axis)
	ast.Equal(c.Providers, c.GetProviderConfig())
}

func TestLoad(t *testing.T) {
	ast := assert.New(t)
	fn := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("providers:\n  mem:\n    type: memory\n"), 0o644))
	require.NoError(t, Load(fn))
	ast.Equal(DefaultPort, Get().Port)
	ast.Equal(DefaultTileSize, Get().GetTileSize())
	ast.Equal("memory", Get().Providers["mem"].Type)

	ast.Error(Load(filepath.Join(t.TempDir(), "missing.yaml")))
	ast.Error(Parse([]byte("port: [")))
	ast.Error(Parse([]byte("tilesize: -1")))
}

func TestSetParameter(t *testing.T) {
	ast := assert.New(t)
	require.NoError(t, Parse([]byte("port: 9000")))
	SetParameter(WithPort(0), WithTileSize(0))
	ast.Equal(9000, Get().Port)
	ast.Equal(DefaultTileSize, Get().TileSize)
	SetParameter(WithPort(8000), WithTileSize(256))
	ast.Equal(8000, Get().Port)
	ast.Equal(256, Get().TileSize)
	ast.Contains(JSON(), "port: 8000")
}

func TestInit(t *testing.T) {
	ast := assert.New(t)
	require.NoError(t, Parse([]byte("logging:\n  level: debug\nmetrics:\n  active: true\n")))
	inj := do.New()
	Init(inj)
	ast.Equal("debug", do.MustInvoke[*logging.Config](inj).Level)
	ast.True(do.MustInvoke[*measurement.Config](inj).Active)
	ast.Same(Get(), do.MustInvoke[*Config](inj))
	ast.NotEmpty(do.MustInvoke[Version](inj).Version)
}
