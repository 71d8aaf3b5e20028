package internal

import (
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willie68/go_vtrender/internal/config"
	"github.com/willie68/go_vtrender/internal/model"
	"github.com/willie68/go_vtrender/internal/shttp"
	"github.com/willie68/go_vtrender/internal/tiles"
	"github.com/willie68/go_vtrender/internal/utils/measurement"
)

func TestInit(t *testing.T) {
	ast := assert.New(t)
	require.NoError(t, config.Parse([]byte(`
port: 8590
tilesize: 256
metrics:
  active: true
providers:
  mem:
    type: memory
    maxzoom: 16
  store:
    type: badger
    axis: tms
`)))
	inj := do.New()
	Init(inj)
	defer Stop(inj)

	ts := do.MustInvoke[*tiles.Service](inj)
	ast.Equal([]string{"mem", "store"}, ts.Providers())
	ast.Equal(256, ts.TileSize())
	_, err := ts.Render(model.Tile{Provider: "mem", Z: 3, X: 1, Y: 1})
	ast.ErrorIs(err, tiles.ErrNoContent)

	ast.NotNil(do.MustInvoke[*shttp.SHttp](inj))
	ast.NotEmpty(do.MustInvoke[*measurement.Service](inj).Datas())
}
