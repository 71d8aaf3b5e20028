package provider

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/i0tool5/mbtiles-go"

	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/model"
)

type metadata struct {
	Name    string
	Format  string
	Maxzoom int
	Minzoom int
}

// mbtiles store rows in the tms convention
type mbtilesProvider struct {
	log  *logging.Logger
	name string
	db   *mbtiles.MBtiles
	meta metadata
}

func NewMBTilesProvider(name string, config Config) (*mbtilesProvider, error) {
	log := logging.New().WithName(fmt.Sprintf("mbtiles: %s", name))
	db, err := mbtiles.Open(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mbtiles database: %w", err)
	}
	tf := db.GetTileFormat()
	log.Infof("mbtiles format: %s", tf.String())
	meta, err := db.ReadMetadata()
	if err != nil {
		log.Errorf("failed to read mbtiles metadata: %v", err)
	}
	log.Debugf("mbtiles metadata: %+v", meta)
	mbt := &mbtilesProvider{
		log:  log,
		name: name,
		db:   db,
	}
	mbt.meta.Format = tf.String()
	mbt.meta.Maxzoom = 14
	mbt.parseMetadata(meta)
	return mbt, nil
}

func (s *mbtilesProvider) Tile(tile model.Tile) ([]byte, error) {
	var data []byte
	if tile.Z < s.meta.Minzoom || tile.Z > s.meta.Maxzoom {
		return nil, ErrNoTile
	}
	err := s.db.ReadTile(int64(tile.Z), int64(tile.X), int64(tile.Y), &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoTile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tile %d/%d/%d: %w", tile.Z, tile.X, tile.Y, err)
	}
	if len(data) == 0 {
		return nil, ErrNoTile
	}
	return data, nil
}

func (s *mbtilesProvider) Info() Info {
	return Info{
		Name:    s.name,
		Format:  s.meta.Format,
		Axis:    model.TMS,
		MinZoom: s.meta.Minzoom,
		MaxZoom: s.meta.Maxzoom,
	}
}

func (s *mbtilesProvider) Close() error {
	s.db.Close()
	return nil
}

func (s *mbtilesProvider) parseMetadata(meta map[string]any) {
	if name, ok := meta["name"].(string); ok {
		s.meta.Name = name
	}
	if format, ok := meta["format"].(string); ok {
		s.meta.Format = format
	}
	if maxzoom, ok := meta["maxzoom"].(int); ok {
		s.meta.Maxzoom = int(maxzoom)
	}
	if minzoom, ok := meta["minzoom"].(int); ok {
		s.meta.Minzoom = int(minzoom)
	}
}
