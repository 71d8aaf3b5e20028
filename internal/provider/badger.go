package provider

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/model"
)

// BadgerProvider holds the tiles in a badger key value store, the key is z/x/y with the row in the configured axis
type BadgerProvider struct {
	log    *logging.Logger
	name   string
	db     *badger.DB
	axis   model.Axis
	config Config
}

func NewBadgerProvider(name string, config Config) (*BadgerProvider, error) {
	axis, err := model.ParseAxis(config.Axis)
	if err != nil {
		return nil, err
	}
	opts := badger.DefaultOptions(config.Path).WithLogger(nil)
	if config.Path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &BadgerProvider{
		log:    logging.New().WithName(fmt.Sprintf("badger: %s", name)),
		name:   name,
		db:     db,
		axis:   axis,
		config: config,
	}, nil
}

func (s *BadgerProvider) Tile(tile model.Tile) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tileKey(tile))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
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

// Save stores the tile data, the tile is given in the axis of this provider
func (s *BadgerProvider) Save(tile model.Tile, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tileKey(tile), data)
	})
}

func (s *BadgerProvider) Info() Info {
	return Info{
		Name:    s.name,
		Format:  "pbf",
		Axis:    s.axis,
		MinZoom: s.config.MinZoom,
		MaxZoom: s.config.MaxZoom,
	}
}

func (s *BadgerProvider) Close() error {
	return s.db.Close()
}

func tileKey(tile model.Tile) []byte {
	return []byte(fmt.Sprintf("%d/%d/%d", tile.Z, tile.X, tile.Y))
}
