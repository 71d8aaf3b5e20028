package tiles

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/do/v2"

	"github.com/willie68/go_vtrender/configs"
	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/model"
	"github.com/willie68/go_vtrender/internal/provider"
	"github.com/willie68/go_vtrender/internal/render"
	"github.com/willie68/go_vtrender/internal/resolution"
	"github.com/willie68/go_vtrender/internal/source"
	"github.com/willie68/go_vtrender/internal/style"
	"github.com/willie68/go_vtrender/internal/utils/measurement"
)

// DefaultMaxZoom is the upper end of the visible window if the provider config has none
const DefaultMaxZoom = 22

var (
	// ErrNoContent there is nothing to draw for the tile, this is not a failure
	ErrNoContent = errors.New("no content")
	// ErrInvalidTile the coordinates are outside of the tile grid
	ErrInvalidTile = errors.New("invalid tile coordinates")
)

type providerFactory interface {
	Providers() []string
	Config(providerName string) (provider.Config, bool)
	Service(providerName string) (provider.Service, error)
}

type tileSizer interface {
	GetTileSize() int
}

// Service renders the tiles of all configured providers
type Service struct {
	log      *logging.Logger
	metrics  *measurement.Service
	tileSize int
	slock    sync.RWMutex
	sources  map[string]*Source
}

func Init(inj do.Injector) {
	s := New(do.MustInvokeAs[tileSizer](inj).GetTileSize(), do.MustInvoke[*measurement.Service](inj))
	pf := do.MustInvokeAs[providerFactory](inj)
	for _, name := range pf.Providers() {
		ps, err := pf.Service(name)
		if err != nil {
			panic(fmt.Sprintf("can't get provider %s: %v", name, err))
		}
		cfg, _ := pf.Config(name)
		if err := s.Add(name, ps, cfg); err != nil {
			panic(fmt.Sprintf("can't create tile source %s: %v", name, err))
		}
	}
	do.ProvideValue(inj, s)
}

func New(tileSize int, metrics *measurement.Service) *Service {
	if metrics == nil {
		metrics = measurement.New(false)
	}
	return &Service{
		log:      logging.New().WithName("tiles"),
		metrics:  metrics,
		tileSize: tileSize,
		sources:  make(map[string]*Source),
	}
}

// Add creates the tile source of a provider, the style is loaded from the configured file or the embedded default
func (s *Service) Add(name string, ps provider.Service, cfg provider.Config) error {
	layers, err := loadStyle(cfg.Style)
	if err != nil {
		return err
	}
	maxZoom := cfg.MaxZoom
	if maxZoom == 0 {
		maxZoom = DefaultMaxZoom
	}
	table, err := resolution.New(s.tileSize, cfg.MinZoom, maxZoom)
	if err != nil {
		return err
	}
	src := NewSource(name, ps, table, source.New(s.tileSize, cfg.Buffer), layers)
	src.metrics = s.metrics
	s.slock.Lock()
	defer s.slock.Unlock()
	s.sources[name] = src
	s.log.Infof("tile source %s: axis %s, zoom %d - %d, %d style layers", name, src.axis.Name(), cfg.MinZoom, maxZoom, len(layers))
	return nil
}

func loadStyle(file string) ([]*style.Layer, error) {
	if file == "" {
		return style.Parse(configs.StyleFile)
	}
	return style.LoadFile(file)
}

func (s *Service) HasProvider(providerName string) bool {
	_, ok := s.Source(providerName)
	return ok
}

// Providers returns the names of all tile sources sorted
func (s *Service) Providers() []string {
	s.slock.RLock()
	defer s.slock.RUnlock()
	names := make([]string, 0, len(s.sources))
	for n := range s.sources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Service) Source(providerName string) (*Source, bool) {
	s.slock.RLock()
	defer s.slock.RUnlock()
	src, ok := s.sources[providerName]
	return src, ok
}

func (s *Service) TileSize() int {
	return s.tileSize
}

// Render renders the tile, rows are given north up. ErrNoContent if there is nothing to draw.
func (s *Service) Render(tile model.Tile) (*render.Bundle, error) {
	src, ok := s.Source(tile.Provider)
	if !ok {
		return nil, provider.ErrNotFound
	}
	td := s.metrics.Start("renderTile")
	defer td.Stop()
	b, state, err := src.Render(tile)
	if err != nil && !errors.Is(err, ErrNoContent) {
		td.SetError()
		s.log.Errorf("error rendering tile %s: %v", tile.String(), err)
		return nil, err
	}
	s.log.Debugf("tile %s: %s", tile.String(), state)
	return b, err
}

// SetWindow changes the visible zoom window of the provider
func (s *Service) SetWindow(providerName string, minZoom, maxZoom int) (*resolution.Snapshot, error) {
	src, ok := s.Source(providerName)
	if !ok {
		return nil, provider.ErrNotFound
	}
	snap, err := src.table.SetWindow(minZoom, maxZoom)
	if err != nil {
		return nil, err
	}
	s.log.Infof("tile source %s: new window %d - %d, version %d", providerName, minZoom, maxZoom, snap.Version)
	return snap, nil
}
