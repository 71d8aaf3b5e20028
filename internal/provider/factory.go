package provider

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/do/v2"
	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/model"
)

// Service is the keyed lookup of raw tile bytes, the tile is given in the axis convention of the provider.
// A missing tile is reported with ErrNoTile.
type Service interface {
	Tile(tile model.Tile) ([]byte, error)
	Info() Info
}

// Info describes the data of a provider
type Info struct {
	Name    string
	Format  string
	Axis    model.Axis
	MinZoom int
	MaxZoom int
}

type ConfigMap map[string]Config

type Config struct {
	Type    string `yaml:"type"` // mbtiles, badger, files, memory
	Path    string `yaml:"path"` // for file based providers
	Axis    string `yaml:"axis"` // xyz or tms, mbtiles are always tms
	Ext     string `yaml:"ext"`  // file extension for the files provider
	MinZoom int    `yaml:"minzoom"`
	MaxZoom int    `yaml:"maxzoom"` // visible window, tiles beyond the data will be overzoomed
	Style   string `yaml:"style"`
	Buffer  int    `yaml:"buffer"` // pixel buffer around the tile kept by the decoder
}

type pFactory struct {
	log      *logging.Logger
	configs  ConfigMap
	services []string
	inj      do.Injector
}

var (
	ErrNotFound = errors.New("provider not found")
	ErrNoTile   = errors.New("tile not found")
)

type providerConfig interface {
	GetProviderConfig() ConfigMap
}

func Init(inj do.Injector) {
	sf := pFactory{
		log:      logging.New().WithName("factory"),
		configs:  do.MustInvokeAs[providerConfig](inj).GetProviderConfig(),
		services: make([]string, 0),
		inj:      inj,
	}
	do.ProvideValue(inj, &sf)
	for sname, config := range sf.configs {
		s, err := New(sname, config)
		if err != nil {
			panic(fmt.Sprintf("can't create provider %s: %v", sname, err))
		}
		do.ProvideNamedValue(inj, sname, s)
		sf.services = append(sf.services, sname)
	}
	sort.Strings(sf.services)
}

// New creates the provider for the config
func New(name string, config Config) (Service, error) {
	switch config.Type {
	case "mbtiles":
		return NewMBTilesProvider(name, config)
	case "badger":
		return NewBadgerProvider(name, config)
	case "files":
		return NewFilesProvider(name, config)
	case "memory":
		axis, err := model.ParseAxis(config.Axis)
		if err != nil {
			return nil, err
		}
		return NewMemory(name, axis), nil
	}
	return nil, fmt.Errorf("unknown provider type: %s", config.Type)
}

func (f *pFactory) HasProvider(providerName string) bool {
	_, ok := f.configs[providerName]
	return ok
}

func (f *pFactory) Providers() []string {
	return f.services
}

func (f *pFactory) Config(providerName string) (Config, bool) {
	config, ok := f.configs[providerName]
	return config, ok
}

// Service returns the named provider from the injector
func (f *pFactory) Service(providerName string) (Service, error) {
	if !f.HasProvider(providerName) {
		return nil, ErrNotFound
	}
	return do.InvokeNamed[Service](f.inj, providerName)
}

// Close closes all providers holding resources
func (f *pFactory) Close() error {
	var errs []error
	for _, name := range f.services {
		s, err := do.InvokeNamed[Service](f.inj, name)
		if err != nil {
			continue
		}
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				f.log.Errorf("error closing provider %s: %v", name, err)
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
