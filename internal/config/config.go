package config

import (
	"fmt"
	"os"

	"github.com/samber/do/v2"
	"go.yaml.in/yaml/v3"

	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/provider"
	"github.com/willie68/go_vtrender/internal/utils/measurement"
)

const (
	DefaultPort     = 8580
	DefaultTileSize = 512
)

type Config struct {
	Port       int                `yaml:"port"`
	HealthPort int                `yaml:"healthport"` // 0 serves the health routes below /health on the api port
	TileSize   int                `yaml:"tilesize"`
	Metrics    measurement.Config `yaml:"metrics"`
	Logging    logging.Config     `yaml:"logging"`
	Providers  provider.ConfigMap `yaml:"providers"`
}

var (
	config = Config{
		Port:     DefaultPort,
		TileSize: DefaultTileSize,
	}
)

// Option changes a value of the loaded config
type Option func(c *Config)

// WithPort overwrites the port, 0 keeps the configured port
func WithPort(p int) Option {
	return func(c *Config) {
		if p > 0 {
			c.Port = p
		}
	}
}

func WithTileSize(ts int) Option {
	return func(c *Config) {
		if ts > 0 {
			c.TileSize = ts
		}
	}
}

func SetParameter(opts ...Option) {
	for _, o := range opts {
		o(&config)
	}
}

func Get() *Config {
	return &config
}

func JSON() string {
	js, err := config.JSON()
	if err != nil {
		return ""
	}
	return js
}

// Load loads the config
func Load(file string) error {
	_, err := os.Stat(file)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("can't load config file: %s", err.Error())
	}
	return Parse(data)
}

// Parse replaces the actual config with the yaml data
func Parse(data []byte) error {
	c := Config{
		Port:     DefaultPort,
		TileSize: DefaultTileSize,
	}
	err := yaml.Unmarshal(data, &c)
	if err != nil {
		return fmt.Errorf("can't unmarshal config file: %s", err.Error())
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("invalid tile size %d", c.TileSize)
	}
	config = c
	return nil
}

func Init(inj do.Injector) {
	do.ProvideValue(inj, &config)
	do.ProvideValue(inj, &config.Logging)
	do.ProvideValue(inj, &config.Metrics)

	ver := NewVersion()
	do.ProvideValue(inj, *ver)
}

func (c *Config) GetProviderConfig() provider.ConfigMap {
	return c.Providers
}

func (c *Config) GetPort() int {
	return c.Port
}

func (c *Config) GetHealthPort() int {
	return c.HealthPort
}

func (c *Config) GetTileSize() int {
	return c.TileSize
}

func (c *Config) JSON() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("can't marshal config to json: %s", err.Error())
	}
	return string(data), nil
}
