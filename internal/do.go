package internal

import (
	"github.com/samber/do/v2"

	"github.com/willie68/go_vtrender/internal/config"
	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/provider"
	"github.com/willie68/go_vtrender/internal/shttp"
	"github.com/willie68/go_vtrender/internal/tiles"
	"github.com/willie68/go_vtrender/internal/utils/measurement"
)

// Init creates all services, the config has to be loaded before
func Init(inj do.Injector) {
	config.Init(inj)
	logging.Init(inj)
	measurement.Init(inj)
	provider.Init(inj)
	tiles.Init(inj)
	shttp.Init(inj)
}

type closer interface {
	Providers() []string
	Close() error
}

// Stop releases the resources of the providers and the log sinks
func Stop(inj do.Injector) {
	pf, err := do.InvokeAs[closer](inj)
	if err == nil {
		if err := pf.Close(); err != nil {
			logging.New().WithName("internal").Errorf("error on close providers: %v", err)
		}
	}
	logging.Close()
}
