package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/samber/do/v2"

	"github.com/willie68/go_vtrender/internal/config"
	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/utils/measurement"
)

const (
	// APIVersion the actual implemented api version
	APIVersion = "1"
	// MetricsPath prefix of the measurement routes
	MetricsPath = "/metrics"
)

var logger = logging.New().WithName("api")

// APIRoutes creates the router of the tile api
func APIRoutes(inj do.Injector) (*chi.Mux, error) {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	)
	router.Mount(MetricsPath, measurement.Routes(inj))
	NewVTHandler(inj).Routes(router)
	for _, route := range router.Routes() {
		logger.Debugf("api route: %s", route.Pattern)
	}
	return router, nil
}

// HealthRoutes returns the routes for the liveness and readiness probes
func HealthRoutes(inj do.Injector) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/livez", func(w http.ResponseWriter, r *http.Request) {
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		vt, err := do.InvokeAs[tileService](inj)
		if err != nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]string{"status": "tile service not ready"})
			return
		}
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]any{"status": "ok", "providers": vt.Providers()})
	})
	router.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		ver, err := do.Invoke[config.Version](inj)
		if err != nil {
			ver = *config.NewVersion()
		}
		render.Status(r, http.StatusOK)
		render.JSON(w, r, ver)
	})
	return router
}
