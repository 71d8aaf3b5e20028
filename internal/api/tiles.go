package api

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/samber/do/v2"

	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/model"
	"github.com/willie68/go_vtrender/internal/provider"
	rdr "github.com/willie68/go_vtrender/internal/render"
	"github.com/willie68/go_vtrender/internal/resolution"
	"github.com/willie68/go_vtrender/internal/style"
	"github.com/willie68/go_vtrender/internal/tiles"
	"github.com/willie68/go_vtrender/internal/utils/measurement"
)

type tileService interface {
	HasProvider(providerName string) bool
	Providers() []string
	TileSize() int
	Render(tile model.Tile) (*rdr.Bundle, error)
	SetWindow(providerName string, minZoom, maxZoom int) (*resolution.Snapshot, error)
	Source(providerName string) (*tiles.Source, bool)
}

// Window is the body of the window update
type Window struct {
	MinZoom int `json:"minzoom"`
	MaxZoom int `json:"maxzoom"`
}

// ProviderInfo describes a tile source
type ProviderInfo struct {
	Name     string               `json:"name"`
	TileSize int                  `json:"tileSize"`
	Window   *resolution.Snapshot `json:"window"`
	Layers   []LayerInfo          `json:"layers"`
}

type LayerInfo struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Kind    string `json:"kind"`
	MinZoom int    `json:"minzoom"`
	MaxZoom int    `json:"maxzoom"`
	Enabled bool   `json:"enabled"`
}

type VTHandler struct {
	log     *logging.Logger
	tiles   tileService
	metrics *measurement.Service
}

func NewVTHandler(inj do.Injector) *VTHandler {
	return &VTHandler{
		log:     logging.New().WithName("api"),
		tiles:   do.MustInvokeAs[tileService](inj),
		metrics: do.MustInvoke[*measurement.Service](inj),
	}
}

// Routes registers the tile routes on the router
func (h *VTHandler) Routes(router chi.Router) {
	router.Get("/", h.GetProvidersHandler)
	router.Get("/{provider}", h.GetProviderHandler)
	router.Put("/{provider}/window", h.PutWindowHandler)
	router.Get("/{provider}/vt/{z}/{x}/{y}.json", h.GetBundleHandler)
	router.Get("/{provider}/vt/{z}/{x}/{y}.png", h.GetMaskHandler)
}

func (h *VTHandler) GetProvidersHandler(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.tiles.Providers())
}

func (h *VTHandler) GetProviderHandler(w http.ResponseWriter, r *http.Request) {
	src, ok := h.tiles.Source(chi.URLParam(r, "provider"))
	if !ok {
		http.Error(w, "unknown provider", http.StatusNotFound)
		return
	}
	info := ProviderInfo{
		Name:     src.Name(),
		TileSize: h.tiles.TileSize(),
		Window:   src.Table().Snapshot(),
		Layers:   make([]LayerInfo, 0, len(src.Layers())),
	}
	for _, l := range src.Layers() {
		info.Layers = append(info.Layers, layerInfo(l))
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, info)
}

func layerInfo(l *style.Layer) LayerInfo {
	return LayerInfo{
		ID:      l.ID,
		Source:  l.SourceLayer,
		Kind:    l.Kind.String(),
		MinZoom: l.MinZoom,
		MaxZoom: l.MaxZoom,
		Enabled: l.Enabled,
	}
}

func (h *VTHandler) PutWindowHandler(w http.ResponseWriter, r *http.Request) {
	var win Window
	if err := render.DecodeJSON(r.Body, &win); err != nil {
		http.Error(w, fmt.Sprintf("invalid window: %s", err.Error()), http.StatusBadRequest)
		return
	}
	snap, err := h.tiles.SetWindow(chi.URLParam(r, "provider"), win.MinZoom, win.MaxZoom)
	switch {
	case errors.Is(err, provider.ErrNotFound):
		http.Error(w, "unknown provider", http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, snap)
}

// GetBundleHandler renders the tile as json bundle
func (h *VTHandler) GetBundleHandler(w http.ResponseWriter, r *http.Request) {
	td := h.metrics.Start("getBundle")
	defer td.Stop()

	b, ok := h.bundle(w, r)
	if !ok {
		td.SetError()
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, b)
}

// GetMaskHandler renders the coverage of all fill paints as alpha png
func (h *VTHandler) GetMaskHandler(w http.ResponseWriter, r *http.Request) {
	td := h.metrics.Start("getMask")
	defer td.Stop()

	b, ok := h.bundle(w, r)
	if !ok {
		td.SetError()
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, coverage(b)); err != nil {
		h.log.Errorf("error encoding png: %v", err)
	}
}

func coverage(b *rdr.Bundle) *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, b.TileSize, b.TileSize))
	for _, pp := range b.Paths {
		if pp.Paint.Mode != style.FillMode {
			continue
		}
		mask := pp.Path.Mask(b.TileSize)
		for i, a := range mask.Pix {
			img.Pix[i] = max(img.Pix[i], a)
		}
	}
	return img
}

// bundle writes the error response if there is no bundle
func (h *VTHandler) bundle(w http.ResponseWriter, r *http.Request) (*rdr.Bundle, bool) {
	// URL: /{provider}/vt/{z}/{x}/{y}.json
	h.log.Debugf("path: %s", r.URL.Path)
	tile, err := h.getRequestParameter(r)
	if errors.Is(err, provider.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Path error: %s", err.Error()), http.StatusBadRequest)
		return nil, false
	}
	b, err := h.tiles.Render(tile)
	if errors.Is(err, tiles.ErrNoContent) {
		w.WriteHeader(http.StatusNoContent)
		return nil, false
	}
	if err != nil {
		h.log.Errorf("System error: %v", err)
		http.Error(w, fmt.Sprintf("System error: %s", err.Error()), http.StatusInternalServerError)
		return nil, false
	}
	return b, true
}

func (h *VTHandler) getRequestParameter(r *http.Request) (tile model.Tile, err error) {
	tile.Provider = chi.URLParam(r, "provider")
	zs := chi.URLParam(r, "z")
	xs := chi.URLParam(r, "x")
	ys := strings.TrimSuffix(chi.URLParam(r, "y"), filepath.Ext(chi.URLParam(r, "y")))

	tile.Z, err = strconv.Atoi(zs)
	if err != nil {
		return tile, errors.New("error in zoom level")
	}
	tile.X, err = strconv.Atoi(xs)
	if err != nil {
		return tile, errors.New("error in x axis")
	}
	tile.Y, err = strconv.Atoi(ys)
	if err != nil {
		return tile, errors.New("error in y axis")
	}

	if !h.tiles.HasProvider(tile.Provider) {
		return tile, provider.ErrNotFound
	}
	if !tile.IsValid() {
		return tile, errors.New("invalid tile coordinates")
	}
	return tile, nil
}
