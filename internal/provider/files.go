package provider

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/willie68/go_vtrender/internal/logging"
	"github.com/willie68/go_vtrender/internal/model"
	"github.com/willie68/go_vtrender/pkg/fileutils"
)

// filesProvider reads tiles from a directory tree path/z/x/y.ext
type filesProvider struct {
	log    *logging.Logger
	name   string
	path   string
	ext    string
	axis   model.Axis
	config Config
}

func NewFilesProvider(name string, config Config) (*filesProvider, error) {
	if !fileutils.IsDir(config.Path) {
		return nil, fmt.Errorf("tile directory %s doesn't exists", config.Path)
	}
	axis, err := model.ParseAxis(config.Axis)
	if err != nil {
		return nil, err
	}
	ext := strings.TrimPrefix(config.Ext, ".")
	if ext == "" {
		ext = "pbf"
	}
	if config.MaxZoom == 0 {
		minZoom, maxZoom, err := zoomLevels(config.Path)
		if err != nil {
			return nil, err
		}
		config.MinZoom, config.MaxZoom = minZoom, maxZoom
	}
	return &filesProvider{
		log:    logging.New().WithName(fmt.Sprintf("files: %s", name)),
		name:   name,
		path:   config.Path,
		ext:    ext,
		axis:   axis,
		config: config,
	}, nil
}

func (s *filesProvider) Tile(tile model.Tile) ([]byte, error) {
	fn := s.getFilename(tile)
	data, err := os.ReadFile(fn)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoTile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tile file %s: %w", fn, err)
	}
	if len(data) == 0 {
		return nil, ErrNoTile
	}
	return data, nil
}

func (s *filesProvider) Info() Info {
	return Info{
		Name:    s.name,
		Format:  s.ext,
		Axis:    s.axis,
		MinZoom: s.config.MinZoom,
		MaxZoom: s.config.MaxZoom,
	}
}

func (s *filesProvider) getFilename(tile model.Tile) string {
	return filepath.Join(s.path, strconv.Itoa(tile.Z), strconv.Itoa(tile.X), fmt.Sprintf("%d.%s", tile.Y, s.ext))
}

// zoom levels are the numeric sub directories of the tile directory
func zoomLevels(path string) (int, int, error) {
	minZoom, maxZoom := -1, 0
	err := fileutils.GetFiles(path, "", func(fi fs.DirEntry) bool {
		if !fi.IsDir() {
			return true
		}
		z, err := strconv.Atoi(fi.Name())
		if err != nil || z < 0 {
			return true
		}
		if minZoom < 0 || z < minZoom {
			minZoom = z
		}
		maxZoom = max(maxZoom, z)
		return true
	})
	if err != nil {
		return 0, 0, fmt.Errorf("can't read tile directory %s: %w", path, err)
	}
	return max(minZoom, 0), maxZoom, nil
}
