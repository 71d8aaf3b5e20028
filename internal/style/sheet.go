package style

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/willie68/go_vtrender/internal/model"
	"github.com/willie68/go_vtrender/pkg/extstrgutils"
)

// Sheet is the yaml form of a style
type Sheet struct {
	Name   string       `yaml:"name"`
	Layers []LayerEntry `yaml:"layers"`
}

type LayerEntry struct {
	ID      string            `yaml:"id"`
	Source  string            `yaml:"source"`
	Type    string            `yaml:"type"`
	MinZoom int               `yaml:"minzoom"`
	MaxZoom *int              `yaml:"maxzoom"`
	Enabled *bool             `yaml:"enabled"`
	Filter  map[string]string `yaml:"filter"`
	Icon    string            `yaml:"icon"`
	Paints  []Paint           `yaml:"paints"`
}

// LoadFile reads a style sheet from a yaml file
func LoadFile(file string) ([]*Layer, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("can't load style file: %s", err.Error())
	}
	return Parse(data)
}

// Parse parses a style sheet and returns the layers in order
func Parse(data []byte) ([]*Layer, error) {
	var sheet Sheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("can't unmarshal style: %s", err.Error())
	}
	layers := make([]*Layer, 0, len(sheet.Layers))
	for i, e := range sheet.Layers {
		l, err := e.layer()
		if err != nil {
			return nil, fmt.Errorf("style layer %d: %w", i, err)
		}
		layers = append(layers, l)
	}
	return layers, nil
}

func (e LayerEntry) layer() (*Layer, error) {
	kind, err := ParseKind(e.Type)
	if err != nil {
		return nil, err
	}
	maxZoom := 24
	if e.MaxZoom != nil {
		maxZoom = *e.MaxZoom
	}
	enabled := true
	if e.Enabled != nil {
		enabled = *e.Enabled
	}
	id := e.ID
	if id == "" {
		id = fmt.Sprintf("%s-%s", e.Source, kind)
	}
	l := &Layer{
		ID:          id,
		SourceLayer: e.Source,
		Kind:        kind,
		MinZoom:     e.MinZoom,
		MaxZoom:     maxZoom,
		Enabled:     enabled,
		Filter:      All,
		Paints:      e.Paints,
		Icon:        e.Icon,
	}
	if len(e.Filter) > 0 {
		l.Filter = NewTagFilter(e.Filter)
	}
	for i := range l.Paints {
		if l.Paints[i].Mode == "" {
			l.Paints[i].Mode = defaultMode(kind)
		}
	}
	return l, l.Validate()
}

func defaultMode(k Kind) PaintMode {
	if k == Fill {
		return FillMode
	}
	return StrokeMode
}

// TagFilter accepts features where every key has one of the values, the value * only needs the key
type TagFilter struct {
	keys   []string
	values map[string][]string
}

// NewTagFilter creates the filter, values are given as list separated by white space, comma or semicolon
func NewTagFilter(conds map[string]string) *TagFilter {
	tf := &TagFilter{
		keys:   make([]string, 0, len(conds)),
		values: make(map[string][]string, len(conds)),
	}
	for k, v := range conds {
		tf.keys = append(tf.keys, k)
		tf.values[k] = extstrgutils.SplitUniqueParam(v)
	}
	sort.Strings(tf.keys)
	return tf
}

func (tf *TagFilter) Evaluate(f *model.Feature) bool {
	for _, k := range tf.keys {
		v, ok := f.Tag(k)
		if !ok {
			return false
		}
		if !matchValue(v, tf.values[k]) {
			return false
		}
	}
	return true
}

func matchValue(v string, values []string) bool {
	for _, c := range values {
		if c == "*" || strings.EqualFold(c, v) {
			return true
		}
	}
	return false
}
