package model

import (
	"fmt"

	"github.com/paulmach/orb"
)

type GeometryKind int

const (
	Point GeometryKind = iota
	LineString
	MultiLineString
	Polygon
	MultiPolygon
)

var geometryKinds = []string{"Point", "LineString", "MultiLineString", "Polygon", "MultiPolygon"}

// GeometryKinds lists all kinds a decoded feature can have
func GeometryKinds() []GeometryKind {
	return []GeometryKind{Point, LineString, MultiLineString, Polygon, MultiPolygon}
}

func (k GeometryKind) String() string {
	if k < 0 || int(k) >= len(geometryKinds) {
		return fmt.Sprintf("GeometryKind(%d)", int(k))
	}
	return geometryKinds[k]
}

// KindOf returns the kind of the orb geometry, false for geometries not supported by the renderer
func KindOf(g orb.Geometry) (GeometryKind, bool) {
	switch g.(type) {
	case orb.Point:
		return Point, true
	case orb.LineString:
		return LineString, true
	case orb.MultiLineString:
		return MultiLineString, true
	case orb.Polygon:
		return Polygon, true
	case orb.MultiPolygon:
		return MultiPolygon, true
	}
	return 0, false
}

// Feature is a decoded feature, coordinates are in the pixel space of the requested tile
type Feature struct {
	ID          any
	SourceLayer string
	Kind        GeometryKind
	Geometry    orb.Geometry
	Tags        map[string]any
}

// Tag returns the tag value as string
func (f *Feature) Tag(key string) (string, bool) {
	v, ok := f.Tags[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprintf("%v", v), true
}
