// Package testdata builds vector tiles for the tests of the rendering pipeline.
package testdata

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/mvt"
	"github.com/paulmach/orb/geojson"
)

// Layers maps a source layer name to its features, geometries in native tile units
type Layers map[string][]*geojson.Feature

// Feature creates a feature with string tags given as key, value pairs
func Feature(g orb.Geometry, kv ...string) *geojson.Feature {
	f := geojson.NewFeature(g)
	for i := 0; i+1 < len(kv); i += 2 {
		f.Properties[kv[i]] = kv[i+1]
	}
	return f
}

func (l Layers) collections() map[string]*geojson.FeatureCollection {
	fcs := make(map[string]*geojson.FeatureCollection, len(l))
	for name, fs := range l {
		fc := geojson.NewFeatureCollection()
		for _, f := range fs {
			fc.Append(f)
		}
		fcs[name] = fc
	}
	return fcs
}

func (l Layers) layers() mvt.Layers {
	ls := mvt.NewLayers(l.collections())
	// stable layer order for reproducible tiles
	sort.Slice(ls, func(i, j int) bool { return ls[i].Name < ls[j].Name })
	return ls
}

// MVT encodes the layers as uncompressed vector tile
func (l Layers) MVT() []byte {
	data, err := mvt.Marshal(l.layers())
	if err != nil {
		panic(err)
	}
	return data
}

// Gzipped encodes the layers as gzip compressed vector tile
func (l Layers) Gzipped() []byte {
	data, err := mvt.MarshalGzipped(l.layers())
	if err != nil {
		panic(err)
	}
	return data
}

// Basic is a small tile with a road, a building with a courtyard and a poi
func Basic() Layers {
	return Layers{
		"roads": {
			Feature(orb.LineString{{0, 2048}, {2048, 2048}, {4096, 2048}}, "class", "primary"),
			Feature(orb.LineString{{2048, 0}, {2048, 4096}}, "class", "service"),
		},
		"buildings": {
			Feature(orb.Polygon{
				{{1024, 1024}, {3072, 1024}, {3072, 3072}, {1024, 3072}, {1024, 1024}},
			}, "type", "house"),
		},
		"poi": {
			Feature(orb.Point{1000, 1000}, "name", "fountain", "class", "water"),
			Feature(orb.Point{3000, 500}, "name", "bakery", "class", "shop"),
		},
	}
}
