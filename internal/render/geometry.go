package render

import (
	"github.com/paulmach/orb"

	"github.com/willie68/go_vtrender/internal/model"
)

// AppendToPath adds the geometry of the feature to the path, returning false if nothing was added.
// Points are never part of a path.
func AppendToPath(p *Path, f *model.Feature) bool {
	switch g := f.Geometry.(type) {
	case orb.LineString:
		return appendLine(p, g)
	case orb.MultiLineString:
		added := false
		for _, ls := range g {
			added = appendLine(p, ls) || added
		}
		return added
	case orb.Polygon:
		return appendPolygon(p, g)
	case orb.MultiPolygon:
		added := false
		for _, pg := range g {
			added = appendPolygon(p, pg) || added
		}
		return added
	}
	return false
}

func appendLine(p *Path, ls orb.LineString) bool {
	if len(ls) == 0 {
		return false
	}
	p.MoveTo(ls[0])
	for _, pt := range ls[1:] {
		p.LineTo(pt)
	}
	return true
}

// the exterior ring and each hole become a closed sub path, holes are wound against the exterior
func appendPolygon(p *Path, pg orb.Polygon) bool {
	if len(pg) == 0 || len(pg[0]) == 0 {
		return false
	}
	outer := pg[0].Orientation()
	appendRing(p, pg[0], false)
	for _, hole := range pg[1:] {
		if len(hole) == 0 {
			continue
		}
		o := hole.Orientation()
		appendRing(p, hole, o != 0 && o == outer)
	}
	return true
}

func appendRing(p *Path, r orb.Ring, reverse bool) {
	n := len(r)
	// the closing point is implied by Close
	if n > 1 && r[0] == r[n-1] {
		n--
	}
	at := func(i int) orb.Point {
		if reverse {
			return r[n-1-i]
		}
		return r[i]
	}
	p.MoveTo(at(0))
	for i := 1; i < n; i++ {
		p.LineTo(at(i))
	}
	p.Close()
}
