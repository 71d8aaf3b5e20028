package render

import (
	"image"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"golang.org/x/image/vector"
)

type FillRule string

// NonZero is the winding rule used for all paths, holes wound against their exterior ring are subtracted
const NonZero FillRule = "nonzero"

// SubPath is an open line or a closed ring
type SubPath struct {
	Points []orb.Point `json:"points"`
	Closed bool        `json:"closed"`
}

// Path is a sequence of sub paths, in pixel space of the tile
type Path struct {
	FillRule FillRule  `json:"fillRule"`
	SubPaths []SubPath `json:"subPaths"`
}

func NewPath() *Path {
	return &Path{FillRule: NonZero, SubPaths: make([]SubPath, 0)}
}

// MoveTo starts a new sub path
func (p *Path) MoveTo(pt orb.Point) {
	p.SubPaths = append(p.SubPaths, SubPath{Points: []orb.Point{pt}})
}

// LineTo adds a point to the actual sub path, without a sub path it acts as MoveTo
func (p *Path) LineTo(pt orb.Point) {
	if len(p.SubPaths) == 0 || p.SubPaths[len(p.SubPaths)-1].Closed {
		p.MoveTo(pt)
		return
	}
	sp := &p.SubPaths[len(p.SubPaths)-1]
	sp.Points = append(sp.Points, pt)
}

// Close closes the actual sub path
func (p *Path) Close() {
	if len(p.SubPaths) == 0 {
		return
	}
	p.SubPaths[len(p.SubPaths)-1].Closed = true
}

// PointCount is the number of drawn points of all sub paths
func (p *Path) PointCount() int {
	c := 0
	for _, sp := range p.SubPaths {
		c += len(sp.Points)
	}
	return c
}

func (p *Path) IsEmpty() bool {
	return p.PointCount() == 0
}

// Bound is the bounding box of all points
func (p *Path) Bound() orb.Bound {
	first := true
	var b orb.Bound
	for _, sp := range p.SubPaths {
		for _, pt := range sp.Points {
			if first {
				b = orb.Bound{Min: pt, Max: pt}
				first = false
				continue
			}
			b = b.Extend(pt)
		}
	}
	return b
}

// Contains tests the point against the closed sub paths with the nonzero winding rule
func (p *Path) Contains(pt orb.Point) bool {
	winding := 0
	for _, sp := range p.SubPaths {
		if !sp.Closed || len(sp.Points) < 3 {
			continue
		}
		winding += windingNumber(sp.Points, pt)
	}
	return winding != 0
}

func windingNumber(ring []orb.Point, pt orb.Point) int {
	wn := 0
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		if a[1] <= pt[1] {
			if b[1] > pt[1] && isLeft(a, b, pt) > 0 {
				wn++
			}
		} else if b[1] <= pt[1] && isLeft(a, b, pt) < 0 {
			wn--
		}
	}
	return wn
}

func isLeft(a, b, pt orb.Point) float64 {
	return (b[0]-a[0])*(pt[1]-a[1]) - (pt[0]-a[0])*(b[1]-a[1])
}

// Mask rasterizes the closed sub paths into a coverage mask of size x size pixel
func (p *Path) Mask(size int) *image.Alpha {
	r := vector.NewRasterizer(size, size)
	box := orb.Bound{Max: orb.Point{float64(size), float64(size)}}
	for _, sp := range p.SubPaths {
		if !sp.Closed || len(sp.Points) < 3 {
			continue
		}
		// clip works in place and needs an explicitly closed ring
		ring := make(orb.Ring, len(sp.Points), len(sp.Points)+1)
		copy(ring, sp.Points)
		if !ring.Closed() {
			ring = append(ring, ring[0])
		}
		ring = clip.Ring(box, ring)
		if len(ring) < 3 {
			continue
		}
		r.MoveTo(float32(ring[0][0]), float32(ring[0][1]))
		for _, pt := range ring[1:] {
			r.LineTo(float32(pt[0]), float32(pt[1]))
		}
		r.ClosePath()
	}
	dst := image.NewAlpha(image.Rect(0, 0, size, size))
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst
}
