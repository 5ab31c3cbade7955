package render

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Projection maps a boundary coordinate to SVG user space.
type Projection interface {
	Project(c geom.Coord) (x, y float64)
}

// Projection names accepted by NewProjection.
const (
	ProjectionIdentity = "identity"
	ProjectionFit      = "fit"
)

// Identity passes planar coordinates through. Use it for boundaries that
// are already projected to screen space.
type Identity struct{}

func (Identity) Project(c geom.Coord) (float64, float64) {
	return c[0], c[1]
}

// Fit scales longitude/latitude bounds into a viewport, preserving aspect
// ratio and flipping the y axis so north is up.
type Fit struct {
	scale  float64
	minX   float64
	maxY   float64
	offset [2]float64
}

// NewFit fits b into a width x height viewport with padding on every side.
func NewFit(b *geom.Bounds, width, height, padding float64) *Fit {
	f := &Fit{scale: 1}
	if b == nil || b.IsEmpty() {
		return f
	}
	w := b.Max(0) - b.Min(0)
	h := b.Max(1) - b.Min(1)
	availW := width - 2*padding
	availH := height - 2*padding

	switch {
	case w > 0 && h > 0:
		f.scale = math.Min(availW/w, availH/h)
	case w > 0:
		f.scale = availW / w
	case h > 0:
		f.scale = availH / h
	}
	f.minX = b.Min(0)
	f.maxY = b.Max(1)
	f.offset = [2]float64{
		padding + (availW-w*f.scale)/2,
		padding + (availH-h*f.scale)/2,
	}
	return f
}

func (f *Fit) Project(c geom.Coord) (float64, float64) {
	return f.offset[0] + (c[0]-f.minX)*f.scale, f.offset[1] + (f.maxY-c[1])*f.scale
}

// NewProjection builds the named projection for boundaries within b.
func NewProjection(name string, b *geom.Bounds, width, height, padding float64) (Projection, error) {
	switch name {
	case "", ProjectionIdentity:
		return Identity{}, nil
	case ProjectionFit:
		return NewFit(b, width, height, padding), nil
	default:
		return nil, eris.Errorf("render: unknown projection %q", name)
	}
}
