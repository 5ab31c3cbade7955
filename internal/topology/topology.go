// Package topology decodes administrative boundary files into named
// go-geom MultiPolygons. TopoJSON, GeoJSON, and ESRI shapefiles
// (optionally zipped) are supported.
package topology

import (
	"github.com/twpayne/go-geom"
)

// Feature is one named boundary.
type Feature struct {
	Name     string
	ID       string
	Geometry *geom.MultiPolygon
}

// Bounds returns the bounding box of all features. The result is empty
// when no feature has coordinates.
func Bounds(features []Feature) *geom.Bounds {
	b := geom.NewBounds(geom.XY)
	for _, f := range features {
		if f.Geometry == nil || f.Geometry.NumPolygons() == 0 {
			continue
		}
		b.Extend(f.Geometry)
	}
	return b
}
