package topology

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// DecodeGeoJSON reads the polygonal features of a GeoJSON
// FeatureCollection. Polygons are promoted to single-member MultiPolygons.
func DecodeGeoJSON(data []byte, nameProp string) ([]Feature, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "geojson: decode")
	}

	features := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		var mp *geom.MultiPolygon
		switch g := f.Geometry.(type) {
		case *geom.MultiPolygon:
			mp = g
		case *geom.Polygon:
			mp = geom.NewMultiPolygon(g.Layout())
			if err := mp.Push(g); err != nil {
				return nil, eris.Wrap(err, "geojson: promote polygon")
			}
		default:
			continue
		}
		features = append(features, Feature{
			Name:     propertyString(f.Properties, nameProp),
			Geometry: mp,
		})
	}
	return features, nil
}
