package render

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/bivariate-map/internal/model"
	"github.com/sells-group/bivariate-map/internal/topology"
)

// WriteGeoJSON writes the boundaries as a FeatureCollection whose
// properties carry each region's measures and class. Regions without a
// record get null measures and a null class.
func WriteGeoJSON(w io.Writer, features []topology.Feature, res *model.Result) error {
	lookup := map[model.RegionKey]model.ClassifiedRecord{}
	if res != nil {
		lookup = res.Lookup()
	}

	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(features))}
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		props := map[string]interface{}{
			"name":          f.Name,
			"incident_rate": nil,
			"vote_share":    nil,
			"class":         nil,
		}
		if rec, ok := lookup[model.NewRegionKey(f.Name)]; ok {
			if rec.Rate != nil {
				props["incident_rate"] = *rec.Rate
			}
			if rec.VoteShare != nil {
				props["vote_share"] = *rec.VoteShare
			}
			if rec.Classified {
				props["class"] = string(rec.Class)
			}
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         f.ID,
			Geometry:   f.Geometry,
			Properties: props,
		})
	}

	if err := json.NewEncoder(w).Encode(fc); err != nil {
		return eris.Wrap(err, "render: encode geojson")
	}
	return nil
}
