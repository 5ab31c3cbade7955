package render

import (
	"github.com/google/uuid"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/bivariate-map/internal/model"
	"github.com/sells-group/bivariate-map/internal/topology"
)

func ptr(v float64) *float64 { return &v }

func square(x, y, size float64) *geom.MultiPolygon {
	poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{x, y}, {x, y + size}, {x + size, y + size}, {x + size, y}, {x, y},
	}})
	mp := geom.NewMultiPolygon(geom.XY)
	if err := mp.Push(poly); err != nil {
		panic(err)
	}
	return mp
}

func testFeatures() []topology.Feature {
	return []topology.Feature{
		{Name: "Ohio", ID: "39", Geometry: square(0, 0, 1)},
		{Name: "Utah", Geometry: square(1, 0, 1)},
		{Name: "Texas", Geometry: square(2, 0, 1)},
	}
}

// testResult classifies Ohio, leaves Utah without a vote share, and has
// no record for Texas.
func testResult() *model.Result {
	return &model.Result{
		RunID: uuid.MustParse("6f1c1f5e-8a0b-4b61-9a55-1f2a3b4c5d6e"),
		Records: []model.ClassifiedRecord{
			{
				MergedRecord: model.MergedRecord{Region: "Ohio", Rate: ptr(2), VoteShare: ptr(40)},
				Class:        "21",
				Classified:   true,
			},
			{
				MergedRecord: model.MergedRecord{Region: "Utah", Rate: ptr(1.256)},
				Class:        model.NoData,
			},
		},
		Thresholds: &model.Thresholds{LowRate: 1.1, HighRate: 1.9, LowVote: 45, HighVote: 55},
		Range:      &model.RateRange{Min: 0.5, Max: 3.25},
	}
}
