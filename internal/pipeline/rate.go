package pipeline

import (
	"github.com/sells-group/bivariate-map/internal/model"
)

// DefaultRateScale expresses incident rates per 10,000 residents.
const DefaultRateScale = 10000.0

// ValidPopulation reports whether p can divide an incident count.
// Zero and unparsable census values are treated as unknown.
func ValidPopulation(p model.Population) bool {
	return p.Valid && p.Value > 0
}

// ComputeRates derives each region's incident rate from its count and
// population. The rate is nil when the population is absent or invalid.
func ComputeRates(incidents []model.IncidentRecord, pop model.PopulationTable, scale float64) []model.RateRecord {
	if scale <= 0 {
		scale = DefaultRateScale
	}
	out := make([]model.RateRecord, len(incidents))
	for i, inc := range incidents {
		out[i] = model.RateRecord{Region: inc.Region}
		p, ok := pop[inc.Region]
		if !ok || !ValidPopulation(p) {
			continue
		}
		rate := float64(inc.Count) / float64(p.Value) * scale
		out[i].Rate = &rate
	}
	return out
}
