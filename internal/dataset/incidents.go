package dataset

import (
	"go.uber.org/zap"

	"github.com/sells-group/bivariate-map/internal/fetcher"
	"github.com/sells-group/bivariate-map/internal/model"
)

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	From int `yaml:"from" mapstructure:"from"`
	To   int `yaml:"to" mapstructure:"to"`
}

// DefaultYearRange is the incident window of the reference map.
func DefaultYearRange() YearRange {
	return YearRange{From: 2019, To: 2020}
}

// Contains reports whether year lies in the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

// Incidents counts rows per region whose date falls in years. Rows with an
// unparsable date or an empty region are dropped. Records are returned in
// the order each region first appears.
func Incidents(rows []fetcher.Row, cols Columns, years YearRange) []model.IncidentRecord {
	cols = cols.withDefaults()

	counts := make(map[model.RegionKey]int)
	var order []model.RegionKey
	var outOfRange, badDate, noRegion int

	for _, row := range rows {
		year, ok := ParseYear(row[cols.Date])
		if !ok {
			badDate++
			continue
		}
		if !years.Contains(year) {
			outOfRange++
			continue
		}
		key := model.NewRegionKey(row[cols.Region])
		if key == "" {
			noRegion++
			continue
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	records := make([]model.IncidentRecord, len(order))
	for i, key := range order {
		records[i] = model.IncidentRecord{Region: key, Count: counts[key]}
	}

	zap.L().Debug("dataset: normalized incidents",
		zap.Int("rows", len(rows)),
		zap.Int("regions", len(records)),
		zap.Int("out_of_range", outOfRange),
		zap.Int("bad_date", badDate),
		zap.Int("no_region", noRegion),
	)
	return records
}
