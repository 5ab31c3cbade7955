package dataset

import (
	"go.uber.org/zap"

	"github.com/sells-group/bivariate-map/internal/fetcher"
	"github.com/sells-group/bivariate-map/internal/model"
)

// Populations builds the region -> population table. A later row for the
// same region replaces an earlier one, even when its value is invalid.
func Populations(rows []fetcher.Row, cols Columns) model.PopulationTable {
	cols = cols.withDefaults()

	table := make(model.PopulationTable, len(rows))
	var invalid int
	for _, row := range rows {
		key := model.NewRegionKey(row[cols.Region])
		if key == "" {
			continue
		}
		n, ok := ParseLeadingInt(row[cols.Population])
		if !ok {
			invalid++
		}
		table[key] = model.Population{Value: n, Valid: ok}
	}

	zap.L().Debug("dataset: normalized population",
		zap.Int("rows", len(rows)),
		zap.Int("regions", len(table)),
		zap.Int("invalid", invalid),
	)
	return table
}
