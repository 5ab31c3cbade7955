package dataset

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/bivariate-map/internal/fetcher"
	"github.com/sells-group/bivariate-map/internal/model"
)

// Votes converts voting rows into one record per row, in row order.
// A non-numeric share is kept as NaN.
func Votes(rows []fetcher.Row, cols Columns) []model.VoteRecord {
	cols = cols.withDefaults()

	records := make([]model.VoteRecord, 0, len(rows))
	var nan int
	for _, row := range rows {
		key := model.NewRegionKey(row[cols.Region])
		if key == "" {
			continue
		}
		share := ParsePercent(row[cols.VoteShare])
		if math.IsNaN(share) {
			nan++
		}
		records = append(records, model.VoteRecord{Region: key, Share: share})
	}

	zap.L().Debug("dataset: normalized votes",
		zap.Int("rows", len(rows)),
		zap.Int("records", len(records)),
		zap.Int("non_numeric", nan),
	)
	return records
}
