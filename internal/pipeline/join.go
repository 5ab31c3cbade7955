package pipeline

import (
	"math"

	"github.com/sells-group/bivariate-map/internal/model"
)

// Join merges rates with vote shares by region. Rates drive the join: every
// rate record yields exactly one merged record, in input order, and regions
// that only appear in votes are dropped. When a region has several vote
// records the first one wins. Missing or non-numeric shares become nil.
func Join(rates []model.RateRecord, votes []model.VoteRecord) []model.MergedRecord {
	firstVote := make(map[model.RegionKey]float64, len(votes))
	for _, v := range votes {
		if _, seen := firstVote[v.Region]; !seen {
			firstVote[v.Region] = v.Share
		}
	}

	out := make([]model.MergedRecord, len(rates))
	for i, r := range rates {
		out[i] = model.MergedRecord{Region: r.Region, Rate: r.Rate}
		share, ok := firstVote[r.Region]
		if !ok || math.IsNaN(share) || math.IsInf(share, 0) {
			continue
		}
		out[i].VoteShare = &share
	}
	return out
}
