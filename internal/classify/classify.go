package classify

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bivariate-map/internal/model"
)

// Default tercile probabilities.
const (
	DefaultLowQuantile  = 0.33
	DefaultHighQuantile = 0.66
)

// Options configures the quantile probabilities.
type Options struct {
	LowQuantile  float64
	HighQuantile float64
}

// DefaultOptions returns the 0.33 / 0.66 tercile split.
func DefaultOptions() Options {
	return Options{LowQuantile: DefaultLowQuantile, HighQuantile: DefaultHighQuantile}
}

// Validate checks that 0 <= low <= high <= 1.
func (o Options) Validate() error {
	if o.LowQuantile < 0 || o.HighQuantile > 1 || o.LowQuantile > o.HighQuantile {
		return eris.Errorf("classify: invalid quantiles low=%v high=%v", o.LowQuantile, o.HighQuantile)
	}
	return nil
}

// Bucket places v relative to b: below Low is low, below High is mid,
// anything else is high.
func Bucket(v float64, b Bounds) model.Tercile {
	switch {
	case v < b.Low:
		return model.TercileLow
	case v < b.High:
		return model.TercileMid
	default:
		return model.TercileHigh
	}
}

// Classify computes tercile boundaries over the non-nil incident rates and
// the non-nil vote shares, then assigns every record its class. Records
// missing either measure are returned unclassified. Input order is kept.
func Classify(records []model.MergedRecord, opts Options) (*model.Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rates := make([]*float64, len(records))
	votes := make([]*float64, len(records))
	for i, r := range records {
		rates[i] = r.Rate
		votes[i] = r.VoteShare
	}
	rateValues := Values(rates)
	voteValues := Values(votes)

	rateBounds, hasRate := Terciles(rateValues, opts.LowQuantile, opts.HighQuantile)
	voteBounds, hasVote := Terciles(voteValues, opts.LowQuantile, opts.HighQuantile)

	res := &model.Result{Records: make([]model.ClassifiedRecord, len(records))}
	if hasRate {
		res.Range = &model.RateRange{Min: rateValues[0], Max: rateValues[len(rateValues)-1]}
	}
	if hasRate && hasVote {
		res.Thresholds = &model.Thresholds{
			LowRate:  rateBounds.Low,
			HighRate: rateBounds.High,
			LowVote:  voteBounds.Low,
			HighVote: voteBounds.High,
		}
	}

	var unclassified int
	for i, r := range records {
		rec := model.ClassifiedRecord{MergedRecord: r, Class: model.NoData}
		if res.Thresholds != nil && r.HasData() && finite(*r.Rate) && finite(*r.VoteShare) {
			rec.Class = model.NewBivariateClass(Bucket(*r.Rate, rateBounds), Bucket(*r.VoteShare, voteBounds))
			rec.Classified = true
		} else {
			unclassified++
		}
		res.Records[i] = rec
	}

	zap.L().Debug("classify: assigned classes",
		zap.Int("records", len(records)),
		zap.Int("unclassified", unclassified),
		zap.Int("rate_values", len(rateValues)),
		zap.Int("vote_values", len(voteValues)),
	)
	return res, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
