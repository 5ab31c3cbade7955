package classify

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bivariate-map/internal/model"
)

func ptr(v float64) *float64 { return &v }

func merged(region string, rate, vote *float64) model.MergedRecord {
	return model.MergedRecord{Region: model.RegionKey(region), Rate: rate, VoteShare: vote}
}

func TestBucket(t *testing.T) {
	b := Bounds{Low: 2, High: 4}
	tests := []struct {
		v    float64
		want model.Tercile
	}{
		{1.99, model.TercileLow},
		{2, model.TercileMid},
		{3.99, model.TercileMid},
		{4, model.TercileHigh},
		{100, model.TercileHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bucket(tt.v, b), "value %v", tt.v)
	}
}

func TestClassify_NineClasses(t *testing.T) {
	var records []model.MergedRecord
	for i := range 9 {
		// Rates and votes rise together so every tercile pairing appears on the diagonal.
		records = append(records, merged(string(rune('A'+i)), ptr(float64(i)), ptr(float64(i*10))))
	}

	res, err := Classify(records, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res.Thresholds)
	require.Len(t, res.Records, 9)

	counts := map[model.BivariateClass]int{}
	for _, r := range res.Records {
		require.True(t, r.Classified)
		require.True(t, r.Class.Valid(), r.Class)
		counts[r.Class]++
	}
	assert.Equal(t, map[model.BivariateClass]int{"00": 3, "11": 3, "22": 3}, counts)

	assert.LessOrEqual(t, res.Thresholds.LowRate, res.Thresholds.HighRate)
	assert.LessOrEqual(t, res.Thresholds.LowVote, res.Thresholds.HighVote)
	assert.Equal(t, &model.RateRange{Min: 0, Max: 8}, res.Range)
}

func TestClassify_TercilesPartitionEvenly(t *testing.T) {
	var records []model.MergedRecord
	for i := range 30 {
		records = append(records, merged("r", ptr(float64(i)*1.5), ptr(50)))
	}

	res, err := Classify(records, DefaultOptions())
	require.NoError(t, err)

	sizes := make([]int, 3)
	for _, r := range res.Records {
		sizes[r.Class[0]-'0']++
	}
	for _, n := range sizes {
		assert.InDelta(t, 10, n, 1)
	}
}

func TestClassify_MixedDimensions(t *testing.T) {
	records := []model.MergedRecord{
		merged("Low-High", ptr(1), ptr(90)),
		merged("High-Low", ptr(9), ptr(10)),
		merged("Mid-Mid", ptr(5), ptr(50)),
	}

	res, err := Classify(records, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, model.BivariateClass("02"), res.Records[0].Class)
	assert.Equal(t, model.BivariateClass("20"), res.Records[1].Class)
	assert.Equal(t, model.BivariateClass("11"), res.Records[2].Class)
}

func TestClassify_NilMeasuresAreNoData(t *testing.T) {
	records := []model.MergedRecord{
		merged("Ohio", ptr(2), ptr(40)),
		merged("NoPop", nil, ptr(55)),
		merged("NoVote", ptr(3), nil),
		merged("Bad", ptr(4), ptr(math.NaN())),
		merged("Maine", ptr(1), ptr(45)),
	}

	res, err := Classify(records, DefaultOptions())
	require.NoError(t, err)

	byRegion := res.Lookup()
	for _, key := range []model.RegionKey{"NoPop", "NoVote", "Bad"} {
		rec := byRegion[key]
		assert.False(t, rec.Classified, key)
		assert.Equal(t, model.NoData, rec.Class, key)
	}
	assert.True(t, byRegion["Ohio"].Classified)

	// The nil rate never enters the rate distribution and never reads as zero.
	assert.Equal(t, &model.RateRange{Min: 1, Max: 4}, res.Range)
}

func TestClassify_NaNVotesExcludedFromThresholds(t *testing.T) {
	withNaN := []model.MergedRecord{
		merged("A", ptr(1), ptr(10)),
		merged("B", ptr(2), ptr(math.NaN())),
		merged("C", ptr(3), ptr(30)),
		merged("D", ptr(4), nil),
	}
	withoutNaN := []model.MergedRecord{
		merged("A", ptr(1), ptr(10)),
		merged("C", ptr(3), ptr(30)),
	}

	a, err := Classify(withNaN, DefaultOptions())
	require.NoError(t, err)
	b, err := Classify(withoutNaN, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, b.Thresholds.LowVote, a.Thresholds.LowVote)
	assert.Equal(t, b.Thresholds.HighVote, a.Thresholds.HighVote)
}

func TestClassify_NoUsableValues(t *testing.T) {
	records := []model.MergedRecord{merged("A", nil, ptr(10)), merged("B", nil, nil)}

	res, err := Classify(records, DefaultOptions())
	require.NoError(t, err)
	assert.Nil(t, res.Thresholds)
	assert.Nil(t, res.Range)
	for _, r := range res.Records {
		assert.False(t, r.Classified)
	}

	res, err = Classify(nil, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestClassify_Idempotent(t *testing.T) {
	records := []model.MergedRecord{
		merged("A", ptr(0.5), ptr(30)),
		merged("B", ptr(1.5), ptr(60)),
		merged("C", nil, ptr(45)),
		merged("D", ptr(2.5), ptr(50)),
	}

	first, err := Classify(records, DefaultOptions())
	require.NoError(t, err)
	second, err := Classify(records, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClassify_PreservesOrder(t *testing.T) {
	records := []model.MergedRecord{
		merged("Zeta", ptr(3), ptr(1)),
		merged("Alpha", ptr(1), ptr(3)),
	}
	res, err := Classify(records, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, model.RegionKey("Zeta"), res.Records[0].Region)
	assert.Equal(t, model.RegionKey("Alpha"), res.Records[1].Region)
}

func TestOptions_Validate(t *testing.T) {
	require.NoError(t, DefaultOptions().Validate())
	require.NoError(t, Options{LowQuantile: 0.5, HighQuantile: 0.5}.Validate())
	require.Error(t, Options{LowQuantile: 0.7, HighQuantile: 0.3}.Validate())
	require.Error(t, Options{LowQuantile: -0.1, HighQuantile: 0.3}.Validate())
	require.Error(t, Options{LowQuantile: 0.1, HighQuantile: 1.3}.Validate())

	_, err := Classify(nil, Options{LowQuantile: 0.9, HighQuantile: 0.1})
	require.Error(t, err)
}
