package model

import "github.com/google/uuid"

// Tercile is a bucket index within one measure's distribution.
type Tercile int

const (
	TercileLow Tercile = iota
	TercileMid
	TercileHigh
)

// BivariateClass is a two-character class code. The first digit is the
// incident rate tercile, the second the vote share tercile.
type BivariateClass string

// NoData is the class of a record that could not be classified.
const NoData BivariateClass = ""

// NewBivariateClass combines a rate tercile and a vote tercile.
func NewBivariateClass(rate, vote Tercile) BivariateClass {
	return BivariateClass([]byte{'0' + byte(rate), '0' + byte(vote)})
}

// Valid reports whether c is one of the nine class codes.
func (c BivariateClass) Valid() bool {
	if len(c) != 2 {
		return false
	}
	for i := range 2 {
		if c[i] < '0' || c[i] > '2' {
			return false
		}
	}
	return true
}

// Rate returns the incident rate tercile of a valid class.
func (c BivariateClass) Rate() Tercile { return Tercile(c[0] - '0') }

// Vote returns the vote share tercile of a valid class.
func (c BivariateClass) Vote() Tercile { return Tercile(c[1] - '0') }

// AllClasses returns the nine class codes in legend order.
func AllClasses() []BivariateClass {
	classes := make([]BivariateClass, 0, 9)
	for r := TercileLow; r <= TercileHigh; r++ {
		for v := TercileLow; v <= TercileHigh; v++ {
			classes = append(classes, NewBivariateClass(r, v))
		}
	}
	return classes
}

// ClassifiedRecord is a merged record with its bivariate class.
// Classified is false for records missing either measure; Class is NoData then.
type ClassifiedRecord struct {
	MergedRecord `yaml:",inline"`
	Class        BivariateClass `json:"class" yaml:"class"`
	Classified   bool           `json:"classified" yaml:"classified"`
}

// Thresholds holds the tercile boundaries of both measures.
type Thresholds struct {
	LowRate  float64 `json:"low_rate" yaml:"low_rate"`
	HighRate float64 `json:"high_rate" yaml:"high_rate"`
	LowVote  float64 `json:"low_vote" yaml:"low_vote"`
	HighVote float64 `json:"high_vote" yaml:"high_vote"`
}

// RateRange is the span of non-nil incident rates, used for legend labels.
type RateRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Result is the read-only output of one pipeline run.
// Thresholds and Range are nil when a measure has no usable values.
type Result struct {
	RunID      uuid.UUID          `json:"run_id" yaml:"run_id"`
	Records    []ClassifiedRecord `json:"records" yaml:"records"`
	Thresholds *Thresholds        `json:"thresholds" yaml:"thresholds"`
	Range      *RateRange         `json:"rate_range" yaml:"rate_range"`
}

// Lookup indexes the records by region.
func (r *Result) Lookup() map[RegionKey]ClassifiedRecord {
	idx := make(map[RegionKey]ClassifiedRecord, len(r.Records))
	for _, rec := range r.Records {
		idx[rec.Region] = rec
	}
	return idx
}
