package model

import "strings"

// RegionKey is the normalized display name of an administrative region.
// It is the only join key across the incident, population, and voting sources.
type RegionKey string

// NewRegionKey trims surrounding whitespace from a raw region name.
// Keys that differ by anything other than surrounding whitespace do not join.
func NewRegionKey(raw string) RegionKey {
	return RegionKey(strings.TrimSpace(raw))
}

// String returns the key as a plain string.
func (k RegionKey) String() string {
	return string(k)
}

// IncidentRecord is the number of qualifying incident rows for a region.
type IncidentRecord struct {
	Region RegionKey `json:"region" yaml:"region"`
	Count  int       `json:"count" yaml:"count"`
}

// Population is a parsed census value. Valid is false when the source
// field could not be parsed as an integer.
type Population struct {
	Value int64 `json:"value" yaml:"value"`
	Valid bool  `json:"valid" yaml:"valid"`
}

// PopulationTable maps a region to its population. Later rows for the
// same region overwrite earlier ones.
type PopulationTable map[RegionKey]Population

// VoteRecord is a region's vote share in percent. Share is NaN when the
// source field is not numeric.
type VoteRecord struct {
	Region RegionKey `json:"region" yaml:"region"`
	Share  float64   `json:"share" yaml:"share"`
}

// RateRecord is a region's incident rate per RateScale residents.
// Rate is nil when the region's population is unknown.
type RateRecord struct {
	Region RegionKey `json:"region" yaml:"region"`
	Rate   *float64  `json:"incident_rate" yaml:"incident_rate"`
}

// MergedRecord joins a region's incident rate and vote share.
// Either measure is nil when it is unavailable for the region.
type MergedRecord struct {
	Region    RegionKey `json:"region" yaml:"region"`
	Rate      *float64  `json:"incident_rate" yaml:"incident_rate"`
	VoteShare *float64  `json:"vote_share" yaml:"vote_share"`
}

// HasData reports whether both measures are present.
func (m MergedRecord) HasData() bool {
	return m.Rate != nil && m.VoteShare != nil
}
