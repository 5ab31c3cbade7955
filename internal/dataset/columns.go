// Package dataset normalizes raw incident, population, and voting rows into
// typed per-region records.
package dataset

// Columns names the source columns read by the normalizers.
type Columns struct {
	Region     string `yaml:"region" mapstructure:"region"`
	Date       string `yaml:"date" mapstructure:"date"`
	Population string `yaml:"population" mapstructure:"population"`
	VoteShare  string `yaml:"vote_share" mapstructure:"vote_share"`
}

// DefaultColumns returns the column names of the reference datasets.
func DefaultColumns() Columns {
	return Columns{
		Region:     "state",
		Date:       "date",
		Population: "2020_census",
		VoteShare:  "trump_pct",
	}
}

// withDefaults fills empty names from DefaultColumns.
func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.Region == "" {
		c.Region = d.Region
	}
	if c.Date == "" {
		c.Date = d.Date
	}
	if c.Population == "" {
		c.Population = d.Population
	}
	if c.VoteShare == "" {
		c.VoteShare = d.VoteShare
	}
	return c
}

// IncidentColumns lists the columns the incident source must carry.
func (c Columns) IncidentColumns() []string {
	c = c.withDefaults()
	return []string{c.Region, c.Date}
}

// PopulationColumns lists the columns the population source must carry.
func (c Columns) PopulationColumns() []string {
	c = c.withDefaults()
	return []string{c.Region, c.Population}
}

// VotingColumns lists the columns the voting source must carry.
func (c Columns) VotingColumns() []string {
	c = c.withDefaults()
	return []string{c.Region, c.VoteShare}
}
