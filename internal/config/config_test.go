package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dataset/all_incidents.csv", cfg.Sources.Incidents)
	assert.Equal(t, "dataset/us_pop_by_state.csv", cfg.Sources.Population)
	assert.Equal(t, "dataset/voting.csv", cfg.Sources.Voting)
	assert.Equal(t, "states", cfg.Sources.Object)
	assert.Equal(t, "name", cfg.Sources.NameField)
	assert.Equal(t, "state", cfg.Dataset.Columns.Region)
	assert.Equal(t, "date", cfg.Dataset.Columns.Date)
	assert.Equal(t, "2020_census", cfg.Dataset.Columns.Population)
	assert.Equal(t, "trump_pct", cfg.Dataset.Columns.VoteShare)
	assert.Equal(t, 2019, cfg.Dataset.Years.From)
	assert.Equal(t, 2020, cfg.Dataset.Years.To)
	assert.InDelta(t, 10000.0, cfg.Pipeline.RateScale, 0.001)
	assert.InDelta(t, 0.33, cfg.Pipeline.LowQuantile, 0.001)
	assert.InDelta(t, 0.66, cfg.Pipeline.HighQuantile, 0.001)
	assert.Equal(t, 1, cfg.Fetch.MaxRetries)
	assert.Equal(t, 30, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, "identity", cfg.Render.Projection)
	assert.InDelta(t, 1200.0, cfg.Render.Width, 0.001)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.NoError(t, cfg.Validate("classify"))
	assert.NoError(t, cfg.Validate("render"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
sources:
  incidents: ftp://data.example.org/incidents.tsv
  boundary: boundaries/states.zip
  name_field: NAME
dataset:
  columns:
    vote_share: rep_pct
  years:
    from: 2014
  delimiter: ";"
  comment: "#"
  trim_space: true
pipeline:
  rate_scale: 1000
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ftp://data.example.org/incidents.tsv", cfg.Sources.Incidents)
	assert.Equal(t, "boundaries/states.zip", cfg.Sources.Boundary)
	assert.Equal(t, "NAME", cfg.Sources.NameField)
	assert.Equal(t, "rep_pct", cfg.Dataset.Columns.VoteShare)
	assert.Equal(t, 2014, cfg.Dataset.Years.From)
	assert.InDelta(t, 1000.0, cfg.Pipeline.RateScale, 0.001)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "state", cfg.Dataset.Columns.Region)
	assert.Equal(t, 2020, cfg.Dataset.Years.To)
	assert.Equal(t, ';', cfg.TableOptions().Delimiter)
	assert.Equal(t, '#', cfg.TableOptions().Comment)
	assert.True(t, cfg.TableOptions().TrimSpace)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
sources:
  voting: voting-2016.csv
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("BIVARIATE_SOURCES_VOTING", "https://example.com/voting.csv")
	t.Setenv("BIVARIATE_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "https://example.com/voting.csv", cfg.Sources.Voting)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("BIVARIATE_FETCH_MAX_RETRIES", "3")
	t.Setenv("BIVARIATE_PIPELINE_LOW_QUANTILE", "0.25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.InDelta(t, 0.25, cfg.Pipeline.LowQuantile, 0.001)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("sources: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Sources.Incidents = "incidents.csv"
	cfg.Sources.Population = "population.csv"
	cfg.Sources.Voting = "voting.csv"
	cfg.Sources.Boundary = "states.json"
	cfg.Dataset.Years.From = 2019
	cfg.Dataset.Years.To = 2020
	cfg.Pipeline.RateScale = 10000
	cfg.Pipeline.LowQuantile = 0.33
	cfg.Pipeline.HighQuantile = 0.66
	cfg.Fetch.MaxRetries = 1
	cfg.Render.Width = 1200
	cfg.Render.Height = 650
	cfg.Render.Projection = "identity"
	return cfg
}

func TestValidate_MissingSources(t *testing.T) {
	cfg := validDefaults()
	cfg.Sources.Incidents = ""
	cfg.Sources.Voting = ""

	err := cfg.Validate("classify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sources.incidents is required")
	assert.Contains(t, err.Error(), "sources.voting is required")
	assert.NotContains(t, err.Error(), "sources.population")
}

func TestValidate_BoundaryOnlyForRender(t *testing.T) {
	cfg := validDefaults()
	cfg.Sources.Boundary = ""

	assert.NoError(t, cfg.Validate("classify"))
	err := cfg.Validate("render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sources.boundary is required")
}

func TestValidate_Ranges(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"years reversed", func(c *Config) { c.Dataset.Years.From = 2021 }, "dataset.years.from"},
		{"zero rate scale", func(c *Config) { c.Pipeline.RateScale = 0 }, "pipeline.rate_scale"},
		{"quantiles reversed", func(c *Config) { c.Pipeline.LowQuantile = 0.9 }, "pipeline.low_quantile"},
		{"quantile above one", func(c *Config) { c.Pipeline.HighQuantile = 1.5 }, "pipeline.high_quantile"},
		{"no attempts", func(c *Config) { c.Fetch.MaxRetries = 0 }, "fetch.max_retries"},
		{"long delimiter", func(c *Config) { c.Dataset.Delimiter = "||" }, "dataset.delimiter"},
		{"long comment", func(c *Config) { c.Dataset.Comment = "//" }, "dataset.comment"},
		{"bad projection", func(c *Config) { c.Render.Projection = "mercator" }, "render.projection"},
		{"zero width", func(c *Config) { c.Render.Width = 0 }, "render.width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate("render")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestDerivedOptions(t *testing.T) {
	cfg := validDefaults()
	cfg.Fetch.TimeoutSecs = 5
	cfg.Dataset.Delimiter = "\t"
	cfg.Dataset.Charset = "windows-1252"
	cfg.Sources.Object = "counties"

	popts := cfg.PipelineOptions()
	assert.InDelta(t, 10000.0, popts.RateScale, 0.001)
	assert.InDelta(t, 0.33, popts.Classify.LowQuantile, 0.001)
	assert.Equal(t, 2019, popts.Years.From)

	src := cfg.PipelineSources()
	assert.Equal(t, "incidents.csv", src.Incidents)
	assert.Equal(t, "voting.csv", src.Voting)

	topts := cfg.TableOptions()
	assert.Equal(t, '\t', topts.Delimiter)
	assert.Equal(t, rune(0), topts.Comment)
	assert.False(t, topts.TrimSpace)
	assert.Equal(t, "windows-1252", topts.Charset)

	assert.Equal(t, "counties", cfg.TopologyOptions().Object)
	assert.Equal(t, "identity", cfg.SVGOptions().Projection)
	assert.NotNil(t, cfg.SVGOptions().Palette)
	assert.NotNil(t, cfg.Opener())
}
