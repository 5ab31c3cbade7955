package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/bivariate-map/internal/classify"
	"github.com/sells-group/bivariate-map/internal/dataset"
	"github.com/sells-group/bivariate-map/internal/fetcher"
	"github.com/sells-group/bivariate-map/internal/pipeline"
	"github.com/sells-group/bivariate-map/internal/render"
	"github.com/sells-group/bivariate-map/internal/topology"
)

// Config holds the full application configuration.
type Config struct {
	Sources  SourcesConfig  `yaml:"sources" mapstructure:"sources"`
	Dataset  DatasetConfig  `yaml:"dataset" mapstructure:"dataset"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Render   RenderConfig   `yaml:"render" mapstructure:"render"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourcesConfig holds the locators of the input files. A locator is a
// local path or a file, http, https, or ftp URL.
type SourcesConfig struct {
	Incidents  string `yaml:"incidents" mapstructure:"incidents"`
	Population string `yaml:"population" mapstructure:"population"`
	Voting     string `yaml:"voting" mapstructure:"voting"`
	Boundary   string `yaml:"boundary" mapstructure:"boundary"`
	Object     string `yaml:"object" mapstructure:"object"`
	NameField  string `yaml:"name_field" mapstructure:"name_field"`
}

// DatasetConfig describes how the tabular sources are parsed.
type DatasetConfig struct {
	Columns   dataset.Columns   `yaml:"columns" mapstructure:"columns"`
	Years     dataset.YearRange `yaml:"years" mapstructure:"years"`
	Delimiter string            `yaml:"delimiter" mapstructure:"delimiter"`
	Comment   string            `yaml:"comment" mapstructure:"comment"`
	TrimSpace bool              `yaml:"trim_space" mapstructure:"trim_space"`
	Charset   string            `yaml:"charset" mapstructure:"charset"`
	Sheet     string            `yaml:"sheet" mapstructure:"sheet"`
	TempDir   string            `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// PipelineConfig configures rates and classification.
type PipelineConfig struct {
	RateScale    float64 `yaml:"rate_scale" mapstructure:"rate_scale"`
	LowQuantile  float64 `yaml:"low_quantile" mapstructure:"low_quantile"`
	HighQuantile float64 `yaml:"high_quantile" mapstructure:"high_quantile"`
}

// FetchConfig configures remote source downloads.
type FetchConfig struct {
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
	FTPTimeoutSecs    int     `yaml:"ftp_timeout_secs" mapstructure:"ftp_timeout_secs"`
}

// RenderConfig configures the SVG output.
type RenderConfig struct {
	Width      float64 `yaml:"width" mapstructure:"width"`
	Height     float64 `yaml:"height" mapstructure:"height"`
	Padding    float64 `yaml:"padding" mapstructure:"padding"`
	Projection string  `yaml:"projection" mapstructure:"projection"`
	LegendX    float64 `yaml:"legend_x" mapstructure:"legend_x"`
	LegendY    float64 `yaml:"legend_y" mapstructure:"legend_y"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BIVARIATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	cols := dataset.DefaultColumns()
	years := dataset.DefaultYearRange()
	svg := render.DefaultSVGOptions()
	v.SetDefault("sources.incidents", "dataset/all_incidents.csv")
	v.SetDefault("sources.population", "dataset/us_pop_by_state.csv")
	v.SetDefault("sources.voting", "dataset/voting.csv")
	v.SetDefault("sources.boundary", "https://cdn.jsdelivr.net/npm/us-atlas@3/counties-albers-10m.json")
	v.SetDefault("sources.object", "states")
	v.SetDefault("sources.name_field", "name")
	v.SetDefault("dataset.columns.region", cols.Region)
	v.SetDefault("dataset.columns.date", cols.Date)
	v.SetDefault("dataset.columns.population", cols.Population)
	v.SetDefault("dataset.columns.vote_share", cols.VoteShare)
	v.SetDefault("dataset.years.from", years.From)
	v.SetDefault("dataset.years.to", years.To)
	v.SetDefault("dataset.charset", "utf-8")
	v.SetDefault("pipeline.rate_scale", pipeline.DefaultRateScale)
	v.SetDefault("pipeline.low_quantile", classify.DefaultLowQuantile)
	v.SetDefault("pipeline.high_quantile", classify.DefaultHighQuantile)
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.user_agent", "bivariate-map/1.0")
	v.SetDefault("fetch.max_retries", 1)
	v.SetDefault("fetch.requests_per_second", 10)
	v.SetDefault("fetch.burst", 10)
	v.SetDefault("fetch.ftp_timeout_secs", 30)
	v.SetDefault("render.width", svg.Width)
	v.SetDefault("render.height", svg.Height)
	v.SetDefault("render.padding", svg.Padding)
	v.SetDefault("render.projection", svg.Projection)
	v.SetDefault("render.legend_x", svg.LegendX)
	v.SetDefault("render.legend_y", svg.LegendY)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings needed by a command mode: "classify" or "render".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "classify", "render":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Sources.Incidents == "" {
		errs = append(errs, "sources.incidents is required")
	}
	if c.Sources.Population == "" {
		errs = append(errs, "sources.population is required")
	}
	if c.Sources.Voting == "" {
		errs = append(errs, "sources.voting is required")
	}
	if c.Dataset.Years.From > c.Dataset.Years.To {
		errs = append(errs, "dataset.years.from must be <= dataset.years.to")
	}
	if len([]rune(c.Dataset.Delimiter)) > 1 {
		errs = append(errs, "dataset.delimiter must be a single character")
	}
	if len([]rune(c.Dataset.Comment)) > 1 {
		errs = append(errs, "dataset.comment must be a single character")
	}
	if c.Pipeline.RateScale <= 0 {
		errs = append(errs, "pipeline.rate_scale must be > 0")
	}
	if err := c.ClassifyOptions().Validate(); err != nil {
		errs = append(errs, "pipeline.low_quantile and pipeline.high_quantile must satisfy 0 <= low <= high <= 1")
	}
	if c.Fetch.MaxRetries < 1 {
		errs = append(errs, "fetch.max_retries must be >= 1")
	}

	if mode == "render" {
		if c.Sources.Boundary == "" {
			errs = append(errs, "sources.boundary is required")
		}
		if c.Render.Width <= 0 || c.Render.Height <= 0 {
			errs = append(errs, "render.width and render.height must be > 0")
		}
		switch c.Render.Projection {
		case render.ProjectionIdentity, render.ProjectionFit:
		default:
			errs = append(errs, "render.projection must be identity or fit")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ClassifyOptions returns the classifier settings.
func (c *Config) ClassifyOptions() classify.Options {
	return classify.Options{LowQuantile: c.Pipeline.LowQuantile, HighQuantile: c.Pipeline.HighQuantile}
}

// PipelineOptions returns the pipeline settings.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Columns:   c.Dataset.Columns,
		Years:     c.Dataset.Years,
		RateScale: c.Pipeline.RateScale,
		Classify:  c.ClassifyOptions(),
	}
}

// PipelineSources returns the three statistical source locators.
func (c *Config) PipelineSources() pipeline.Sources {
	return pipeline.Sources{
		Incidents:  c.Sources.Incidents,
		Population: c.Sources.Population,
		Voting:     c.Sources.Voting,
	}
}

// Opener builds the locator opener from the fetch settings.
func (c *Config) Opener() *fetcher.Opener {
	return fetcher.NewOpener(
		fetcher.HTTPOptions{
			UserAgent:         c.Fetch.UserAgent,
			Timeout:           time.Duration(c.Fetch.TimeoutSecs) * time.Second,
			MaxAttempts:       c.Fetch.MaxRetries,
			RequestsPerSecond: c.Fetch.RequestsPerSecond,
			Burst:             c.Fetch.Burst,
		},
		fetcher.FTPOptions{Timeout: time.Duration(c.Fetch.FTPTimeoutSecs) * time.Second},
	)
}

// TableOptions returns the tabular parsing settings.
func (c *Config) TableOptions() fetcher.TableOptions {
	return fetcher.TableOptions{
		Delimiter: singleRune(c.Dataset.Delimiter),
		Comment:   singleRune(c.Dataset.Comment),
		TrimSpace: c.Dataset.TrimSpace,
		Charset:   c.Dataset.Charset,
		Sheet:     c.Dataset.Sheet,
		TempDir:   c.Dataset.TempDir,
	}
}

func singleRune(s string) rune {
	if r := []rune(s); len(r) == 1 {
		return r[0]
	}
	return 0
}

// TopologyOptions returns the boundary selection settings.
func (c *Config) TopologyOptions() topology.Options {
	return topology.Options{Object: c.Sources.Object, NameField: c.Sources.NameField}
}

// SVGOptions returns the SVG layout settings.
func (c *Config) SVGOptions() render.SVGOptions {
	opts := render.DefaultSVGOptions()
	opts.Width = c.Render.Width
	opts.Height = c.Render.Height
	opts.Padding = c.Render.Padding
	opts.Projection = c.Render.Projection
	opts.LegendX = c.Render.LegendX
	opts.LegendY = c.Render.LegendY
	return opts
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
