// Package pipeline loads the three statistical sources concurrently, joins
// them per region, and classifies the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/bivariate-map/internal/classify"
	"github.com/sells-group/bivariate-map/internal/dataset"
	"github.com/sells-group/bivariate-map/internal/fetcher"
	"github.com/sells-group/bivariate-map/internal/model"
)

// ErrLoadFailure matches any error caused by a source that could not be
// fetched or parsed.
var ErrLoadFailure = errors.New("load failure")

// Source names one of the three statistical inputs.
type Source string

const (
	SourceIncidents  Source = "incidents"
	SourcePopulation Source = "population"
	SourceVoting     Source = "voting"
)

// LoadError reports which source failed to load.
type LoadError struct {
	Source  Source
	Locator string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s from %s: %v", e.Source, e.Locator, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrLoadFailure) true for every LoadError.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailure
}

// Sources holds the locators of the three statistical inputs.
type Sources struct {
	Incidents  string
	Population string
	Voting     string
}

// Options configures normalization, rates, and classification.
type Options struct {
	Columns   dataset.Columns
	Years     dataset.YearRange
	RateScale float64
	Classify  classify.Options
}

// DefaultOptions returns the reference map's settings.
func DefaultOptions() Options {
	return Options{
		Columns:   dataset.DefaultColumns(),
		Years:     dataset.DefaultYearRange(),
		RateScale: DefaultRateScale,
		Classify:  classify.DefaultOptions(),
	}
}

// Inputs are the normalized results of the three loads.
type Inputs struct {
	Incidents  []model.IncidentRecord
	Population model.PopulationTable
	Votes      []model.VoteRecord
}

// Pipeline runs load, join, and classification.
type Pipeline struct {
	loader fetcher.TableLoader
	opts   Options
}

// New creates a Pipeline.
func New(loader fetcher.TableLoader, opts Options) *Pipeline {
	return &Pipeline{loader: loader, opts: opts}
}

// Run loads all sources, waits for every load to finish, then joins and
// classifies. Any load failure aborts the run and no result is produced.
func (p *Pipeline) Run(ctx context.Context, src Sources) (*model.Result, error) {
	runID := uuid.New()
	log := zap.L().With(zap.String("run_id", runID.String()))
	log.Info("pipeline: starting run",
		zap.String("incidents", src.Incidents),
		zap.String("population", src.Population),
		zap.String("voting", src.Voting),
	)
	start := time.Now()

	in, err := p.Load(ctx, src)
	if err != nil {
		log.Error("pipeline: run aborted", zap.Error(err))
		return nil, eris.Wrap(err, "pipeline: load")
	}

	res, err := Process(in, p.opts)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: process")
	}
	res.RunID = runID

	log.Info("pipeline: run complete",
		zap.Int("regions", len(res.Records)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return res, nil
}

// Load fetches and normalizes the three sources concurrently. It returns
// only after every load has finished; the loads may complete in any order.
// Each goroutine writes only its own field of Inputs.
func (p *Pipeline) Load(ctx context.Context, src Sources) (*Inputs, error) {
	in := &Inputs{}
	cols := p.opts.Columns

	var g errgroup.Group
	g.Go(func() error {
		rows, err := p.loadRows(ctx, SourceIncidents, src.Incidents, cols.IncidentColumns())
		if err != nil {
			return err
		}
		in.Incidents = dataset.Incidents(rows, cols, p.opts.Years)
		return nil
	})
	g.Go(func() error {
		rows, err := p.loadRows(ctx, SourcePopulation, src.Population, cols.PopulationColumns())
		if err != nil {
			return err
		}
		in.Population = dataset.Populations(rows, cols)
		return nil
	})
	g.Go(func() error {
		rows, err := p.loadRows(ctx, SourceVoting, src.Voting, cols.VotingColumns())
		if err != nil {
			return err
		}
		in.Votes = dataset.Votes(rows, cols)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func (p *Pipeline) loadRows(ctx context.Context, source Source, locator string, required []string) ([]fetcher.Row, error) {
	start := time.Now()
	fail := func(err error) error {
		zap.L().Error("pipeline: load failed",
			zap.String("source", string(source)),
			zap.String("locator", locator),
			zap.Error(err),
		)
		return &LoadError{Source: source, Locator: locator, Err: err}
	}

	if locator == "" {
		return nil, fail(eris.New("no locator configured"))
	}
	table, err := p.loader.LoadTable(ctx, locator)
	if err != nil {
		return nil, fail(err)
	}
	if table == nil {
		return nil, fail(eris.New("loader returned no table"))
	}
	if err := table.RequireColumns(required...); err != nil {
		return nil, fail(err)
	}

	zap.L().Info("pipeline: source loaded",
		zap.String("source", string(source)),
		zap.Int("rows", len(table.Rows)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return table.Rows, nil
}

// Process runs the rate computer, join, and classifier over loaded inputs.
func Process(in *Inputs, opts Options) (*model.Result, error) {
	rates := ComputeRates(in.Incidents, in.Population, opts.RateScale)
	merged := Join(rates, in.Votes)
	return classify.Classify(merged, opts.Classify)
}
