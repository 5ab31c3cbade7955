package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/bivariate-map/internal/config"
	"github.com/sells-group/bivariate-map/internal/fetcher"
	"github.com/sells-group/bivariate-map/internal/pipeline"
)

var (
	sourceIncidents  string
	sourcePopulation string
	sourceVoting     string
)

// addSourceFlags registers the statistical source overrides on cmd.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sourceIncidents, "incidents", "", "incidents table path or URL (default from config)")
	cmd.Flags().StringVar(&sourcePopulation, "population", "", "population table path or URL (default from config)")
	cmd.Flags().StringVar(&sourceVoting, "voting", "", "voting table path or URL (default from config)")
}

// applySourceFlags copies explicitly set source flags into c.
func applySourceFlags(cmd *cobra.Command, c *config.Config) {
	if cmd.Flags().Changed("incidents") {
		c.Sources.Incidents = sourceIncidents
	}
	if cmd.Flags().Changed("population") {
		c.Sources.Population = sourcePopulation
	}
	if cmd.Flags().Changed("voting") {
		c.Sources.Voting = sourceVoting
	}
}

func newPipeline(c *config.Config, opener *fetcher.Opener) *pipeline.Pipeline {
	loader := fetcher.NewLoader(opener, c.TableOptions())
	return pipeline.New(loader, c.PipelineOptions())
}

// writeOutput writes to path, or to stdout when path is empty or "-".
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "close %s", path)
}
