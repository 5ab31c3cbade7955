package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bivariate-map/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bivariate-map",
	Short: "Bivariate choropleth of incident rates and vote shares",
	Long: `Loads incident, population, and voting tables, joins them per region,
classifies every region into one of nine incident-rate by vote-share terciles,
and writes the result as JSON, YAML, SVG, or GeoJSON.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
