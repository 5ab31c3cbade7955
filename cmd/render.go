package main

import (
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/bivariate-map/internal/model"
	"github.com/sells-group/bivariate-map/internal/render"
	"github.com/sells-group/bivariate-map/internal/topology"
)

var (
	renderBoundary   string
	renderObject     string
	renderNameField  string
	renderSVG        string
	renderGeoJSON    string
	renderProjection string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draw the bivariate choropleth",
	Long: `Runs the classification pipeline and loads the boundary file at the same
time, then writes an SVG map with a 3x3 legend and optionally a GeoJSON copy
of the boundaries carrying each region's measures and class.

Boundary files may be TopoJSON, GeoJSON, a shapefile, or a zipped shapefile.

Examples:
  bivariate-map render --svg map.svg
  bivariate-map render --boundary tl_2020_us_state.zip --name-field NAME --projection fit --geojson map.geojson`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		applySourceFlags(cmd, cfg)
		applyRenderFlags(cmd)
		if err := cfg.Validate("render"); err != nil {
			return err
		}
		if renderSVG == "" && renderGeoJSON == "" {
			return eris.New("render: nothing to write, set --svg or --geojson")
		}

		opener := cfg.Opener()
		var (
			res      *model.Result
			features []topology.Feature
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			res, err = newPipeline(cfg, opener).Run(gctx, cfg.PipelineSources())
			return err
		})
		g.Go(func() error {
			var err error
			features, err = topology.NewLoader(opener, cfg.Dataset.TempDir).
				Load(gctx, cfg.Sources.Boundary, cfg.TopologyOptions())
			if err != nil {
				zap.L().Error("render: boundary load failed",
					zap.String("boundary", cfg.Sources.Boundary),
					zap.Error(err),
				)
			}
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		if renderSVG != "" {
			if err := writeOutput(renderSVG, func(w io.Writer) error {
				return render.WriteSVG(w, features, res, cfg.SVGOptions())
			}); err != nil {
				return err
			}
		}
		if renderGeoJSON != "" {
			if err := writeOutput(renderGeoJSON, func(w io.Writer) error {
				return render.WriteGeoJSON(w, features, res)
			}); err != nil {
				return err
			}
		}

		zap.L().Info("render: complete",
			zap.String("run_id", res.RunID.String()),
			zap.Int("features", len(features)),
			zap.String("svg", renderSVG),
			zap.String("geojson", renderGeoJSON),
		)
		return nil
	},
}

// applyRenderFlags copies explicitly set boundary and layout flags into cfg.
func applyRenderFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("boundary") {
		cfg.Sources.Boundary = renderBoundary
	}
	if cmd.Flags().Changed("object") {
		cfg.Sources.Object = renderObject
	}
	if cmd.Flags().Changed("name-field") {
		cfg.Sources.NameField = renderNameField
	}
	if cmd.Flags().Changed("projection") {
		cfg.Render.Projection = renderProjection
	}
}

func init() {
	addSourceFlags(renderCmd)
	renderCmd.Flags().StringVar(&renderBoundary, "boundary", "", "boundary file path or URL (default from config)")
	renderCmd.Flags().StringVar(&renderObject, "object", "", "TopoJSON object holding the regions (default from config)")
	renderCmd.Flags().StringVar(&renderNameField, "name-field", "", "boundary property holding the region name (default from config)")
	renderCmd.Flags().StringVar(&renderProjection, "projection", "", "identity for pre-projected boundaries, fit for lon/lat")
	renderCmd.Flags().StringVar(&renderSVG, "svg", "map.svg", "write the SVG map to file (- for stdout)")
	renderCmd.Flags().StringVar(&renderGeoJSON, "geojson", "", "write classified boundaries as GeoJSON")
	rootCmd.AddCommand(renderCmd)
}
