package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/bivariate-map/internal/model"
	"github.com/sells-group/bivariate-map/internal/topology"
)

// Legend axis descriptions.
const (
	RateAxisLabel = "The number of gun violence incidents per thousand"
	VoteAxisLabel = "The number of republican votes in 2020"
)

const (
	legendCell = 35
	notAvail   = "N/A"
)

// SVGOptions configures the choropleth document.
type SVGOptions struct {
	Width      float64
	Height     float64
	Padding    float64
	Projection string // "identity" for pre-projected boundaries, "fit" for lon/lat
	Palette    Palette
	LegendX    float64
	LegendY    float64
}

// DefaultSVGOptions sizes the map for a pre-projected US atlas.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      1200,
		Height:     650,
		Padding:    20,
		Projection: ProjectionIdentity,
		Palette:    DefaultPalette(),
		LegendX:    1000,
		LegendY:    300,
	}
}

// WriteSVG draws one path per boundary feature, filled by the class of the
// record with the same region name, followed by a 3x3 legend.
func WriteSVG(w io.Writer, features []topology.Feature, res *model.Result, opts SVGOptions) error {
	if opts.Palette == nil {
		opts.Palette = DefaultPalette()
	}
	proj, err := NewProjection(opts.Projection, topology.Bounds(features), opts.Width, opts.Height, opts.Padding)
	if err != nil {
		return err
	}

	lookup := map[model.RegionKey]model.ClassifiedRecord{}
	if res != nil {
		lookup = res.Lookup()
	}

	sw := &svgWriter{w: bufio.NewWriter(w)}
	sw.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(opts.Width), num(opts.Height), num(opts.Width), num(opts.Height))
	sw.printf("<style>%s</style>\n", stylesheet)

	var matched, noData int
	sw.printf(`<g class="states">` + "\n")
	for _, f := range features {
		if f.Geometry == nil || f.Geometry.NumPolygons() == 0 {
			continue
		}
		rec, ok := lookup[model.NewRegionKey(f.Name)]
		class := model.NoData
		if ok {
			matched++
			class = rec.Class
		}
		if !class.Valid() {
			noData++
		}

		sw.printf(`<path class="state" d="%s" fill="%s" fill-rule="evenodd"`, pathData(f.Geometry, proj), opts.Palette.Color(class))
		if class.Valid() {
			sw.printf(` data-class="%s"`, class)
		}
		if f.ID != "" {
			sw.printf(` data-id="%s"`, escape(f.ID))
		}
		sw.printf("><title>%s</title></path>\n", escape(tooltip(f.Name, rec, ok)))
	}
	sw.printf("</g>\n")

	writeLegend(sw, res, opts)
	sw.printf("</svg>\n")

	if sw.err != nil {
		return sw.err
	}
	if err := sw.w.Flush(); err != nil {
		return err
	}

	zap.L().Debug("render: wrote svg",
		zap.Int("features", len(features)),
		zap.Int("matched", matched),
		zap.Int("no_data", noData),
	)
	return nil
}

const stylesheet = `.state{stroke:#fff;stroke-width:1}` +
	`.state:hover{stroke:#7C6673;stroke-width:2}` +
	`.legend-description{font:12px sans-serif}` +
	`.legend-value{font:11px sans-serif;text-anchor:end}`

// writeLegend draws the class grid with rate terciles on the vertical axis
// and vote terciles on the horizontal one.
func writeLegend(sw *svgWriter, res *model.Result, opts SVGOptions) {
	sw.printf(`<g class="legend" transform="translate(%s,%s)">`+"\n", num(opts.LegendX), num(opts.LegendY))
	for _, class := range model.AllClasses() {
		sw.printf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="black" data-class="%s"/>`+"\n",
			int(class.Vote())*legendCell, int(model.TercileHigh-class.Rate())*legendCell,
			legendCell, legendCell, opts.Palette.Color(class), class)
	}

	sw.printf(`<text x="15" y="55" class="legend-description" transform="rotate(90)">%s</text>`+"\n", escape(RateAxisLabel))
	if res != nil && res.Range != nil && res.Thresholds != nil {
		labels := []struct {
			y     int
			value float64
		}{
			{107, res.Range.Min},
			{70, res.Thresholds.LowRate},
			{40, res.Thresholds.HighRate},
			{10, res.Range.Max},
		}
		for _, l := range labels {
			sw.printf(`<text x="-30" y="%d" class="legend-value">%.2f</text>`+"\n", l.y, l.value)
		}
	}
	sw.printf(`<text x="-45" y="150" class="legend-description">%s</text>`+"\n", escape(VoteAxisLabel))
	sw.printf("</g>\n")
}

func tooltip(name string, rec model.ClassifiedRecord, found bool) string {
	if !found {
		return name + "\nNo data"
	}
	return fmt.Sprintf("%s\nIncident rate: %s\nRepublican votes: %s",
		name, formatValue(rec.Rate, ""), formatValue(rec.VoteShare, "%"))
}

func formatValue(v *float64, suffix string) string {
	if v == nil {
		return notAvail
	}
	return strconv.FormatFloat(*v, 'f', 2, 64) + suffix
}

// pathData renders every ring of mp as a closed subpath.
func pathData(mp *geom.MultiPolygon, proj Projection) string {
	var b strings.Builder
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		for j := 0; j < poly.NumLinearRings(); j++ {
			coords := poly.LinearRing(j).Coords()
			if len(coords) == 0 {
				continue
			}
			for k, c := range coords {
				if k == 0 {
					b.WriteByte('M')
				} else {
					b.WriteByte('L')
				}
				x, y := proj.Project(c)
				b.WriteString(strconv.FormatFloat(x, 'f', 2, 64))
				b.WriteByte(',')
				b.WriteString(strconv.FormatFloat(y, 'f', 2, 64))
			}
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// svgWriter keeps the first write error so callers can check once.
type svgWriter struct {
	w   *bufio.Writer
	err error
}

func (s *svgWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}
