// Package render writes a classified pipeline result as an SVG choropleth,
// a GeoJSON feature collection, or a JSON/YAML record listing.
package render

import "github.com/sells-group/bivariate-map/internal/model"

// NoDataColor fills regions without a class.
const NoDataColor = "#ccc"

// Palette maps each bivariate class to a fill color.
type Palette map[model.BivariateClass]string

// DefaultPalette is the 3x3 blue-red bivariate scheme. Rate increases
// toward blue, vote share toward red.
func DefaultPalette() Palette {
	return Palette{
		"00": "#e8e8e8", "01": "#e4acac", "02": "#c85a5a",
		"10": "#b0d5df", "11": "#ad9ea5", "12": "#985356",
		"20": "#64acbe", "21": "#627f8c", "22": "#574249",
	}
}

// Color returns the fill for class, or NoDataColor when it has none.
func (p Palette) Color(class model.BivariateClass) string {
	if c, ok := p[class]; ok && class.Valid() {
		return c
	}
	return NoDataColor
}
