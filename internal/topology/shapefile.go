package topology

import (
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// ReadShapefile reads the polygon records of a shapefile. The feature name
// comes from the nameField attribute, matched case-insensitively.
func ReadShapefile(shpPath, nameField string) ([]Feature, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "shapefile: open %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, nameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, eris.Errorf("shapefile: %s has no field %q", shpPath, nameField)
	}

	var features []Feature
	var skipped int
	for reader.Next() {
		n, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}
		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		features = append(features, Feature{
			Name:     name,
			ID:       strconv.Itoa(n),
			Geometry: mp,
		})
	}

	if skipped > 0 {
		zap.L().Debug("shapefile: skipped records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	return features, nil
}

// polygonToMultiPolygon turns each shapefile part into its own polygon.
// Holes are not matched to shells; renderers use the even-odd fill rule.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	numPoints := int32(len(p.Points))
	for i := int32(0); i < p.NumParts; i++ {
		if int(i) >= len(p.Parts) {
			zap.L().Debug("shapefile: part index missing", zap.Int32("part", i))
			break
		}
		start := p.Parts[i]
		end := numPoints
		if i+1 < p.NumParts && int(i+1) < len(p.Parts) {
			end = p.Parts[i+1]
		}
		if start < 0 || end > numPoints || end < start {
			zap.L().Debug("shapefile: skipping part with bad offsets",
				zap.Int32("part", i), zap.Int32("start", start), zap.Int32("end", end))
			continue
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			zap.L().Debug("shapefile: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("shapefile: skipping malformed part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
