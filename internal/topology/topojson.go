package topology

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Topology is a decoded TopoJSON document.
type Topology struct {
	Type      string                    `json:"type"`
	Transform *Transform                `json:"transform,omitempty"`
	Objects   map[string]GeometryObject `json:"objects"`
	Arcs      [][][]float64             `json:"arcs"`
}

// Transform maps quantized integer positions back to coordinates.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// GeometryObject is a TopoJSON geometry or geometry collection. Arcs is
// kept raw because its nesting depth depends on Type.
type GeometryObject struct {
	Type       string           `json:"type"`
	ID         any              `json:"id,omitempty"`
	Properties map[string]any   `json:"properties,omitempty"`
	Arcs       json.RawMessage  `json:"arcs,omitempty"`
	Geometries []GeometryObject `json:"geometries,omitempty"`
}

// DecodeTopoJSON parses a TopoJSON topology.
func DecodeTopoJSON(r io.Reader) (*Topology, error) {
	var t Topology
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, eris.Wrap(err, "topojson: decode")
	}
	if t.Type != "Topology" {
		return nil, eris.Errorf("topojson: unexpected type %q", t.Type)
	}
	return &t, nil
}

// ObjectNames lists the topology's named objects in sorted order.
func (t *Topology) ObjectNames() []string {
	names := make([]string, 0, len(t.Objects))
	for n := range t.Objects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Features converts the polygonal geometries of the named object into
// features. The feature name is read from the nameProp property.
// Geometries of other types are skipped.
func (t *Topology) Features(object, nameProp string) ([]Feature, error) {
	obj, ok := t.Objects[object]
	if !ok {
		return nil, eris.Errorf("topojson: object %q not found (have %s)", object, strings.Join(t.ObjectNames(), ", "))
	}

	arcs := t.decodeArcs()
	var features []Feature
	var skipped int

	var walk func(g GeometryObject) error
	walk = func(g GeometryObject) error {
		switch g.Type {
		case "GeometryCollection":
			for _, child := range g.Geometries {
				if err := walk(child); err != nil {
					return err
				}
			}
			return nil
		case "Polygon", "MultiPolygon":
			mp, err := multiPolygon(g, arcs)
			if err != nil {
				return err
			}
			features = append(features, Feature{
				Name:     propertyString(g.Properties, nameProp),
				ID:       idString(g.ID),
				Geometry: mp,
			})
			return nil
		default:
			skipped++
			return nil
		}
	}
	if err := walk(obj); err != nil {
		return nil, eris.Wrapf(err, "topojson: object %q", object)
	}

	if skipped > 0 {
		zap.L().Debug("topojson: skipped non-polygonal geometries",
			zap.String("object", object),
			zap.Int("skipped", skipped),
		)
	}
	return features, nil
}

// decodeArcs applies the transform. Quantized arcs are delta-encoded.
func (t *Topology) decodeArcs() [][]geom.Coord {
	out := make([][]geom.Coord, len(t.Arcs))
	for i, arc := range t.Arcs {
		coords := make([]geom.Coord, 0, len(arc))
		var x, y float64
		for _, pos := range arc {
			if len(pos) < 2 {
				continue
			}
			if t.Transform == nil {
				coords = append(coords, geom.Coord{pos[0], pos[1]})
				continue
			}
			x += pos[0]
			y += pos[1]
			coords = append(coords, geom.Coord{
				x*t.Transform.Scale[0] + t.Transform.Translate[0],
				y*t.Transform.Scale[1] + t.Transform.Translate[1],
			})
		}
		out[i] = coords
	}
	return out
}

func multiPolygon(g GeometryObject, arcs [][]geom.Coord) (*geom.MultiPolygon, error) {
	var polys [][][]int
	switch g.Type {
	case "Polygon":
		var rings [][]int
		if len(g.Arcs) > 0 {
			if err := json.Unmarshal(g.Arcs, &rings); err != nil {
				return nil, eris.Wrap(err, "decode polygon arcs")
			}
		}
		polys = [][][]int{rings}
	case "MultiPolygon":
		if len(g.Arcs) > 0 {
			if err := json.Unmarshal(g.Arcs, &polys); err != nil {
				return nil, eris.Wrap(err, "decode multipolygon arcs")
			}
		}
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for _, rings := range polys {
		coords := make([][]geom.Coord, 0, len(rings))
		for _, ring := range rings {
			c, err := stitch(ring, arcs)
			if err != nil {
				return nil, err
			}
			coords = append(coords, c)
		}
		if len(coords) == 0 {
			continue
		}
		poly, err := geom.NewPolygon(geom.XY).SetCoords(coords)
		if err != nil {
			return nil, eris.Wrap(err, "build polygon")
		}
		if err := mp.Push(poly); err != nil {
			return nil, eris.Wrap(err, "push polygon")
		}
	}
	return mp, nil
}

// stitch joins the arcs of one ring. A negative index ~i refers to arc i
// reversed. Consecutive arcs share an endpoint, so the first point of each
// arc after the first is dropped.
func stitch(indices []int, arcs [][]geom.Coord) ([]geom.Coord, error) {
	var ring []geom.Coord
	for k, idx := range indices {
		i, reversed := idx, false
		if idx < 0 {
			i, reversed = ^idx, true
		}
		if i >= len(arcs) {
			return nil, eris.Errorf("arc index %d out of range (%d arcs)", idx, len(arcs))
		}

		arc := arcs[i]
		if reversed {
			arc = reverse(arc)
		}
		if k > 0 && len(arc) > 0 {
			arc = arc[1:]
		}
		ring = append(ring, arc...)
	}
	return ring, nil
}

func reverse(coords []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, len(coords))
	for i, c := range coords {
		out[len(coords)-1-i] = c
	}
	return out
}

func propertyString(props map[string]any, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}

func idString(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}
