package render

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/bivariate-map/internal/model"
)

// Format is a record listing encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml, or yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", eris.Errorf("render: unknown format %q (want json or yaml)", s)
	}
}

// WriteRecords writes the full result: records in pipeline order, the
// thresholds, and the rate range.
func WriteRecords(w io.Writer, res *model.Result, format Format) error {
	if res == nil {
		return eris.New("render: no result to write")
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return eris.Wrap(err, "render: encode json")
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return eris.Wrap(err, "render: encode yaml")
		}
		if err := enc.Close(); err != nil {
			return eris.Wrap(err, "render: close yaml encoder")
		}
	default:
		return eris.Errorf("render: unknown format %q", format)
	}
	return nil
}
