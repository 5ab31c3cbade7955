package topology

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bivariate-map/internal/fetcher"
)

// Options selects what to read from a boundary file.
type Options struct {
	Object    string // TopoJSON object name, default "states"
	NameField string // property or attribute holding the region name, default "name"
}

func (o Options) withDefaults() Options {
	if o.Object == "" {
		o.Object = "states"
	}
	if o.NameField == "" {
		o.NameField = "name"
	}
	return o
}

// Loader fetches boundary files through a fetcher.Opener.
type Loader struct {
	opener  *fetcher.Opener
	tempDir string
}

// NewLoader creates a Loader. Remote shapefile archives are staged in tempDir.
func NewLoader(opener *fetcher.Opener, tempDir string) *Loader {
	return &Loader{opener: opener, tempDir: tempDir}
}

// Load reads the boundary features named by locator. The format is chosen
// by extension: .zip and .shp are shapefiles, anything else is TopoJSON or
// GeoJSON depending on its "type" member.
func (l *Loader) Load(ctx context.Context, locator string, opts Options) ([]Feature, error) {
	opts = opts.withDefaults()
	log := zap.L().With(zap.String("boundary", locator))

	var features []Feature
	var err error
	switch fetcher.Ext(locator) {
	case ".zip":
		features, err = l.loadZIP(ctx, locator, opts)
	case ".shp":
		if !fetcher.IsLocal(locator) {
			return nil, eris.Errorf("topology: remote shapefile %s must be zipped with its .dbf", locator)
		}
		var path string
		if path, err = l.opener.LocalPath(ctx, locator, ""); err == nil {
			features, err = ReadShapefile(path, opts.NameField)
		}
	default:
		features, err = l.loadJSON(ctx, locator, opts)
	}
	if err != nil {
		return nil, err
	}

	log.Info("topology: loaded boundaries", zap.Int("features", len(features)))
	return features, nil
}

func (l *Loader) loadJSON(ctx context.Context, locator string, opts Options) ([]Feature, error) {
	body, err := l.opener.Open(ctx, locator)
	if err != nil {
		return nil, eris.Wrapf(err, "topology: open %s", locator)
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrapf(err, "topology: read %s", locator)
	}

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, eris.Wrapf(err, "topology: decode %s", locator)
	}

	switch head.Type {
	case "Topology":
		topo, err := DecodeTopoJSON(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return topo.Features(opts.Object, opts.NameField)
	case "FeatureCollection":
		return DecodeGeoJSON(data, opts.NameField)
	default:
		return nil, eris.Errorf("topology: %s has unsupported type %q", locator, head.Type)
	}
}

func (l *Loader) loadZIP(ctx context.Context, locator string, opts Options) ([]Feature, error) {
	dir := l.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	staging, err := os.MkdirTemp(dir, "boundary-*")
	if err != nil {
		return nil, eris.Wrap(err, "topology: create staging dir")
	}
	defer os.RemoveAll(staging) //nolint:errcheck

	zipPath, err := l.opener.LocalPath(ctx, locator, staging)
	if err != nil {
		return nil, eris.Wrapf(err, "topology: fetch %s", locator)
	}
	files, err := fetcher.ExtractZIP(zipPath, staging)
	if err != nil {
		return nil, err
	}
	shpPath, ok := fetcher.FindExt(files, ".shp")
	if !ok {
		return nil, eris.Errorf("topology: no .shp file in %s", locator)
	}
	return ReadShapefile(shpPath, opts.NameField)
}
