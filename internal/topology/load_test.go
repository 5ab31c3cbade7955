package topology

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bivariate-map/internal/fetcher"
)

const squaresGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Ohio"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[0,1],[1,1],[1,0],[0,0]]]}},
    {"type": "Feature", "properties": {"name": "Hawaii"},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[5,5],[5,6],[6,6],[5,5]]], [[[7,7],[7,8],[8,8],[7,7]]]]}},
    {"type": "Feature", "properties": {"name": "Capital"},
     "geometry": {"type": "Point", "coordinates": [3,3]}}
  ]
}`

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	return NewLoader(fetcher.NewOpener(fetcher.HTTPOptions{}, fetcher.FTPOptions{}), t.TempDir())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_TopoJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "states.json", sharedEdgeTopology)

	features, err := newTestLoader(t).Load(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "Ohio", features[0].Name)
}

func TestLoader_GeoJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "states.geojson", squaresGeoJSON)

	features, err := newTestLoader(t).Load(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Len(t, features, 2, "points are skipped")
	assert.Equal(t, "Ohio", features[0].Name)
	assert.Equal(t, 1, features[0].Geometry.NumPolygons())
	assert.Equal(t, "Hawaii", features[1].Name)
	assert.Equal(t, 2, features[1].Geometry.NumPolygons())
}

func TestLoader_UnknownObject(t *testing.T) {
	path := writeFile(t, t.TempDir(), "states.json", sharedEdgeTopology)

	_, err := newTestLoader(t).Load(context.Background(), path, Options{Object: "counties"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `object "counties" not found`)
}

func TestLoader_UnsupportedType(t *testing.T) {
	path := writeFile(t, t.TempDir(), "point.json", `{"type": "Point", "coordinates": [0, 0]}`)

	_, err := newTestLoader(t).Load(context.Background(), path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported type "Point"`)
}

func TestLoader_Shapefile(t *testing.T) {
	path := writeShapefile(t, t.TempDir(), "Ohio")

	features, err := newTestLoader(t).Load(context.Background(), path, Options{NameField: "NAME"})
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "Ohio", features[0].Name)
}

func TestLoader_ZippedShapefile(t *testing.T) {
	src := t.TempDir()
	writeShapefile(t, src, "Ohio", "Utah")

	zipPath := filepath.Join(t.TempDir(), "states.zip")
	out, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		w, err := zw.Create("states" + ext)
		require.NoError(t, err)
		in, err := os.Open(filepath.Join(src, "states"+ext))
		require.NoError(t, err)
		_, err = io.Copy(w, in)
		require.NoError(t, err)
		require.NoError(t, in.Close())
	}
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	features, err := newTestLoader(t).Load(context.Background(), zipPath, Options{NameField: "NAME"})
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "Utah", features[1].Name)
}

func TestLoader_RemoteShapefile(t *testing.T) {
	_, err := newTestLoader(t).Load(context.Background(), "https://example.com/states.shp", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be zipped")
}
