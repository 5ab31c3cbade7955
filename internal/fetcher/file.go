package fetcher

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// FileFetcher reads resources from the local filesystem. Locators may be
// plain paths or file:// URLs.
type FileFetcher struct{}

// NewFileFetcher creates a FileFetcher.
func NewFileFetcher() *FileFetcher {
	return &FileFetcher{}
}

// Download opens the file named by locator.
func (f *FileFetcher) Download(ctx context.Context, locator string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "file: context cancelled")
	}
	file, err := os.Open(filePath(locator))
	if err != nil {
		return nil, eris.Wrapf(err, "file: open %s", locator)
	}
	return file, nil
}

// DownloadToFile copies the file named by locator to path.
func (f *FileFetcher) DownloadToFile(ctx context.Context, locator string, path string) (int64, error) {
	return copyToFile(ctx, f, locator, path)
}

func filePath(locator string) string {
	return strings.TrimPrefix(locator, "file://")
}

// copyToFile streams a download from any Fetcher into a local file.
func copyToFile(ctx context.Context, f Fetcher, locator, path string) (int64, error) {
	body, err := f.Download(ctx, locator)
	if err != nil {
		return 0, err
	}
	defer body.Close() //nolint:errcheck

	out, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "create file")
	}
	defer out.Close() //nolint:errcheck

	n, err := io.Copy(out, body)
	if err != nil {
		return n, eris.Wrap(err, "write file")
	}
	return n, nil
}
