// Package fetcher opens tabular and boundary sources from local files, HTTP, or FTP
// and parses delimited text and XLSX sheets into header-keyed rows.
package fetcher

import (
	"context"
	"io"
)

// Fetcher downloads a resource identified by a locator.
type Fetcher interface {
	// Download fetches the locator and returns its body. The caller closes it.
	Download(ctx context.Context, locator string) (io.ReadCloser, error)

	// DownloadToFile fetches the locator and writes it to path. Returns bytes written.
	DownloadToFile(ctx context.Context, locator string, path string) (int64, error)
}
