package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Opener dispatches a locator to the Fetcher registered for its scheme.
// Locators without a scheme are local paths.
type Opener struct {
	schemes map[string]Fetcher
}

// NewOpener builds an Opener for file, http, https, and ftp locators.
func NewOpener(httpOpts HTTPOptions, ftpOpts FTPOptions) *Opener {
	httpFetcher := NewHTTPFetcher(httpOpts)
	return &Opener{schemes: map[string]Fetcher{
		"file":  NewFileFetcher(),
		"http":  httpFetcher,
		"https": httpFetcher,
		"ftp":   NewFTPFetcher(ftpOpts),
	}}
}

// Scheme returns the lowercased scheme of locator, or "file" for plain paths.
func Scheme(locator string) string {
	u, err := url.Parse(locator)
	if err != nil || len(u.Scheme) < 2 {
		// Windows drive letters parse as one-letter schemes.
		return "file"
	}
	return strings.ToLower(u.Scheme)
}

// IsLocal reports whether locator names a file on this machine.
func IsLocal(locator string) bool {
	return Scheme(locator) == "file"
}

// Ext returns the lowercased extension of the locator's path component.
func Ext(locator string) string {
	if IsLocal(locator) {
		return strings.ToLower(filepath.Ext(filePath(locator)))
	}
	u, err := url.Parse(locator)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

func (o *Opener) fetcherFor(locator string) (Fetcher, error) {
	scheme := Scheme(locator)
	f, ok := o.schemes[scheme]
	if !ok {
		return nil, eris.Errorf("fetcher: unsupported scheme %q in %s", scheme, locator)
	}
	return f, nil
}

// Open returns a reader over the resource named by locator.
func (o *Opener) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	f, err := o.fetcherFor(locator)
	if err != nil {
		return nil, err
	}
	return f.Download(ctx, locator)
}

// LocalPath returns a filesystem path holding the resource. Local locators
// are returned as is; remote ones are downloaded into dir.
func (o *Opener) LocalPath(ctx context.Context, locator, dir string) (string, error) {
	if IsLocal(locator) {
		p := filePath(locator)
		if _, err := os.Stat(p); err != nil {
			return "", eris.Wrapf(err, "fetcher: stat %s", locator)
		}
		return p, nil
	}
	f, err := o.fetcherFor(locator)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(locator)
	if err != nil {
		return "", eris.Wrap(err, "fetcher: parse locator")
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		name = "download"
	}
	dest := filepath.Join(dir, name)
	if _, err := f.DownloadToFile(ctx, locator, dest); err != nil {
		return "", eris.Wrapf(err, "fetcher: download %s", locator)
	}
	return dest, nil
}
