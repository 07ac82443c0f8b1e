// Package fetcher downloads dataset snapshots from HTTP and FTP sources and
// decodes the tabular formats reference data ships in (CSV, JSON, XLSX, XML,
// ZIP-wrapped). `advisor datasets sync` is the only consumer; everything here
// is best-effort and a failed source never touches the bundled catalog.
package fetcher

import (
	"context"
	"io"
	"net/url"

	"github.com/rotisserie/eris"
)

// Fetcher retrieves one remote snapshot document.
type Fetcher interface {
	// Fetch returns the document body. The caller must close it.
	Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error)

	// FetchToFile writes the document to path and returns bytes written.
	FetchToFile(ctx context.Context, rawURL, path string) (int64, error)
}

// ForURL selects a fetcher by URL scheme: http/https or ftp.
func ForURL(rawURL string, opts HTTPOptions) (Fetcher, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: parse url %q", rawURL)
	}
	switch u.Scheme {
	case "http", "https":
		return NewHTTP(opts), nil
	case "ftp":
		return NewFTP(FTPOptions{Timeout: opts.Timeout}), nil
	default:
		return nil, eris.Errorf("fetcher: unsupported scheme %q", u.Scheme)
	}
}
