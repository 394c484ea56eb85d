package fs

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dugout-dev/dugout/internal/domain"
)

// Fetcher implements ports.Fetcher over a site directory.
// Descriptors are resolved like URL paths below the root: "./JSON/a.json" and
// "/JSON/a.json" both name <root>/JSON/a.json, and ".." never leaves the root.
type Fetcher struct {
	root string
}

// NewFetcher creates a Fetcher serving files below root.
func NewFetcher(root string) *Fetcher {
	return &Fetcher{root: root}
}

// Path returns the file a descriptor resolves to.
func (f *Fetcher) Path(d domain.Descriptor) string {
	clean := path.Clean("/" + strings.TrimPrefix(string(d), "./"))
	return filepath.Join(f.root, filepath.FromSlash(clean))
}

// Fetch reads the file named by d.
func (f *Fetcher) Fetch(ctx context.Context, d domain.Descriptor) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.ResolutionError{Descriptor: d, Err: err}
	}

	data, err := os.ReadFile(f.Path(d))
	if err != nil {
		return nil, resolutionError(d, err)
	}
	return data, nil
}

// resolutionError maps file system failures onto HTTP-like statuses, the way a
// static file server in front of the same directory would answer.
func resolutionError(d domain.Descriptor, err error) error {
	status := 0
	switch {
	case errors.Is(err, os.ErrNotExist):
		status = http.StatusNotFound
	case errors.Is(err, os.ErrPermission):
		status = http.StatusForbidden
	}
	return &domain.ResolutionError{
		Descriptor: d,
		Status:     status,
		Reason:     http.StatusText(status),
		Err:        err,
	}
}
