package ports

import (
	"context"

	"github.com/dugout-dev/dugout/internal/domain"
)

// Fetcher resolves descriptors to resource bodies.
type Fetcher interface {
	// Fetch returns the raw body of the resource named by d.
	// Failures are returned as *domain.ResolutionError.
	Fetch(ctx context.Context, d domain.Descriptor) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, d domain.Descriptor) ([]byte, error)

// Fetch calls f(ctx, d).
func (f FetcherFunc) Fetch(ctx context.Context, d domain.Descriptor) ([]byte, error) {
	return f(ctx, d)
}
