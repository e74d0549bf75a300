// Package source provides the suggestion sources the autocomplete
// controller fetches from: an in-memory catalog and a wrapper that
// simulates a slow, unreliable transport.
package source

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by Flaky when it simulates a failed request.
var ErrUnavailable = errors.New("mock server mocked an error, keep trying")

// Source returns the suggestions for a query. Implementations must return
// promptly once ctx is cancelled.
type Source interface {
	Fetch(ctx context.Context, query string) ([]string, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func(ctx context.Context, query string) ([]string, error)

// Fetch calls f(ctx, query).
func (f SourceFunc) Fetch(ctx context.Context, query string) ([]string, error) {
	return f(ctx, query)
}
