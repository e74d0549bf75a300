package source

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-logr/logr"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/oakwood-commons/typeahead/internal/limiter"
)

// MatchMode selects how a Catalog matches queries against its corpus.
type MatchMode string

const (
	// MatchSubstring keeps entries containing the query, case-insensitively,
	// in corpus order.
	MatchSubstring MatchMode = "substring"
	// MatchFuzzy keeps entries containing the query's characters in order,
	// ranked by edit distance.
	MatchFuzzy MatchMode = "fuzzy"
)

// DefaultLimit is the number of suggestions a Catalog returns when no
// window is configured.
const DefaultLimit = 5

// ParseMatchMode converts a flag or config value to a MatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", MatchSubstring:
		return MatchSubstring, nil
	case MatchFuzzy:
		return MatchFuzzy, nil
	default:
		return "", fmt.Errorf("unknown match mode %q (want %s or %s)", s, MatchSubstring, MatchFuzzy)
	}
}

// matcher returns the corpus entries matching query, best first.
type matcher func(query string, items, lowered []string) []string

var matchers = map[MatchMode]matcher{
	MatchSubstring: matchSubstring,
	MatchFuzzy:     matchFuzzy,
}

func matchSubstring(query string, items, lowered []string) []string {
	q := strings.ToLower(query)
	var out []string
	for i, l := range lowered {
		if strings.Contains(l, q) {
			out = append(out, items[i])
		}
	}
	return out
}

func matchFuzzy(query string, items, _ []string) []string {
	ranks := fuzzy.RankFindNormalizedFold(query, items)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})
	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
	}
	return out
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithMatchMode selects the matching strategy.
func WithMatchMode(m MatchMode) CatalogOption {
	return func(c *Catalog) { c.mode = m }
}

// WithWindow sets the limit/offset applied to every result list.
func WithWindow(w limiter.Config) CatalogOption {
	return func(c *Catalog) { c.window = w }
}

// WithLogger attaches a logger for query tracing.
func WithLogger(lgr logr.Logger) CatalogOption {
	return func(c *Catalog) { c.log = lgr }
}

// Catalog is an in-memory Source over a fixed corpus. It is safe for
// concurrent use.
type Catalog struct {
	items   []string
	lowered []string
	mode    MatchMode
	window  limiter.Config
	log     logr.Logger
}

// NewCatalog builds a catalog over items. The corpus is copied.
func NewCatalog(items []string, opts ...CatalogOption) (*Catalog, error) {
	c := &Catalog{
		items:  slices.Clone(items),
		mode:   MatchSubstring,
		window: limiter.Config{Limit: DefaultLimit},
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, ok := matchers[c.mode]; !ok {
		return nil, fmt.Errorf("unknown match mode %q", c.mode)
	}
	if err := c.window.Validate(); err != nil {
		return nil, fmt.Errorf("invalid result window: %w", err)
	}
	c.lowered = make([]string, len(c.items))
	for i, it := range c.items {
		c.lowered[i] = strings.ToLower(it)
	}
	return c, nil
}

// Len returns the corpus size.
func (c *Catalog) Len() int { return len(c.items) }

// Mode returns the configured match mode.
func (c *Catalog) Mode() MatchMode { return c.mode }

// Fetch returns the windowed matches for query. An empty query matches
// nothing.
func (c *Catalog) Fetch(ctx context.Context, query string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query == "" {
		return []string{}, nil
	}
	matches := matchers[c.mode](query, c.items, c.lowered)
	out := slices.Clone(limiter.Apply(c.window, matches))
	if out == nil {
		out = []string{}
	}
	c.log.V(2).Info("catalog lookup", "query", query, "mode", c.mode, "matches", len(matches), "returned", len(out))
	return out, nil
}
