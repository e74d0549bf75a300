package source

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

const (
	// DefaultMaxDelay is the upper bound of the simulated latency.
	DefaultMaxDelay = 3 * time.Second
	// DefaultErrorRate is the probability of a simulated failure.
	DefaultErrorRate = 0.5
)

// FlakyOption configures a Flaky source.
type FlakyOption func(*Flaky)

// WithMaxDelay bounds the simulated latency. Zero disables the delay.
func WithMaxDelay(d time.Duration) FlakyOption {
	return func(f *Flaky) {
		if d >= 0 {
			f.maxDelay = d
		}
	}
}

// WithErrorRate sets the failure probability, clamped to [0, 1].
func WithErrorRate(rate float64) FlakyOption {
	return func(f *Flaky) { f.errorRate = min(max(rate, 0), 1) }
}

// WithRand makes delays and failures reproducible.
func WithRand(r *rand.Rand) FlakyOption {
	return func(f *Flaky) { f.rng = r }
}

// WithFlakyLogger attaches a logger for simulated failures.
func WithFlakyLogger(lgr logr.Logger) FlakyOption {
	return func(f *Flaky) { f.log = lgr }
}

// Flaky wraps a Source with a random delay in [0, MaxDelay) and fails with
// ErrUnavailable at the configured rate. Failures are decided after the
// delay, so a cancelled request never reports one.
type Flaky struct {
	next      Source
	maxDelay  time.Duration
	errorRate float64
	log       logr.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewFlaky wraps next.
func NewFlaky(next Source, opts ...FlakyOption) *Flaky {
	f := &Flaky{
		next:      next,
		maxDelay:  DefaultMaxDelay,
		errorRate: DefaultErrorRate,
		log:       logr.Discard(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // simulated latency, not security sensitive
	}
	return f
}

// MaxDelay returns the latency upper bound.
func (f *Flaky) MaxDelay() time.Duration { return f.maxDelay }

// ErrorRate returns the failure probability.
func (f *Flaky) ErrorRate() float64 { return f.errorRate }

// Fetch waits for the simulated latency, then fails or delegates.
func (f *Flaky) Fetch(ctx context.Context, query string) ([]string, error) {
	delay, fail := f.roll()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		f.log.V(1).Info("simulated fetch failure", "query", query, "delay", delay)
		return nil, ErrUnavailable
	}
	return f.next.Fetch(ctx, query)
}

func (f *Flaky) roll() (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var delay time.Duration
	if f.maxDelay > 0 {
		delay = time.Duration(f.rng.Int64N(int64(f.maxDelay)))
	}
	return delay, f.rng.Float64() < f.errorRate
}
