package source

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticSource(items ...string) Source {
	return SourceFunc(func(context.Context, string) ([]string, error) {
		return items, nil
	})
}

func TestFlakyDefaults(t *testing.T) {
	f := NewFlaky(staticSource())
	assert.Equal(t, DefaultMaxDelay, f.MaxDelay())
	assert.InDelta(t, DefaultErrorRate, f.ErrorRate(), 0)
}

func TestFlakyErrorRateClamped(t *testing.T) {
	assert.InDelta(t, 1.0, NewFlaky(staticSource(), WithErrorRate(7)).ErrorRate(), 0)
	assert.InDelta(t, 0.0, NewFlaky(staticSource(), WithErrorRate(-1)).ErrorRate(), 0)
}

func TestFlakyNeverFailsAtZeroRate(t *testing.T) {
	f := NewFlaky(staticSource("cats"), WithMaxDelay(0), WithErrorRate(0))
	for range 50 {
		got, err := f.Fetch(context.Background(), "cat")
		require.NoError(t, err)
		assert.Equal(t, []string{"cats"}, got)
	}
}

func TestFlakyAlwaysFailsAtFullRate(t *testing.T) {
	f := NewFlaky(staticSource("cats"), WithMaxDelay(0), WithErrorRate(1))
	_, err := f.Fetch(context.Background(), "cat")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "mock server mocked an error, keep trying", err.Error())
}

func TestFlakyIsReproducibleWithSeed(t *testing.T) {
	run := func() []bool {
		f := NewFlaky(staticSource("x"),
			WithMaxDelay(0),
			WithErrorRate(0.5),
			WithRand(rand.New(rand.NewPCG(1, 2))),
		)
		var out []bool
		for range 20 {
			_, err := f.Fetch(context.Background(), "q")
			out = append(out, err != nil)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestFlakyCancelDuringDelay(t *testing.T) {
	f := NewFlaky(staticSource("cats"), WithMaxDelay(time.Hour), WithErrorRate(0))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := f.Fetch(ctx, "cat")
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, errors.Is(err, ErrUnavailable))
	case <-time.After(5 * time.Second):
		t.Fatal("fetch ignored cancellation")
	}
}

func TestFlakyDelayIsBounded(t *testing.T) {
	f := NewFlaky(staticSource("cats"), WithMaxDelay(20*time.Millisecond), WithErrorRate(0))
	start := time.Now()
	_, err := f.Fetch(context.Background(), "cat")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
