package autocomplete

import (
	"context"
	"errors"
	"sync"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/typeahead/pkg/logger"
)

// ErrServiceStopped is returned when events are sent to a stopped Service.
var ErrServiceStopped = errors.New("autocomplete: service stopped")

// Fetcher is the suggestion capability the controller depends on. Latency
// and failure behaviour are up to the implementation; Fetch should return
// promptly once ctx is cancelled.
type Fetcher interface {
	Fetch(ctx context.Context, query string) ([]string, error)
}

// FetcherFunc adapts a plain function to Fetcher.
type FetcherFunc func(ctx context.Context, query string) ([]string, error)

// Fetch calls f(ctx, query).
func (f FetcherFunc) Fetch(ctx context.Context, query string) ([]string, error) {
	return f(ctx, query)
}

const serviceQueueSize = 64

// Service interprets a Machine. Events are processed one at a time on a
// single goroutine; fetch effects run on their own goroutines under a
// context that is cancelled as soon as the machine leaves the fetching
// activation that started them.
type Service struct {
	machine *Machine
	fetcher Fetcher
	log     logr.Logger

	ctx    context.Context
	cancel context.CancelFunc
	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup

	// owned by the loop goroutine
	inflight map[uint64]context.CancelFunc

	mu       sync.Mutex
	snapshot Snapshot
	subs     map[int]func(Snapshot)
	nextSub  int
}

// NewService starts a Service backed by fetcher. The service stops when ctx
// is cancelled or Stop is called. The logger is taken from ctx unless
// WithLogger is given.
func NewService(ctx context.Context, fetcher Fetcher, opts ...Option) *Service {
	lgr := logger.FromContext(ctx).WithName("autocomplete")
	opts = append([]Option{WithLogger(lgr)}, opts...)
	m := NewMachine(opts...)

	sctx, cancel := context.WithCancel(ctx)
	s := &Service{
		machine:  m,
		fetcher:  fetcher,
		log:      m.log,
		ctx:      sctx,
		cancel:   cancel,
		events:   make(chan Event, serviceQueueSize),
		done:     make(chan struct{}),
		inflight: map[uint64]context.CancelFunc{},
		snapshot: m.Snapshot(),
		subs:     map[int]func(Snapshot){},
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

// Send queues an event for processing.
func (s *Service) Send(ev Event) error {
	if s.ctx.Err() != nil {
		return ErrServiceStopped
	}
	select {
	case s.events <- ev:
		return nil
	case <-s.ctx.Done():
		return ErrServiceStopped
	}
}

// Snapshot returns the state after the most recently processed event.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// OnTransition registers fn to be called after every event that changed
// the machine. fn runs on the service goroutine, in event order, and must
// not block. fn must not call Send synchronously: once the queue is full the
// loop would wait on itself. React from a new goroutine instead.
// The returned function unregisters it.
func (s *Service) OnTransition(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// WaitFor blocks until a snapshot satisfies pred, ctx is done, or the
// service stops.
func (s *Service) WaitFor(ctx context.Context, pred func(Snapshot) bool) (Snapshot, error) {
	ch := make(chan Snapshot, 1)
	unsubscribe := s.OnTransition(func(snap Snapshot) {
		if pred(snap) {
			select {
			case ch <- snap:
			default:
			}
		}
	})
	defer unsubscribe()

	if snap := s.Snapshot(); pred(snap) {
		return snap, nil
	}
	select {
	case snap := <-ch:
		return snap, nil
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	case <-s.done:
		return s.Snapshot(), ErrServiceStopped
	}
}

// Sync blocks until every event queued before the call has been processed
// and returns the resulting snapshot. Events that changed nothing do not
// notify subscribers, so Sync is how a caller knows they were seen.
func (s *Service) Sync(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := s.Send(syncEvent{reply: reply}); err != nil {
		return s.Snapshot(), err
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	case <-s.done:
		return s.Snapshot(), ErrServiceStopped
	}
}

// Stop cancels in-flight fetches and waits for all goroutines to exit.
func (s *Service) Stop() {
	s.cancel()
	s.wg.Wait()
}

// Done is closed once the event loop has exited.
func (s *Service) Done() <-chan struct{} { return s.done }

func (s *Service) loop() {
	defer s.wg.Done()
	defer close(s.done)
	for {
		select {
		case ev := <-s.events:
			s.process(ev)
		case <-s.ctx.Done():
			for gen, cancel := range s.inflight {
				cancel()
				delete(s.inflight, gen)
			}
			return
		}
	}
}

func (s *Service) process(ev Event) {
	if barrier, ok := ev.(syncEvent); ok {
		barrier.reply <- s.Snapshot()
		return
	}
	if gen, ok := generationOf(ev); ok {
		if cancel, found := s.inflight[gen]; found {
			cancel()
			delete(s.inflight, gen)
		}
	}

	snap, effects := s.machine.Send(ev)
	for _, eff := range effects {
		switch e := eff.(type) {
		case FetchEffect:
			s.startFetch(e)
		case CancelEffect:
			if cancel, found := s.inflight[e.Generation]; found {
				s.log.V(1).Info("cancelling stale fetch", "generation", e.Generation)
				cancel()
				delete(s.inflight, e.Generation)
			}
		}
	}

	s.mu.Lock()
	s.snapshot = snap
	var subs []func(Snapshot)
	if snap.Changed {
		subs = make([]func(Snapshot), 0, len(s.subs))
		for _, fn := range s.subs {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Service) startFetch(e FetchEffect) {
	fctx, cancel := context.WithCancel(s.ctx)
	s.inflight[e.Generation] = cancel
	s.log.V(1).Info("fetch started", "generation", e.Generation, "query", e.Query)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		data, err := s.fetcher.Fetch(fctx, e.Query)
		if fctx.Err() != nil {
			s.log.V(2).Info("fetch abandoned", "generation", e.Generation, "query", e.Query)
			return
		}

		var result Event
		if err != nil {
			s.log.V(1).Info("fetch failed", "generation", e.Generation, "query", e.Query, "error", err.Error())
			result = FetchFailed{Generation: e.Generation, Err: err}
		} else {
			s.log.V(1).Info("fetch succeeded", "generation", e.Generation, "query", e.Query, "count", len(data))
			result = FetchSucceeded{Generation: e.Generation, Data: data}
		}
		select {
		case s.events <- result:
		case <-s.ctx.Done():
		}
	}()
}
