// Package poll drives the periodic refresh of each remote resource. Every
// resource has its own repeating timer; a due tick is dropped when the edit
// lock is held or when that resource's previous fetch is still in flight,
// so the same resource never has two overlapping requests and user input is
// never clobbered mid-edit.
package poll

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Resource is one remotely-fetched thing the scheduler keeps fresh. Refresh
// fetches it and commits the result to the cache; on error it must leave
// the previous cached value intact.
type Resource struct {
	Name     string
	Interval time.Duration
	Refresh  func(ctx context.Context) error
}

type resourceState struct {
	Resource

	inFlight atomic.Bool

	mu      sync.Mutex
	lastErr error
}

func (r *resourceState) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err
}

func (r *resourceState) err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Scheduler owns the refresh timers for a set of resources.
type Scheduler struct {
	lock      *EditLock
	log       zerolog.Logger
	resources []*resourceState
}

// NewScheduler creates a scheduler gated by the given edit lock.
func NewScheduler(lock *EditLock, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		lock: lock,
		log:  log.With().Str("component", "poll").Logger(),
	}
}

// Add registers a resource. All resources must be added before Run.
func (s *Scheduler) Add(r Resource) error {
	if r.Name == "" || r.Refresh == nil {
		return fmt.Errorf("resource needs a name and a refresh func")
	}
	if r.Interval <= 0 {
		return fmt.Errorf("resource %q: interval must be positive", r.Name)
	}
	s.resources = append(s.resources, &resourceState{Resource: r})
	return nil
}

// Run primes every resource once, then ticks each on its own interval until
// the context is canceled. It blocks until then.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, r := range s.resources {
		wg.Add(1)
		go func(r *resourceState) {
			defer wg.Done()
			s.loop(ctx, r)
		}(r)
	}
	wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, r *resourceState) {
	s.attempt(ctx, r)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.attempt(ctx, r)
		}
	}
}

// attempt issues one refresh unless suppressed. The fetch itself runs on
// its own goroutine so one slow resource cannot stall the others' timers,
// but the in-flight flag guarantees it never overlaps itself.
func (s *Scheduler) attempt(ctx context.Context, r *resourceState) {
	if s.lock.Held() {
		s.log.Debug().Str("resource", r.Name).Msg("refresh suppressed by edit lock")
		return
	}
	if !r.inFlight.CompareAndSwap(false, true) {
		s.log.Debug().Str("resource", r.Name).Msg("refresh already in flight")
		return
	}

	go func() {
		defer r.inFlight.Store(false)
		if err := r.Refresh(ctx); err != nil {
			// Cached state is untouched by a failed refresh; record the
			// error as the resource's staleness marker and keep polling.
			r.setErr(err)
			s.log.Warn().Err(err).Str("resource", r.Name).Msg("refresh failed")
			return
		}
		r.setErr(nil)
	}()
}

// Kick requests an immediate refresh attempt outside the timer, subject to
// the same edit-lock and single-flight suppression. Unknown names are a
// no-op.
func (s *Scheduler) Kick(ctx context.Context, name string) {
	for _, r := range s.resources {
		if r.Name == name {
			s.attempt(ctx, r)
			return
		}
	}
}

// LastError returns the staleness marker for a resource: the error from its
// most recent refresh, or nil after a success. Unknown names return nil.
func (s *Scheduler) LastError(name string) error {
	for _, r := range s.resources {
		if r.Name == name {
			return r.err()
		}
	}
	return nil
}
