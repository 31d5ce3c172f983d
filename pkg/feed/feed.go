// Package feed implements in-process live queries: subscribers receive the
// latest published snapshot for their owner key. Delivery is latest-wins, so
// a slow consumer skips intermediate snapshots instead of blocking writers.
package feed

import (
	"sync"
	"time"
)

// Subscription is one consumer of a Feed. Receive snapshots from C until
// Done is closed. Cancel is safe to call multiple times and from any
// goroutine.
type Subscription[T any] struct {
	ch     chan T
	done   chan struct{}
	once   sync.Once
	detach func()
}

// C yields published snapshots. Only the most recent undelivered snapshot is
// retained.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Done is closed when the subscription is cancelled.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}

// Cancel detaches the subscription from its feed. Idempotent.
func (s *Subscription[T]) Cancel() {
	s.once.Do(func() {
		if s.detach != nil {
			s.detach()
		}
		close(s.done)
	})
}

func (s *Subscription[T]) offer(snapshot T) {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.ch <- snapshot:
		return
	default:
	}
	// Buffer full: evict the stale snapshot and retry once. Losing the
	// retry race means a concurrent publish already delivered something
	// newer, which latest-wins permits.
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- snapshot:
	default:
	}
}

// Feed is a broadcast hub keyed by owner (user ID). Publish replaces the
// pending snapshot of every subscription registered for that owner.
type Feed[T any] struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription[T]]struct{}
}

func New[T any]() *Feed[T] {
	return &Feed[T]{subs: make(map[string]map[*Subscription[T]]struct{})}
}

// Subscribe registers a new consumer for owner's snapshots.
func (f *Feed[T]) Subscribe(owner string) *Subscription[T] {
	sub := &Subscription[T]{
		ch:   make(chan T, 1),
		done: make(chan struct{}),
	}
	sub.detach = func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if set, ok := f.subs[owner]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(f.subs, owner)
			}
		}
	}

	f.mu.Lock()
	set, ok := f.subs[owner]
	if !ok {
		set = make(map[*Subscription[T]]struct{})
		f.subs[owner] = set
	}
	set[sub] = struct{}{}
	f.mu.Unlock()
	return sub
}

// Publish delivers snapshot to every live subscription for owner.
func (f *Feed[T]) Publish(owner string, snapshot T) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for sub := range f.subs[owner] {
		sub.offer(snapshot)
	}
}

// Pipe builds a standalone single-consumer subscription plus a push function
// feeding it. Used where a producer goroutine hands derived snapshots to
// exactly one watcher.
func Pipe[T any]() (*Subscription[T], func(T)) {
	sub := &Subscription[T]{
		ch:   make(chan T, 1),
		done: make(chan struct{}),
	}
	return sub, sub.offer
}

// Debouncer coalesces bursts of triggers into a single callback that fires
// after the configured quiet interval. Only the latest callback runs.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the quiet interval, replacing any
// previously scheduled callback.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
