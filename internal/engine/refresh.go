package engine

import (
	"context"
	"sync"
)

// RefreshQueue coalesces background render requests: at most one render
// runs at a time, and any burst of schedules while one is in flight
// collapses into a single follow-up run against the newest state.
// Superseded runs are cancelled through their context.
type RefreshQueue struct {
	work func(context.Context)

	mu     sync.Mutex
	kick   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
	stop   sync.Once
}

// NewRefreshQueue starts the worker goroutine.
func NewRefreshQueue(work func(context.Context)) *RefreshQueue {
	q := &RefreshQueue{
		work: work,
		kick: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.loop()
	return q
}

// Schedule requests a refresh. Never blocks: a pending request already
// covers this one. A run in flight is cancelled so the worker moves on
// to the newest state.
func (q *RefreshQueue) Schedule() {
	q.mu.Lock()
	if q.cancel != nil {
		q.cancel()
	}
	q.mu.Unlock()

	select {
	case q.kick <- struct{}{}:
	default:
	}
}

// Stop shuts the worker down. Pending requests are dropped. Safe to
// call more than once.
func (q *RefreshQueue) Stop() {
	q.stop.Do(func() {
		q.mu.Lock()
		if q.cancel != nil {
			q.cancel()
		}
		q.mu.Unlock()
		close(q.done)
	})
}

func (q *RefreshQueue) loop() {
	for {
		select {
		case <-q.done:
			return
		case <-q.kick:
		}

		ctx, cancel := context.WithCancel(context.Background())
		q.mu.Lock()
		q.cancel = cancel
		q.mu.Unlock()

		q.work(ctx)

		q.mu.Lock()
		q.cancel = nil
		q.mu.Unlock()
		cancel()
	}
}
