package wm

import (
	"context"
	"sync"
)

// Loop runs posted work one item at a time on the goroutine that calls Run.
// It is the scheduler for a Manager driven from several goroutines.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// NewLoop returns an idle loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues f. It never blocks, so it is safe to call from inside work
// running on the loop.
func (l *Loop) Post(f func()) {
	l.mu.Lock()
	l.queue = append(l.queue, f)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do runs f on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, f func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		f()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until work is posted and returns it without running it. The
// caller must run the batch in order on the manager goroutine. Wait lets a
// host with its own event loop drive the manager.
func (l *Loop) Wait(ctx context.Context) ([]func(), error) {
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()
		if len(batch) > 0 {
			return batch, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-l.wake:
		}
	}
}

// Run executes posted work until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		batch, err := l.Wait(ctx)
		if err != nil {
			return err
		}
		for _, f := range batch {
			f()
		}
	}
}
