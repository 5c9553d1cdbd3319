package resolve

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrViewClosed is returned for loads that finish after the view was torn down.
	ErrViewClosed = errors.New("view closed")
	// ErrSuperseded is returned for loads replaced by a newer Load or Retry.
	ErrSuperseded = errors.New("load superseded")
)

// View scopes the composite fetch behind one screen. Only the newest load of
// an open view may publish its result; older or orphaned loads may still
// finish on the wire but their results are discarded.
type View[T any] struct {
	mu      sync.Mutex
	load    func(ctx context.Context) (T, error)
	gen     uint64
	cancel  context.CancelFunc
	closed  bool
	onClose []func()

	result T
	err    error
	loaded bool
}

func NewView[T any](load func(ctx context.Context) (T, error)) *View[T] {
	return &View[T]{load: load}
}

// Load runs the fetch from scratch, cancelling any load still in flight.
func (v *View[T]) Load(ctx context.Context) (T, error) {
	var zero T

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return zero, ErrViewClosed
	}
	if v.cancel != nil {
		v.cancel()
	}
	v.gen++
	gen := v.gen
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.mu.Unlock()

	result, err := v.load(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.closed:
		cancel()
		return zero, ErrViewClosed
	case gen != v.gen:
		cancel()
		return zero, ErrSuperseded
	}
	v.cancel = nil
	cancel()

	v.result, v.err, v.loaded = result, err, true
	return result, err
}

// Retry re-runs the whole composite fetch; there is no partial resume.
func (v *View[T]) Retry(ctx context.Context) (T, error) {
	return v.Load(ctx)
}

// Result returns the last published outcome; ok is false before the first
// load completes.
func (v *View[T]) Result() (result T, ok bool, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result, v.loaded, v.err
}

// OnClose registers fn to run when the view is closed. On a closed view fn
// runs immediately.
func (v *View[T]) OnClose(fn func()) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		fn()
		return
	}
	v.onClose = append(v.onClose, fn)
	v.mu.Unlock()
}

// Close cancels any in-flight load and runs the close hooks once.
func (v *View[T]) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	hooks := v.onClose
	v.onClose = nil
	var zero T
	v.result, v.err, v.loaded = zero, nil, false
	v.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Closed reports whether Close has been called.
func (v *View[T]) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
