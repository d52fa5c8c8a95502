package picker

import (
	"context"
	"sync"
)

// Result is the raw value a picker resolves with: the folder it read and
// the unparsed {path, bytes} records.
type Result struct {
	Source  string
	Records any
}

// Deferred is a single-resolution future. The first call to Resolve or
// Reject wins; later calls are ignored.
type Deferred struct {
	once   sync.Once
	done   chan struct{}
	result Result
	err    error
}

// NewDeferred returns an unresolved deferred value.
func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// ResolvedDeferred returns a deferred already resolved with r.
func ResolvedDeferred(r Result) *Deferred {
	d := NewDeferred()
	d.Resolve(r)
	return d
}

// RejectedDeferred returns a deferred already rejected with err.
func RejectedDeferred(err error) *Deferred {
	d := NewDeferred()
	d.Reject(err)
	return d
}

// Resolve settles the deferred with r. It reports whether this call settled it.
func (d *Deferred) Resolve(r Result) bool {
	settled := false
	d.once.Do(func() {
		d.result = r
		close(d.done)
		settled = true
	})
	return settled
}

// Reject settles the deferred with err. It reports whether this call settled it.
func (d *Deferred) Reject(err error) bool {
	settled := false
	d.once.Do(func() {
		d.err = err
		close(d.done)
		settled = true
	})
	return settled
}

// Done is closed once the deferred is settled.
func (d *Deferred) Done() <-chan struct{} { return d.done }

// Await blocks until the deferred settles or ctx is done.
func (d *Deferred) Await(ctx context.Context) (Result, error) {
	select {
	case <-d.done:
		return d.result, d.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
