// Package worker provides render scheduling helpers: a latest-wins
// dispatcher for interactive regeneration and a progress tracker for
// batch exports.
package worker

import (
	"context"
	"image"
	"sync"
	"time"
)

// RenderFunc produces an image for one dispatched request. Implementations
// should honor ctx so superseded renders stop early.
type RenderFunc func(ctx context.Context) (image.Image, error)

// RenderResult is the outcome of a dispatched render.
type RenderResult struct {
	Image   image.Image
	Err     error
	Seq     uint64
	Elapsed time.Duration
}

// Dispatcher serializes interactive render requests. Submitting a new
// request cancels the one in flight, and results from superseded requests
// are dropped so consumers only ever see the latest render.
type Dispatcher struct {
	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	results chan RenderResult
}

// NewDispatcher creates a dispatcher. Results arrive on Results in
// submission order, with superseded entries filtered out.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		results: make(chan RenderResult, 1),
	}
}

// Results returns the channel carrying completed renders.
func (d *Dispatcher) Results() <-chan RenderResult {
	return d.results
}

// Submit starts a render, cancelling any render still in flight. The
// returned sequence number identifies the request in its result.
func (d *Dispatcher) Submit(ctx context.Context, render RenderFunc) uint64 {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	cctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	go func() {
		start := time.Now()
		img, err := render(cctx)
		elapsed := time.Since(start)

		d.mu.Lock()
		latest := d.seq == seq
		d.mu.Unlock()

		// A newer submission owns the output now.
		if !latest || cctx.Err() != nil {
			return
		}

		res := RenderResult{Image: img, Err: err, Seq: seq, Elapsed: elapsed}
		select {
		case d.results <- res:
		default:
			// A stale result is still queued; replace it.
			select {
			case <-d.results:
			default:
			}
			select {
			case d.results <- res:
			default:
			}
		}
	}()

	return seq
}

// Stop cancels any render in flight.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
