package worker

import (
	"context"
	"image"
	"testing"
	"time"
)

func solidFrame() image.Image {
	return image.NewGray(image.Rect(0, 0, 2, 2))
}

func TestDispatcherDeliversResult(t *testing.T) {
	d := NewDispatcher()
	defer d.Stop()

	seq := d.Submit(context.Background(), func(ctx context.Context) (image.Image, error) {
		return solidFrame(), nil
	})

	select {
	case res := <-d.Results():
		if res.Err != nil {
			t.Fatalf("render error: %v", res.Err)
		}
		if res.Seq != seq {
			t.Errorf("seq = %d, want %d", res.Seq, seq)
		}
		if res.Image == nil {
			t.Error("missing image")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}
}

func TestDispatcherLatestWins(t *testing.T) {
	d := NewDispatcher()
	defer d.Stop()

	release := make(chan struct{})

	// First render blocks until its context is cancelled by the second.
	d.Submit(context.Background(), func(ctx context.Context) (image.Image, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
			return solidFrame(), nil
		}
	})

	latest := d.Submit(context.Background(), func(ctx context.Context) (image.Image, error) {
		return solidFrame(), nil
	})
	close(release)

	select {
	case res := <-d.Results():
		if res.Seq != latest {
			t.Errorf("received superseded result seq=%d, want %d", res.Seq, latest)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}

	// No second result arrives for the cancelled render.
	select {
	case res := <-d.Results():
		t.Errorf("unexpected extra result seq=%d", res.Seq)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatcherStopCancelsInFlight(t *testing.T) {
	d := NewDispatcher()

	started := make(chan struct{})
	cancelled := make(chan struct{})

	d.Submit(context.Background(), func(ctx context.Context) (image.Image, error) {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return nil, ctx.Err()
	})

	<-started
	d.Stop()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("render context was not cancelled")
	}
}

func TestDispatcherSequenceIncreases(t *testing.T) {
	d := NewDispatcher()
	defer d.Stop()

	noop := func(ctx context.Context) (image.Image, error) { return solidFrame(), nil }
	a := d.Submit(context.Background(), noop)
	b := d.Submit(context.Background(), noop)
	if b <= a {
		t.Errorf("sequence not increasing: %d then %d", a, b)
	}
}
