package card

import (
	"context"
	"sync"
)

// Renderer renders one card. *Compositor implements it.
type Renderer interface {
	Render(ctx context.Context, clean string) Result
}

// State is the caller-visible state of the latest requested render.
type State struct {
	Status Status
	Name   string
	// Result is set once the render finished.
	Result Result
}

// Tracker keeps the state of the most recently requested name. Starting a
// new request cancels the previous one, and a render that finishes after a
// newer request was made never replaces the newer state.
//
// Tracker is meant for embedders that show a single card and re-render it as
// the user edits the name. The HTTP handlers render per request and do not
// use it.
type Tracker struct {
	renderer Renderer
	onChange func(State)

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  State
}

// NewTracker returns a Tracker. onChange, if not nil, is called with every
// accepted state while the Tracker's lock is held, so it must not call back
// into the Tracker.
func NewTracker(r Renderer, onChange func(State)) *Tracker {
	return &Tracker{renderer: r, onChange: onChange}
}

// Request starts rendering clean in the background and returns a channel
// that receives this request's own result, even if it went stale.
func (t *Tracker) Request(ctx context.Context, clean string) <-chan Result {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	gen := t.gen
	t.cancel = cancel
	t.set(State{Status: StatusLoading, Name: clean})
	t.mu.Unlock()

	out := make(chan Result, 1)
	go func() {
		defer cancel()
		res := t.renderer.Render(ctx, clean)

		t.mu.Lock()
		if gen == t.gen {
			t.cancel = nil
			t.set(State{Status: res.Status, Name: clean, Result: res})
		}
		t.mu.Unlock()

		out <- res
	}()
	return out
}

// State returns the state of the latest request.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Cancel abandons the in-flight request, if any, and clears the state. The
// abandoned render's result is discarded.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.gen++
	t.set(State{})
}

func (t *Tracker) set(s State) {
	t.state = s
	if t.onChange != nil {
		t.onChange(s)
	}
}
