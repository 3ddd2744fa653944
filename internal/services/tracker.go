package services

import (
	"context"
	"sync"
)

// FetchTracker keeps at most one live fetch per key. Beginning a newer fetch for a key
// cancels the older one, so a slow response can never overwrite a newer view.
type FetchTracker struct {
	mu      sync.Mutex
	seq     uint64
	current map[string]*Ticket
}

// NewFetchTracker creates an empty tracker
func NewFetchTracker() *FetchTracker {
	return &FetchTracker{current: make(map[string]*Ticket)}
}

// Ticket identifies one fetch started through a FetchTracker
type Ticket struct {
	tracker *FetchTracker
	key     string
	seq     uint64
	cancel  context.CancelFunc
}

// Begin registers a new fetch for key and returns a context that is cancelled when the
// fetch is superseded or the parent ends. Callers must call Done when the fetch finishes.
func (t *FetchTracker) Begin(ctx context.Context, key string) (context.Context, *Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.current[key]; ok {
		prev.cancel()
	}
	t.seq++
	ticket := &Ticket{tracker: t, key: key, seq: t.seq, cancel: cancel}
	t.current[key] = ticket
	return ctx, ticket
}

// Current reports whether the ticket is still the newest fetch for its key
func (tk *Ticket) Current() bool {
	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()

	cur, ok := tk.tracker.current[tk.key]
	return ok && cur.seq == tk.seq
}

// Done releases the ticket. It is safe to call more than once.
func (tk *Ticket) Done() {
	tk.cancel()

	tk.tracker.mu.Lock()
	defer tk.tracker.mu.Unlock()

	if cur, ok := tk.tracker.current[tk.key]; ok && cur.seq == tk.seq {
		delete(tk.tracker.current, tk.key)
	}
}

// Len returns the number of live fetches
func (t *FetchTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.current)
}
