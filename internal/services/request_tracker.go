package services

import (
	"errors"
	"sync"
)

// ErrStaleRequest is returned when a newer request for the same session
// started while this one was in flight.
var ErrStaleRequest = errors.New("request superseded by a newer one")

// Ticket marks one in-flight request of a session.
type Ticket struct {
	Session    string
	Generation uint64
}

// RequestTracker hands out generations so that only the most recent request
// of a session may publish its result. Generations come from one
// tracker-wide counter, so a session entry can be dropped once its latest
// request finishes without an older ticket ever matching again.
// A nil tracker or an empty session treats every request as current.
type RequestTracker struct {
	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

func NewRequestTracker() *RequestTracker {
	return &RequestTracker{latest: make(map[string]uint64)}
}

// Begin starts a new generation for session, making earlier tickets stale.
func (t *RequestTracker) Begin(session string) Ticket {
	if t == nil || session == "" {
		return Ticket{Session: session}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	t.latest[session] = t.seq
	return Ticket{Session: session, Generation: t.seq}
}

// IsCurrent reports whether no newer request of the ticket's session has begun.
func (t *RequestTracker) IsCurrent(tk Ticket) bool {
	if t == nil || tk.Session == "" {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.latest[tk.Session] == tk.Generation
}

// Finish releases the session entry if tk is still its latest request.
// A superseded ticket leaves the newer request's entry alone.
func (t *RequestTracker) Finish(tk Ticket) {
	if t == nil || tk.Session == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.latest[tk.Session] == tk.Generation {
		delete(t.latest, tk.Session)
	}
}

func (t *RequestTracker) sessions() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.latest)
}
