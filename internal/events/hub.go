// Package events fans analysis state transitions out to live subscribers.
package events

import (
	"sync"

	"github.com/ziadkadry99/repodocs/internal/analysis"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 32

// Hub delivers events published for a repository to its subscribers.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	buffer int
}

type subscriber struct {
	ch chan analysis.Event
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[string]map[*subscriber]struct{}),
		buffer: DefaultBuffer,
	}
}

// Subscribe registers for events of repoID. The returned cancel func
// unregisters and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(repoID string) (<-chan analysis.Event, func()) {
	s := &subscriber{ch: make(chan analysis.Event, h.buffer)}

	h.mu.Lock()
	set, ok := h.subs[repoID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[repoID] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[repoID], s)
			if len(h.subs[repoID]) == 0 {
				delete(h.subs, repoID)
			}
			close(s.ch)
		})
	}
	return s.ch, cancel
}

// Publish sends e to every subscriber of repoID.
func (h *Hub) Publish(repoID string, e analysis.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[repoID] {
		select {
		case s.ch <- e:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions for repoID.
func (h *Hub) Subscribers(repoID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[repoID])
}

// Observer returns an analysis.Observer publishing to repoID.
func (h *Hub) Observer(repoID string) analysis.Observer {
	return analysis.ObserverFunc(func(e analysis.Event) {
		h.Publish(repoID, e)
	})
}
