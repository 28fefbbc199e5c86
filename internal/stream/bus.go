// Package stream fans board change events out to connected clients over
// server-sent events. Every mutation publishes an event on the board's
// channel; clients resubscribe and refetch after a dropped connection, so
// delivery is best-effort and slow consumers are skipped rather than
// blocking the publisher.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Event types, one per mutation family. SectionID is set for post-scope
// events so clients can refresh a single section.
const (
	EventBoardUpdated    = "board.updated"
	EventBoardDeleted    = "board.deleted"
	EventSectionsChanged = "sections.changed"
	EventPostsChanged    = "posts.changed"
	EventCommentsChanged = "comments.changed"
)

type Event struct {
	Type      string `json:"type"`
	BoardID   string `json:"boardId"`
	SectionID string `json:"sectionId,omitempty"`
	PostID    string `json:"postId,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

const heartbeatInterval = 25 * time.Second

type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[chan []byte]struct{})}
}

// Subscribe registers a listener for one board. The returned cancel func
// must be called exactly once; it closes the channel.
func (b *Bus) Subscribe(boardID string) (ch chan []byte, cancel func()) {
	ch = make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[boardID] == nil {
		b.subs[boardID] = make(map[chan []byte]struct{})
	}
	b.subs[boardID][ch] = struct{}{}
	b.mu.Unlock()
	return ch, func() {
		b.mu.Lock()
		if subs, ok := b.subs[boardID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(b.subs, boardID)
			}
		}
		b.mu.Unlock()
		close(ch)
	}
}

// Publish delivers the event to every subscriber of its board. A full
// subscriber buffer drops the event for that subscriber.
func (b *Bus) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	b.mu.RLock()
	for ch := range b.subs[ev.BoardID] {
		select {
		case ch <- data:
		default:
		}
	}
	b.mu.RUnlock()
}

// Subscribers reports the current listener count for a board.
func (b *Bus) Subscribers(boardID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[boardID])
}

// ServeSSE streams one board's events to a single client until the request
// context is cancelled. Heartbeat comments keep the connection alive
// through proxies.
func (b *Bus) ServeSSE(w http.ResponseWriter, r *http.Request, boardID string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	ch, cancel := b.Subscribe(boardID)
	defer cancel()

	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case msg, open := <-ch:
			if !open {
				return
			}
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(msg)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}
