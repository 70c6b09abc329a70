package feed

import (
	"context"
	"log/slog"
	"sync"

	go_json "github.com/goccy/go-json"
)

// Message is one frame sent to feed clients.
type Message struct {
	Type  string `json:"type"`
	Level string `json:"level,omitempty"`
	Msg   string `json:"msg,omitempty"`
	Time  string `json:"time,omitempty"`

	Attrs map[string]string `json:"attrs,omitempty"`

	Event     string `json:"event,omitempty"`
	Delivery  string `json:"delivery,omitempty"`
	Content   string `json:"content,omitempty"`
	Delivered *bool  `json:"delivered,omitempty"`
}

// Hub fans frames out to feed clients. The client set belongs to Run;
// everything else talks to it through channels.
type Hub struct {
	frames chan []byte
	join   chan *Client
	leave  chan *Client
	done   chan struct{}

	mu     sync.Mutex
	sticky []byte
}

// NewHub creates a new Hub. Nothing is delivered until Run is started.
func NewHub() *Hub {
	return &Hub{
		frames: make(chan []byte, 256),
		join:   make(chan *Client),
		leave:  make(chan *Client),
		done:   make(chan struct{}),
	}
}

// Run serves the hub until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	clients := make(map[*Client]struct{})
	drop := func(c *Client) {
		if _, ok := clients[c]; ok {
			delete(clients, c)
			close(c.send)
		}
	}

	for {
		select {
		case <-ctx.Done():
			for c := range clients {
				drop(c)
			}
			return

		case c := <-h.join:
			clients[c] = struct{}{}
			if sticky := h.Sticky(); sticky != nil {
				select {
				case c.send <- sticky:
				default:
				}
			}
			slog.Debug("feed client joined", "clients", len(clients))

		case c := <-h.leave:
			drop(c)
			slog.Debug("feed client left", "clients", len(clients))

		case frame := <-h.frames:
			for c := range clients {
				select {
				case c.send <- frame:
				default:
					// a client that cannot keep up is cut off
					drop(c)
				}
			}
		}
	}
}

// Broadcast queues msg for every client. It drops msg when the hub is backed
// up, so logging never blocks on the feed.
func (h *Hub) Broadcast(msg Message) {
	if frame, ok := encode(msg); ok {
		h.publish(frame)
	}
}

// BroadcastSticky is Broadcast, and msg is also replayed to clients that join later.
func (h *Hub) BroadcastSticky(msg Message) {
	frame, ok := encode(msg)
	if !ok {
		return
	}
	h.mu.Lock()
	h.sticky = frame
	h.mu.Unlock()
	h.publish(frame)
}

// Sticky returns the frame replayed to new clients, or nil.
func (h *Hub) Sticky() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sticky
}

func (h *Hub) publish(frame []byte) {
	select {
	case h.frames <- frame:
	default:
	}
}

func (h *Hub) add(c *Client) bool {
	select {
	case h.join <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.leave <- c:
	case <-h.done:
	}
}

func encode(msg Message) ([]byte, bool) {
	frame, err := go_json.Marshal(msg)
	if err != nil {
		slog.Debug("encoding feed frame", "error", err.Error())
		return nil, false
	}
	return frame, true
}
