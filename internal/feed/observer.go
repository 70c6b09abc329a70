package feed

import (
	"context"
	"time"

	"github.com/TheLazyLemur/hookcord/internal/relay"
)

// RelayObserver publishes relay outcomes to the hub.
type RelayObserver struct {
	hub *Hub
}

var _ relay.Observer = (*RelayObserver)(nil)

// NewRelayObserver creates an observer publishing to hub.
func NewRelayObserver(hub *Hub) *RelayObserver {
	return &RelayObserver{hub: hub}
}

// Observe publishes outcome as the sticky relay frame.
func (o *RelayObserver) Observe(_ context.Context, outcome relay.Outcome) {
	delivered := outcome.Delivered
	o.hub.BroadcastSticky(Message{
		Type:      "relay",
		Time:      time.Now().Format(time.RFC3339),
		Event:     outcome.Event,
		Delivery:  outcome.Delivery,
		Content:   outcome.Message,
		Delivered: &delivered,
	})
}
