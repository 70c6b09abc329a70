package relay

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized means the signature did not match.
	ErrUnauthorized     = errors.New("invalid webhook signature")
	// ErrMalformedPayload means the body could not be decoded.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Notifier delivers a plain-text message to the chat channel.
type Notifier interface {
	Notify(ctx context.Context, content string) error
}

// Observer is told about every relayed event, whether or not delivery succeeded.
type Observer interface {
	Observe(ctx context.Context, outcome Outcome)
}

// Request is one inbound delivery as received.
type Request struct {
	Body      []byte
	Signature string
	Event     string
	Delivery  string
}

// Outcome describes a relayed delivery.
type Outcome struct {
	Event     string
	Delivery  string
	Message   string
	Delivered bool
}

// Relay turns signed GitHub deliveries into chat messages.
type Relay struct {
	secret    string
	hasSecret bool
	notifier  Notifier
	observers []Observer
}

// New creates a Relay keyed by secret. An empty secret is still a key.
func New(secret string, notifier Notifier, observers ...Observer) *Relay {
	return &Relay{
		secret:    secret,
		hasSecret: true,
		notifier:  notifier,
		observers: observers,
	}
}

// NewWithoutSecret creates a Relay for a deployment with no secret configured.
// It rejects every delivery.
func NewWithoutSecret(notifier Notifier, observers ...Observer) *Relay {
	return &Relay{notifier: notifier, observers: observers}
}

// Process authenticates, formats and forwards one webhook delivery.
// Returns ErrUnauthorized if the signature does not match or no secret was configured.
// Returns ErrMalformedPayload if the body is not a valid payload.
// A failed notification is logged and does not make Process fail.
func (r *Relay) Process(ctx context.Context, req Request) (Outcome, error) {
	if !r.hasSecret || !Verify(req.Body, req.Signature, r.secret) {
		return Outcome{}, ErrUnauthorized
	}

	name := req.Event
	if name == "" {
		name = EventUnknown
	}

	event, err := ParseEvent(name, req.Body)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{
		Event:    name,
		Delivery: req.Delivery,
		Message:  Format(event),
	}

	// delivery is awaited but not cancelled with the inbound request
	if err := r.notifier.Notify(context.WithoutCancel(ctx), outcome.Message); err != nil {
		slog.Error("notifying discord", "error", err.Error(), "event", name, "delivery", req.Delivery)
	} else {
		outcome.Delivered = true
	}

	slog.Info("webhook relayed", "event", name, "delivery", req.Delivery, "delivered", outcome.Delivered)

	for _, o := range r.observers {
		o.Observe(ctx, outcome)
	}

	return outcome, nil
}
