package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/TheLazyLemur/hookcord/internal/relay"
	go_json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	headerSignature = "X-Hub-Signature-256"
	headerEvent     = "X-GitHub-Event"
	headerDelivery  = "X-GitHub-Delivery"
)

// Processor is what the webhook handler needs from the relay.
type Processor interface {
	Process(ctx context.Context, req relay.Request) (relay.Outcome, error)
}

// WebhookHandler serves GitHub webhook deliveries.
type WebhookHandler struct {
	relay Processor
}

// NewWebhookHandler creates a WebhookHandler backed by p.
func NewWebhookHandler(p Processor) *WebhookHandler {
	return &WebhookHandler{relay: p}
}

type successResponse struct {
	Message string `json:"message"`
}

// ServeHTTP answers 401 for a bad signature, 500 for a bad payload and 200 otherwise.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("reading webhook body", "error", err.Error())
		writeText(w, http.StatusBadRequest, "Bad Request")
		return
	}

	event := r.Header.Get(headerEvent)
	if event == "" {
		event = relay.EventUnknown
	}
	delivery := r.Header.Get(headerDelivery)
	if delivery == "" {
		delivery = uuid.NewString()
	}

	_, err = h.relay.Process(r.Context(), relay.Request{
		Body:      body,
		Signature: r.Header.Get(headerSignature),
		Event:     event,
		Delivery:  delivery,
	})
	switch {
	case errors.Is(err, relay.ErrUnauthorized):
		slog.Warn("webhook signature rejected", "event", event, "delivery", delivery)
		writeText(w, http.StatusUnauthorized, "Unauthorized")
		return
	case errors.Is(err, relay.ErrMalformedPayload):
		slog.Error("malformed webhook payload", "error", err.Error(), "event", event, "delivery", delivery)
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	case err != nil:
		slog.Error("processing webhook", "error", err.Error(), "event", event, "delivery", delivery)
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Message: "success!"})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := go_json.Marshal(v)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
