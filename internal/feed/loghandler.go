package feed

import (
	"context"
	"log/slog"
	"time"
)

// BroadcastHandler tees log records to the hub before passing them to inner.
// Attributes are flattened into dotted keys so feed clients get one flat object.
type BroadcastHandler struct {
	inner  slog.Handler
	hub    *Hub
	attrs  map[string]string
	prefix string
}

// NewBroadcastHandler creates a handler that broadcasts to hub and delegates to inner.
func NewBroadcastHandler(hub *Hub, inner slog.Handler) *BroadcastHandler {
	return &BroadcastHandler{inner: inner, hub: hub}
}

func (h *BroadcastHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *BroadcastHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]string, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		attrs[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		flatten(attrs, h.prefix, a)
		return true
	})
	if len(attrs) == 0 {
		attrs = nil
	}

	h.hub.Broadcast(Message{
		Type:  "log",
		Level: r.Level.String(),
		Msg:   r.Message,
		Time:  r.Time.Format(time.RFC3339),
		Attrs: attrs,
	})

	return h.inner.Handle(ctx, r)
}

func (h *BroadcastHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make(map[string]string, len(h.attrs)+len(attrs))
	for k, v := range h.attrs {
		merged[k] = v
	}
	for _, a := range attrs {
		flatten(merged, h.prefix, a)
	}
	return &BroadcastHandler{
		inner:  h.inner.WithAttrs(attrs),
		hub:    h.hub,
		attrs:  merged,
		prefix: h.prefix,
	}
}

func (h *BroadcastHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &BroadcastHandler{
		inner:  h.inner.WithGroup(name),
		hub:    h.hub,
		attrs:  h.attrs,
		prefix: h.prefix + name + ".",
	}
}

func flatten(dst map[string]string, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range v.Group() {
			flatten(dst, p, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	dst[prefix+a.Key] = v.String()
}
