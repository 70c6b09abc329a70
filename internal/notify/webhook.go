package notify

import (
	"bytes"
	"context"
	"io"
	"net/http"

	go_json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// webhookBody is the exact wire shape Discord receives; content is always present.
type webhookBody struct {
	Content string `json:"content"`
}

// Webhook posts messages to a Discord incoming-webhook URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a webhook notifier. A nil client means http.DefaultClient.
func NewWebhook(url string, client *http.Client) *Webhook {
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{url: url, client: client}
}

// Notify makes a single POST attempt. Any non-2xx status is an error.
func (w *Webhook) Notify(ctx context.Context, content string) error {
	if w.url == "" {
		return errors.New("discord webhook url not configured")
	}

	body, err := go_json.Marshal(webhookBody{Content: content})
	if err != nil {
		return errors.Wrap(err, "encoding webhook body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "posting to discord webhook")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("discord webhook status: %s", resp.Status)
	}
	return nil
}
