package dispatch

import (
	"context"

	"github.com/function61/gokit/ezhttp"
)

// WebhookNotifier POSTs the routed notification to a chat webhook endpoint
// (Slack-compatible incoming webhook shape).
type WebhookNotifier struct {
	url string
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{url: url}
}

type webhookMessage struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

func (w *WebhookNotifier) Notify(ctx context.Context, room string, message string) error {
	_, err := ezhttp.Post(ctx, w.url, ezhttp.SendJson(&webhookMessage{
		Channel: room,
		Text:    message,
	}))
	return err
}
