package presenter

import (
	"strings"
	"time"

	"github.com/jwalitptl/notification-api/internal/presenter/format"
)

// WebhookAPIVersion is stamped into every webhook event envelope.
const WebhookAPIVersion = "2024-01-01"

// channelPrefixes are the channel-routing prefixes stripped when deriving a
// webhook event type from a category code.
var channelPrefixes = []string{"webhook-", "email-", "sms-"}

// WebhookPresenter owns the webhook mirror categories. Its context is the
// event envelope contract: {event: {type, created, apiVersion}, data:
// {object}}; the payload passes through as data.object.
type WebhookPresenter struct {
	fmt *format.Formatter
}

func NewWebhookPresenter(f *format.Formatter) *WebhookPresenter {
	return &WebhookPresenter{fmt: f}
}

func (p *WebhookPresenter) Categories() []string {
	return []string{
		"webhook-invoice-created",
		"webhook-invoice-paid",
		"webhook-invoice-overdue",
		"webhook-payment-failed",
		"webhook-appointment-booked",
		"webhook-appointment-cancelled",
		"webhook-account-created",
	}
}

func (p *WebhookPresenter) DefaultSlug(string) string {
	// one envelope template serves every webhook category
	return "webhook-event"
}

func (p *WebhookPresenter) NewPayload(string) interface{} {
	return &map[string]interface{}{}
}

func (p *WebhookPresenter) Present(req *Request, now time.Time) (map[string]interface{}, error) {
	return map[string]interface{}{
		"category": req.Category,
		"event": map[string]interface{}{
			"type":       EventType(req.Category),
			"created":    now.Unix(),
			"apiVersion": WebhookAPIVersion,
		},
		"data": map[string]interface{}{
			"object": req.Payload,
		},
		"metadata": req.Metadata,
	}, nil
}

// EventType derives a webhook event type from a category code: the
// channel-routing prefix is stripped and separators become dots, so
// "webhook-invoice-paid" yields "invoice.paid".
func EventType(category string) string {
	code := category
	for _, prefix := range channelPrefixes {
		if strings.HasPrefix(code, prefix) {
			code = strings.TrimPrefix(code, prefix)
			break
		}
	}
	code = strings.ReplaceAll(code, "_", "-")
	return strings.ReplaceAll(code, "-", ".")
}
