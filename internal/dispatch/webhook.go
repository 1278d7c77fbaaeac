package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/presenter"
)

// WebhookDispatcher POSTs webhook-channel results to the tenant's endpoint.
// The rendered body is the event's data object; the envelope is assembled
// here so event ids are minted at delivery time.
type WebhookDispatcher struct {
	client   *http.Client
	endpoint func(recipient model.Recipient) string
}

type webhookEnvelope struct {
	Event struct {
		Type       string `json:"type"`
		ID         string `json:"id"`
		Created    int64  `json:"created"`
		APIVersion string `json:"apiVersion"`
	} `json:"event"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

func NewWebhookDispatcher(timeout time.Duration, endpoint func(model.Recipient) string) *WebhookDispatcher {
	return &WebhookDispatcher{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
	}
}

func (d *WebhookDispatcher) Dispatch(ctx context.Context, result *model.RenderResult, recipient model.Recipient) error {
	url := d.endpoint(recipient)
	if url == "" {
		return fmt.Errorf("webhook dispatch requires an endpoint for the recipient")
	}

	var env webhookEnvelope
	env.Event.Type = presenter.EventType(result.Category)
	env.Event.ID = uuid.New().String()
	env.Event.Created = time.Now().Unix()
	env.Event.APIVersion = presenter.WebhookAPIVersion
	env.Data.Object = json.RawMessage(result.Body)

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}
	return nil
}
