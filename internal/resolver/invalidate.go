package resolver

import (
	"context"
	"encoding/json"

	"github.com/jwalitptl/notification-api/pkg/messaging"
)

// ListenChanges subscribes to template change events and evicts the affected
// cache entries as they arrive. Returns once the subscription is established;
// eviction continues in the background until ctx is cancelled.
func (r *Resolver) ListenChanges(ctx context.Context, broker messaging.Broker) error {
	msgs, err := broker.Subscribe(ctx, messaging.TemplateChannel)
	if err != nil {
		return err
	}

	go func() {
		for raw := range msgs {
			var ev messaging.TemplateEvent
			if err := json.Unmarshal(raw, &ev); err != nil {
				if r.logger != nil {
					r.logger.Warn("dropping malformed template event", "error", err.Error())
				}
				continue
			}
			r.Invalidate(ev.TenantID, ev.Slug)
			if r.logger != nil {
				r.logger.Debug("evicted cached template",
					"tenant_id", ev.TenantID, "slug", ev.Slug, "event", string(ev.Type))
			}
		}
	}()

	return nil
}
