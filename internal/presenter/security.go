package presenter

import (
	"time"

	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/presenter/format"
)

// SecurityPresenter owns the security alert categories.
type SecurityPresenter struct {
	fmt *format.Formatter
}

func NewSecurityPresenter(f *format.Formatter) *SecurityPresenter {
	return &SecurityPresenter{fmt: f}
}

func (p *SecurityPresenter) Categories() []string {
	return []string{
		"security-new-device",
		"security-password-changed",
		"security-suspicious-login",
	}
}

func (p *SecurityPresenter) DefaultSlug(string) string {
	// all security categories share one alert template
	return "security-alert"
}

func (p *SecurityPresenter) NewPayload(string) interface{} {
	return &model.SecurityEventPayload{}
}

func (p *SecurityPresenter) Present(req *Request, now time.Time) (map[string]interface{}, error) {
	ev, ok := req.Payload.(*model.SecurityEventPayload)
	if !ok {
		return nil, payloadError(req, "security event")
	}

	tz := req.Recipient.Timezone

	ctx := map[string]interface{}{
		"category":  req.Category,
		"recipient": p.fmt.Recipient(req.Recipient),
		"metadata":  req.Metadata,
		"event": map[string]interface{}{
			"ipAddress":  ev.IPAddress,
			"userAgent":  ev.UserAgent,
			"location":   ev.Location,
			"occurredAt": p.fmt.DateTime(ev.OccurredAt, tz),
		},
		"minutesAgo": int(now.Sub(ev.OccurredAt).Minutes()),
	}

	if req.Category == "security-suspicious-login" {
		ctx["urgency"] = UrgencyHigh
		ctx["requiresAction"] = true
	} else {
		ctx["urgency"] = UrgencyMedium
		ctx["requiresAction"] = false
	}

	return ctx, nil
}
