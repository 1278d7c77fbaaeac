package presenter

import (
	"time"

	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/presenter/format"
)

// AppointmentPresenter owns the appointment scheduling categories.
type AppointmentPresenter struct {
	fmt *format.Formatter
}

func NewAppointmentPresenter(f *format.Formatter) *AppointmentPresenter {
	return &AppointmentPresenter{fmt: f}
}

func (p *AppointmentPresenter) Categories() []string {
	return []string{
		"appointment-booked",
		"appointment-reminder",
		"appointment-rescheduled",
		"appointment-cancelled",
	}
}

func (p *AppointmentPresenter) DefaultSlug(category string) string {
	if category == "appointment-reminder" {
		return "appointment-reminder"
	}
	return "appointment-update"
}

func (p *AppointmentPresenter) NewPayload(string) interface{} {
	return &model.AppointmentPayload{}
}

func (p *AppointmentPresenter) Present(req *Request, now time.Time) (map[string]interface{}, error) {
	appt, ok := req.Payload.(*model.AppointmentPayload)
	if !ok {
		return nil, payloadError(req, "appointment")
	}

	tz := req.Recipient.Timezone
	loc := appt.StartsAt

	ctx := map[string]interface{}{
		"category":  req.Category,
		"recipient": p.fmt.Recipient(req.Recipient),
		"metadata":  req.Metadata,
		"appointment": map[string]interface{}{
			"providerName": appt.ProviderName,
			"location":     p.fmt.Address(appt.Location),
			"startsAt":     p.fmt.DateTime(appt.StartsAt, tz),
			"endsAt":       p.fmt.DateTime(appt.EndsAt, tz),
			"notes":        appt.Notes,
		},
	}

	switch req.Category {
	case "appointment-reminder":
		hoursUntil := int(loc.Sub(now).Hours())
		ctx["hoursUntil"] = hoursUntil
		ctx["isToday"] = sameDay(loc, now, tz)
		if hoursUntil <= 24 {
			ctx["urgency"] = UrgencyHigh
		} else {
			ctx["urgency"] = UrgencyMedium
		}
	case "appointment-cancelled":
		ctx["urgency"] = UrgencyMedium
	default:
		ctx["urgency"] = UrgencyLow
	}

	return ctx, nil
}

func sameDay(a, b time.Time, tz string) bool {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
