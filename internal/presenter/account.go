package presenter

import (
	"time"

	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/presenter/format"
)

// AccountPresenter owns the account lifecycle categories.
type AccountPresenter struct {
	fmt *format.Formatter
}

func NewAccountPresenter(f *format.Formatter) *AccountPresenter {
	return &AccountPresenter{fmt: f}
}

func (p *AccountPresenter) Categories() []string {
	return []string{
		"account-welcome",
		"account-email-verification",
		"account-password-reset",
		"account-deactivated",
	}
}

func (p *AccountPresenter) DefaultSlug(category string) string {
	switch category {
	case "account-welcome":
		return "account-welcome"
	case "account-deactivated":
		return "account-status"
	default:
		// verification and password reset share the action template
		return "account-action"
	}
}

func (p *AccountPresenter) NewPayload(string) interface{} {
	return &model.AccountPayload{}
}

func (p *AccountPresenter) Present(req *Request, now time.Time) (map[string]interface{}, error) {
	acc, ok := req.Payload.(*model.AccountPayload)
	if !ok {
		return nil, payloadError(req, "account")
	}

	tz := req.Recipient.Timezone

	ctx := map[string]interface{}{
		"category":  req.Category,
		"recipient": p.fmt.Recipient(req.Recipient),
		"metadata":  req.Metadata,
		"account": map[string]interface{}{
			"name":      acc.Name,
			"actionUrl": acc.ActionURL,
		},
	}

	switch req.Category {
	case "account-email-verification", "account-password-reset":
		ctx["actionRequired"] = true
		if !acc.ExpiresAt.IsZero() {
			ctx["expiresAt"] = p.fmt.DateTime(acc.ExpiresAt, tz)
			ctx["expiresInHours"] = int(acc.ExpiresAt.Sub(now).Hours())
		}
		if req.Category == "account-password-reset" {
			ctx["urgency"] = UrgencyHigh
		} else {
			ctx["urgency"] = UrgencyMedium
		}
	default:
		ctx["actionRequired"] = false
		ctx["urgency"] = UrgencyLow
	}

	return ctx, nil
}
