package presenter

import (
	"time"

	"github.com/jwalitptl/notification-api/internal/model"
	"github.com/jwalitptl/notification-api/internal/presenter/format"
)

// BillingPresenter owns the invoice and payment lifecycle categories.
type BillingPresenter struct {
	fmt *format.Formatter
}

func NewBillingPresenter(f *format.Formatter) *BillingPresenter {
	return &BillingPresenter{fmt: f}
}

func (p *BillingPresenter) Categories() []string {
	return []string{
		"invoice-created",
		"invoice-due-soon",
		"invoice-overdue",
		"invoice-paid",
		"payment-received",
		"payment-failed",
		"payment-refunded",
	}
}

func (p *BillingPresenter) DefaultSlug(category string) string {
	switch category {
	case "invoice-paid", "payment-received":
		return "payment-receipt"
	case "payment-failed", "payment-refunded":
		return "payment-status"
	default:
		// invoice-created, invoice-due-soon and invoice-overdue share one
		// template; the context's urgency and flags drive the differences.
		return "invoice-status"
	}
}

func (p *BillingPresenter) NewPayload(string) interface{} {
	return &model.InvoicePayload{}
}

func (p *BillingPresenter) Present(req *Request, now time.Time) (map[string]interface{}, error) {
	inv, ok := req.Payload.(*model.InvoicePayload)
	if !ok {
		return nil, payloadError(req, "invoice")
	}

	locale := req.Recipient.Locale
	tz := req.Recipient.Timezone

	lines := make([]map[string]interface{}, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lines = append(lines, map[string]interface{}{
			"description": l.Description,
			"quantity":    l.Quantity,
			"unitPrice":   p.fmt.Money(l.UnitPrice, inv.Currency, locale),
		})
	}

	ctx := map[string]interface{}{
		"category":  req.Category,
		"recipient": p.fmt.Recipient(req.Recipient),
		"metadata":  req.Metadata,
		"invoice": map[string]interface{}{
			"number":         inv.Number,
			"amountDue":      p.fmt.Money(inv.AmountDue, inv.Currency, locale),
			"amountDueMinor": inv.AmountDue,
			"currency":       inv.Currency,
			"issuedAt":       p.fmt.Date(inv.IssuedAt, tz),
			"dueDate":        p.fmt.Date(inv.DueDate, tz),
			"customerName":   inv.CustomerName,
			"billingAddress": p.fmt.Address(inv.BillingAddress),
			"paymentUrl":     inv.PaymentURL,
			"lines":          lines,
		},
	}

	switch req.Category {
	case "invoice-overdue":
		daysOverdue := int(now.Sub(inv.DueDate).Hours() / 24)
		ctx["isOverdue"] = now.After(inv.DueDate)
		ctx["daysOverdue"] = daysOverdue
		ctx["showPayNow"] = inv.PaymentURL != ""
		if daysOverdue >= 3 {
			ctx["urgency"] = UrgencyHigh
		} else {
			ctx["urgency"] = UrgencyMedium
		}
	case "invoice-due-soon":
		daysUntil := int(inv.DueDate.Sub(now).Hours() / 24)
		ctx["isOverdue"] = false
		ctx["daysUntilDue"] = daysUntil
		ctx["showPayNow"] = inv.PaymentURL != ""
		if daysUntil <= 2 {
			ctx["urgency"] = UrgencyMedium
		} else {
			ctx["urgency"] = UrgencyLow
		}
	case "invoice-created":
		ctx["isOverdue"] = false
		ctx["showPayNow"] = inv.PaymentURL != ""
		ctx["urgency"] = UrgencyLow
	case "payment-failed":
		ctx["showPayNow"] = inv.PaymentURL != ""
		ctx["urgency"] = UrgencyHigh
	default:
		// invoice-paid, payment-received, payment-refunded
		ctx["showPayNow"] = false
		ctx["urgency"] = UrgencyLow
	}

	return ctx, nil
}
