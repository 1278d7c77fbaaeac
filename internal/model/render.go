package model

import "time"

// Recipient identifies who the rendered notification is for and how its
// values should be localized.
type Recipient struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Locale   string `json:"locale"`
	Timezone string `json:"timezone"`
	Phone    string `json:"phone,omitempty"`
}

// RenderResult is what the orchestrator hands to the dispatch collaborator.
type RenderResult struct {
	Category        string  `json:"category"`
	Channel         Channel `json:"channel"`
	Subject         string  `json:"subject,omitempty"`
	Body            string  `json:"body"`
	RecipientEmail  string  `json:"recipient_email,omitempty"`
	TemplateSlug    string  `json:"template_slug"`
	TemplateVersion int     `json:"template_version"`
}

// ValidationResult is the structured outcome of ad-hoc template validation.
// Malformed input never escapes as a fault; it lands here.
type ValidationResult struct {
	Valid        bool   `json:"valid"`
	ErrorMessage string `json:"error_message,omitempty"`
	Line         int    `json:"line,omitempty"`
	Column       int    `json:"column,omitempty"`
}

// Payload types presenters accept. The inbound payload is opaque to the
// transport; presenters assert the concrete type and fail the render when the
// shape does not match.

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

type InvoiceLine struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// InvoicePayload backs the billing categories. Amounts are minor units.
type InvoicePayload struct {
	Number         string        `json:"number"`
	AmountDue      int64         `json:"amount_due"`
	Currency       string        `json:"currency"`
	IssuedAt       time.Time     `json:"issued_at"`
	DueDate        time.Time     `json:"due_date"`
	Lines          []InvoiceLine `json:"lines,omitempty"`
	CustomerName   string        `json:"customer_name"`
	BillingAddress Address       `json:"billing_address"`
	PaymentURL     string        `json:"payment_url,omitempty"`
}

// AccountPayload backs the account lifecycle categories.
type AccountPayload struct {
	Name      string    `json:"name"`
	ActionURL string    `json:"action_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// AppointmentPayload backs the appointment categories.
type AppointmentPayload struct {
	ProviderName string    `json:"provider_name"`
	Location     Address   `json:"location"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Notes        string    `json:"notes,omitempty"`
}

// SecurityEventPayload backs the security alert categories.
type SecurityEventPayload struct {
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent,omitempty"`
	Location   string    `json:"location,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
