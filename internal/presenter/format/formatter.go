package format

import (
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jwalitptl/notification-api/internal/model"
)

// Layouts shared by every presenter so dates read the same across categories.
const (
	DateLayout     = "January 2, 2006"
	DateTimeLayout = "January 2, 2006 at 3:04 PM"
)

// Formatter centralizes money, date, number, address and recipient
// formatting so locale and timezone rules apply uniformly across presenters.
type Formatter struct {
	defaultLocale string
}

func NewFormatter(defaultLocale string) *Formatter {
	if defaultLocale == "" {
		defaultLocale = "en-US"
	}
	return &Formatter{defaultLocale: defaultLocale}
}

func (f *Formatter) printer(locale string) *message.Printer {
	if locale == "" {
		locale = f.defaultLocale
	}
	return message.NewPrinter(language.Make(locale))
}

// Money renders an amount of minor units in the given ISO 4217 currency.
// Unknown currency codes fall back to a plain decimal with the code appended.
func (f *Formatter) Money(minorUnits int64, code, locale string) string {
	amount := float64(minorUnits) / 100
	p := f.printer(locale)

	unit, err := currency.ParseISO(code)
	if err != nil {
		return p.Sprintf("%.2f %s", amount, code)
	}
	return p.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}

// Number renders a count with locale-aware grouping.
func (f *Formatter) Number(n int64, locale string) string {
	return f.printer(locale).Sprintf("%v", number.Decimal(n))
}

// Date renders t in the recipient's timezone. Invalid timezones fall back
// to UTC rather than failing the render.
func (f *Formatter) Date(t time.Time, tz string) string {
	return t.In(f.location(tz)).Format(DateLayout)
}

// DateTime renders t with time-of-day in the recipient's timezone.
func (f *Formatter) DateTime(t time.Time, tz string) string {
	return t.In(f.location(tz)).Format(DateTimeLayout)
}

func (f *Formatter) location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Address renders a postal address as a single comma-joined line.
func (f *Formatter) Address(a model.Address) string {
	parts := make([]string, 0, 6)
	for _, p := range []string{a.Line1, a.Line2, a.City, a.Region, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Recipient exposes the sanctioned recipient identity fields.
func (f *Formatter) Recipient(r model.Recipient) map[string]interface{} {
	firstName := r.Name
	if i := strings.IndexByte(r.Name, ' '); i > 0 {
		firstName = r.Name[:i]
	}
	return map[string]interface{}{
		"name":      r.Name,
		"firstName": firstName,
		"email":     r.Email,
		"locale":    r.Locale,
		"timezone":  r.Timezone,
	}
}
