package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/notification-api/internal/model"
)

func TestMoneyKnownCurrency(t *testing.T) {
	f := NewFormatter("en-US")

	out := f.Money(1299, "USD", "en-US")
	assert.Contains(t, out, "$")
	assert.Contains(t, out, "12.99")
}

func TestMoneyUnknownCurrencyFallsBack(t *testing.T) {
	f := NewFormatter("en-US")

	out := f.Money(1299, "ZZZ", "en-US")
	assert.Contains(t, out, "ZZZ")
	assert.Contains(t, out, "12.99")
}

func TestMoneyEmptyLocaleUsesDefault(t *testing.T) {
	f := NewFormatter("en-US")

	assert.Equal(t, f.Money(500, "USD", "en-US"), f.Money(500, "USD", ""))
}

func TestNumberGrouping(t *testing.T) {
	f := NewFormatter("en-US")

	assert.Equal(t, "1,234,567", f.Number(1234567, "en-US"))
}

func TestDateInRecipientTimezone(t *testing.T) {
	f := NewFormatter("en-US")
	// 03:00 UTC on June 2 is still June 1 in New York.
	moment := time.Date(2026, time.June, 2, 3, 0, 0, 0, time.UTC)

	assert.Equal(t, "June 2, 2026", f.Date(moment, ""))
	assert.Equal(t, "June 1, 2026", f.Date(moment, "America/New_York"))
}

func TestDateInvalidTimezoneFallsBackToUTC(t *testing.T) {
	f := NewFormatter("en-US")
	moment := time.Date(2026, time.June, 2, 3, 0, 0, 0, time.UTC)

	assert.Equal(t, "June 2, 2026", f.Date(moment, "Not/AZone"))
}

func TestDateTime(t *testing.T) {
	f := NewFormatter("en-US")
	moment := time.Date(2026, time.June, 2, 15, 4, 0, 0, time.UTC)

	assert.Equal(t, "June 2, 2026 at 3:04 PM", f.DateTime(moment, ""))
}

func TestAddressJoinsNonEmptyParts(t *testing.T) {
	f := NewFormatter("en-US")

	out := f.Address(model.Address{
		Line1:      "1 Main St",
		City:       "Springfield",
		Region:     "IL",
		PostalCode: "62701",
		Country:    "US",
	})
	assert.Equal(t, "1 Main St, Springfield, IL, 62701, US", out)

	assert.Equal(t, "", f.Address(model.Address{}))
}

func TestRecipientFields(t *testing.T) {
	f := NewFormatter("en-US")

	out := f.Recipient(model.Recipient{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Locale:   "en-GB",
		Timezone: "Europe/London",
	})
	assert.Equal(t, "Ada Lovelace", out["name"])
	assert.Equal(t, "Ada", out["firstName"])
	assert.Equal(t, "ada@example.com", out["email"])
}
