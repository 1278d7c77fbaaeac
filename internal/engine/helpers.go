package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aymerick/raymond"

	"github.com/jwalitptl/notification-api/internal/presenter/format"
)

// raymond keeps a process-global helper registry and panics on duplicate
// registration, so the set is installed exactly once.
var helpersOnce sync.Once

func registerHelpers(f *format.Formatter) {
	helpersOnce.Do(func() {
		raymond.RegisterHelper("formatDate", func(value interface{}, tz string) string {
			t, ok := asTime(value)
			if !ok {
				return fmt.Sprintf("%v", value)
			}
			return f.Date(t, tz)
		})

		raymond.RegisterHelper("formatDateTime", func(value interface{}, tz string) string {
			t, ok := asTime(value)
			if !ok {
				return fmt.Sprintf("%v", value)
			}
			return f.DateTime(t, tz)
		})

		raymond.RegisterHelper("formatMoney", func(value interface{}, code, locale string) string {
			return f.Money(asInt(value), code, locale)
		})

		raymond.RegisterHelper("formatNumber", func(value interface{}, locale string) string {
			return f.Number(asInt(value), locale)
		})

		raymond.RegisterHelper("pluralize", func(value interface{}, singular, plural string) string {
			if asInt(value) == 1 {
				return singular
			}
			return plural
		})

		raymond.RegisterHelper("truncate", func(s string, n int) string {
			if n <= 0 || len(s) <= n {
				return s
			}
			if n <= 3 {
				return s[:n]
			}
			return s[:n-3] + "..."
		})

		raymond.RegisterHelper("upperFirst", func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		})

		// Comparison helpers, usable in conditionals via subexpressions,
		// e.g. {{#if (gt daysOverdue 3)}}.
		raymond.RegisterHelper("eq", func(a, b interface{}) bool {
			return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
		})
		raymond.RegisterHelper("ne", func(a, b interface{}) bool {
			return fmt.Sprintf("%v", a) != fmt.Sprintf("%v", b)
		})
		raymond.RegisterHelper("gt", func(a, b interface{}) bool {
			return asFloat(a) > asFloat(b)
		})
		raymond.RegisterHelper("gte", func(a, b interface{}) bool {
			return asFloat(a) >= asFloat(b)
		})
		raymond.RegisterHelper("lt", func(a, b interface{}) bool {
			return asFloat(a) < asFloat(b)
		})
		raymond.RegisterHelper("lte", func(a, b interface{}) bool {
			return asFloat(a) <= asFloat(b)
		})
	})
}

func asTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

func asInt(value interface{}) int64 {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		var n int64
		fmt.Sscanf(v, "%d", &n)
		return n
	default:
		return 0
	}
}

func asFloat(value interface{}) float64 {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	case string:
		var f float64
		fmt.Sscanf(v, "%g", &f)
		return f
	default:
		return 0
	}
}
