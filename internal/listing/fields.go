package listing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"

	"realty-dashboard/internal/period"
)

// SortField compares two records on one column.
type SortField[T any] struct {
	compare func(col *collate.Collator, a, b T) int
}

// ByText sorts with locale-aware collation.
func ByText[T any](get func(T) string) SortField[T] {
	return SortField[T]{compare: func(col *collate.Collator, a, b T) int {
		return col.CompareString(get(a), get(b))
	}}
}

// ByNumber sorts currency-like strings ("$1,200,000", "12.5%") numerically.
func ByNumber[T any](get func(T) string) SortField[T] {
	return SortField[T]{compare: func(_ *collate.Collator, a, b T) int {
		return ParseNumeric(get(a)).Cmp(ParseNumeric(get(b)))
	}}
}

func ByInt[T any](get func(T) int64) SortField[T] {
	return SortField[T]{compare: func(_ *collate.Collator, a, b T) int {
		x, y := get(a), get(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}}
}

// ByTime sorts chronologically; zero times sort first.
func ByTime[T any](get func(T) time.Time) SortField[T] {
	return SortField[T]{compare: func(_ *collate.Collator, a, b T) int {
		return get(a).Compare(get(b))
	}}
}

// ParseNumeric strips everything but digits, the decimal point and a leading
// minus sign, then parses the rest. Unparseable input is zero.
func ParseNumeric(s string) decimal.Decimal {
	var b strings.Builder
	for i, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0 && i == 0:
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Filter reports whether item satisfies the filter value.
type Filter[T any] func(item T, value string) bool

// Equals matches a field case-insensitively.
func Equals[T any](get func(T) string) Filter[T] {
	return func(item T, value string) bool {
		return strings.EqualFold(get(item), value)
	}
}

// InPeriod keeps records whose date falls in the rolling window named by the
// filter value ("30d", "6m", ...). Unknown codes do not constrain.
func InPeriod[T any](get func(T) time.Time, now time.Time) Filter[T] {
	return func(item T, value string) bool {
		w, err := period.Parse(value, now)
		if err != nil {
			return true
		}
		return w.Contains(get(item))
	}
}

// NumberRange keeps records whose numeric field lies in "min-max". Either bound
// may be empty ("500000-" or "-800000").
func NumberRange[T any](get func(T) string) Filter[T] {
	return func(item T, value string) bool {
		lo, hi, ok := strings.Cut(value, "-")
		if !ok {
			return true
		}
		v := ParseNumeric(get(item))
		if lo = strings.TrimSpace(lo); lo != "" && v.LessThan(ParseNumeric(lo)) {
			return false
		}
		if hi = strings.TrimSpace(hi); hi != "" && v.GreaterThan(ParseNumeric(hi)) {
			return false
		}
		return true
	}
}
