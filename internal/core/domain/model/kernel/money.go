package kernel

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"agromarket/internal/pkg/errs"
)

// CurrencySymbol prefixes every amount the dashboard displays.
const CurrencySymbol = "₹"

var amountPattern = regexp.MustCompile(`^(\d+)(?:\.(\d{1,2}))?$`)

// MaxMoney is the largest representable amount.
var MaxMoney = Money{paise: math.MaxInt64}

// Money is an amount in paise. The zero value is ₹0.
type Money struct {
	paise int64
}

// NewMoney builds Money from a rupee amount rounded to the nearest paisa.
func NewMoney(rupees float64) (Money, error) {
	if math.IsNaN(rupees) || math.IsInf(rupees, 0) || rupees < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount is invalid",
			fmt.Errorf("%v is not a non-negative finite amount", rupees),
		)
	}
	paise := math.Round(rupees * 100)
	if paise >= math.MaxInt64 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount is invalid",
			fmt.Errorf("%v exceeds %s", rupees, MaxMoney),
		)
	}
	return Money{paise: int64(paise)}, nil
}

// MoneyFromPaise restores an amount stored in minor units. Negative input is clamped to zero.
func MoneyFromPaise(paise int64) Money {
	return Money{paise: max(paise, 0)}
}

// ParseMoney converts a display string such as "₹15,000", "₹12,500.50" or "9800" into Money.
// The currency symbol and every thousands separator are stripped before parsing.
// Anything else that does not parse is rejected with errs.ErrValueIsInvalid.
func ParseMoney(s string) (Money, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, CurrencySymbol)
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")

	parts := amountPattern.FindStringSubmatch(raw)
	if parts == nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount is invalid",
			fmt.Errorf("%q is not a currency amount", s),
		)
	}

	whole, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount is invalid", fmt.Errorf("%q: %w", s, err))
	}

	var frac int64
	if parts[2] != "" {
		frac, _ = strconv.ParseInt(parts[2], 10, 64)
		if len(parts[2]) == 1 {
			frac *= 10
		}
	}

	if whole > (math.MaxInt64-frac)/100 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount is invalid",
			fmt.Errorf("%q exceeds %s", s, MaxMoney),
		)
	}
	return Money{paise: whole*100 + frac}, nil
}

// MustParseMoney is ParseMoney for literals known to be valid. It panics otherwise.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Rupees returns the amount as a float.
func (m Money) Rupees() float64 {
	return float64(m.paise) / 100
}

// Paise returns the amount in minor units.
func (m Money) Paise() int64 {
	return m.paise
}

// Add fails with errs.ErrValueIsOutOfRange when the sum exceeds MaxMoney.
func (m Money) Add(other Money) (Money, error) {
	if other.paise > math.MaxInt64-m.paise {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", fmt.Sprintf("%s + %s", m, other), 0, MaxMoney)
	}
	return Money{paise: m.paise + other.paise}, nil
}

// Mul fails with errs.ErrValueIsOutOfRange for a negative factor or a product above MaxMoney.
func (m Money) Mul(n int) (Money, error) {
	if n < 0 || (n > 0 && m.paise > math.MaxInt64/int64(n)) {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", fmt.Sprintf("%s x %d", m, n), 0, MaxMoney)
	}
	return Money{paise: m.paise * int64(n)}, nil
}

// Midpoint is the average of two amounts, rounded down to the paisa. It never overflows.
func (m Money) Midpoint(other Money) Money {
	return Money{paise: m.paise/2 + other.paise/2 + (m.paise%2+other.paise%2)/2}
}

func (m Money) Less(other Money) bool {
	return m.paise < other.paise
}

func (m Money) IsZero() bool {
	return m.paise == 0
}

// String renders the amount the way the dashboard shows it: "₹15,000" or "₹12,500.50".
func (m Money) String() string {
	whole := strconv.FormatInt(m.paise/100, 10)

	var b strings.Builder
	b.WriteString(CurrencySymbol)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if frac := m.paise % 100; frac != 0 {
		fmt.Fprintf(&b, ".%02d", frac)
	}
	return b.String()
}

// MarshalText lets Money travel as its display string in JSON payloads.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := ParseMoney(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
