package pricing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
)

const (
	MinUserCount = 1
	MaxUserCount = 1000

	MinPeriod = 1
	MaxPeriod = 5
)

// Config carries the tunable parts of the calculator. Both values can be
// overridden from admin settings.
type Config struct {
	NewDomainFee decimal.Decimal // one-time registration fee for a new domain
	TaxRate      decimal.Decimal // applied on the cart subtotal
}

// DefaultConfig returns the production defaults: Kz 2.000,00 registration
// fee and 14% consumption tax.
func DefaultConfig() Config {
	return Config{
		NewDomainFee: decimal.NewFromInt(2000),
		TaxRate:      decimal.NewFromFloat(0.14),
	}
}

// DiscountRate returns the multi-year discount for a contract period:
// 10% from three years, 5% from two, none otherwise.
func DiscountRate(period int) decimal.Decimal {
	switch {
	case period >= 3:
		return decimal.NewFromFloat(0.10)
	case period >= 2:
		return decimal.NewFromFloat(0.05)
	default:
		return decimal.Zero
	}
}

// ClampUserCount forces a seat count into [MinUserCount, MaxUserCount].
func ClampUserCount(n int) int {
	if n < MinUserCount {
		return MinUserCount
	}
	if n > MaxUserCount {
		return MaxUserCount
	}
	return n
}

// ParseUserCount parses a raw seat-count input. Non-numeric input is
// ignored and the previous value is retained; numeric input is clamped.
func ParseUserCount(raw string, previous int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return previous
	}
	return ClampUserCount(n)
}

// ValidPeriod reports whether a contract period is in the allowed set.
func ValidPeriod(period int) bool {
	return period >= MinPeriod && period <= MaxPeriod
}

// ClampPeriod forces a period into the allowed set.
func ClampPeriod(period int) int {
	if period < MinPeriod {
		return MinPeriod
	}
	if period > MaxPeriod {
		return MaxPeriod
	}
	return period
}

// QuoteInput is everything needed to price one line.
type QuoteInput struct {
	BasePrice decimal.Decimal // unit price per user per year
	UserCount int
	Period    int // years
	NewDomain bool
}

// Quote is the priced result of one line.
type Quote struct {
	UserCount int
	Period    int
	Gross     decimal.Decimal // basePrice × users × years
	Discount  decimal.Decimal
	AddonFee  decimal.Decimal
	Total     decimal.Decimal
	Display   string
}

// Quote prices a single line: the tier discount applies to
// basePrice × users × years, then one-time add-on fees are added on top.
// Pure; out-of-range inputs are clamped, never rejected.
func (c Config) Quote(in QuoteInput) Quote {
	users := ClampUserCount(in.UserCount)
	period := ClampPeriod(in.Period)

	gross := in.BasePrice.
		Mul(decimal.NewFromInt(int64(users))).
		Mul(decimal.NewFromInt(int64(period)))
	discount := gross.Mul(DiscountRate(period))

	addon := decimal.Zero
	if in.NewDomain {
		addon = c.NewDomainFee
	}

	total := gross.Sub(discount).Add(addon).Round(2)

	return Quote{
		UserCount: users,
		Period:    period,
		Gross:     gross.Round(2),
		Discount:  discount.Round(2),
		AddonFee:  addon,
		Total:     total,
		Display:   FormatKwanza(total),
	}
}

// Summary aggregates a cart for the checkout summary panel.
type Summary struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	Display  string
}

// Summarize sums the stored line totals and applies tax. Line prices are
// already discounted, so no further per-line work happens here.
func (c Config) Summarize(items []domain.CartItem) Summary {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Price)
	}
	tax := subtotal.Mul(c.TaxRate).Round(2)
	total := subtotal.Add(tax)

	return Summary{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
		Display:  FormatKwanza(total),
	}
}

// FormatKwanza renders a decimal as an Angolan kwanza display string,
// e.g. 4700 → "4.700,00 Kz".
func FormatKwanza(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	b.WriteString(" Kz")
	return b.String()
}
