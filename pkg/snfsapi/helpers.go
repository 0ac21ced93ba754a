package snfsapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the currency every SNFS amount is denominated in.
const Currency = money.USD

// FormatMoney renders an amount as dollars with thousand separators,
// e.g. "$1,234.56" or "-$5.00".
func FormatMoney(amount decimal.Decimal) string {
	cur := money.GetCurrency(Currency)
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if !minor.BigInt().IsInt64() {
		return formatLargeMoney(amount, int32(cur.Fraction), cur.Grapheme)
	}
	return money.New(minor.IntPart(), Currency).Display()
}

// formatLargeMoney renders amounts whose minor units overflow int64.
func formatLargeMoney(amount decimal.Decimal, fraction int32, symbol string) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
	}
	fixed := amount.Abs().StringFixed(fraction)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + symbol + groupDigits(whole) + "." + frac
}

// FormatNullMoney formats a nullable amount. Returns "N/A" when null.
func FormatNullMoney(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return "N/A"
	}
	return FormatMoney(amount.Decimal)
}

// FormatSignedMoney formats an amount with a +/- prefix.
// Returns "$0.00" for zero.
func FormatSignedMoney(amount decimal.Decimal) string {
	if amount.IsZero() {
		return "$0.00"
	}
	if amount.IsPositive() {
		return "+" + FormatMoney(amount)
	}
	return FormatMoney(amount)
}

// FormatShares formats a share count without trailing zeros.
func FormatShares(shares decimal.Decimal) string {
	return shares.String()
}

// FormatRatio formats a statistic to the given number of decimal places.
// Returns "N/A" when the backend sent null.
func FormatRatio(value decimal.NullDecimal, places int32) string {
	if !value.Valid {
		return "N/A"
	}
	return value.Decimal.StringFixed(places)
}

// FormatPercent formats a fractional return as a percentage, e.g. 0.0123 as "1.23%".
func FormatPercent(value decimal.NullDecimal) string {
	if !value.Valid {
		return "N/A"
	}
	return value.Decimal.Shift(2).StringFixed(2) + "%"
}

// FormatVolume formats a volume number with thousand separators.
// Returns "-" for zero values.
func FormatVolume(vol int64) string {
	if vol == 0 {
		return "-"
	}

	return groupDigits(strconv.FormatInt(vol, 10))
}

// groupDigits inserts thousand separators into a string of digits.
func groupDigits(str string) string {
	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	remainder := n % 3
	if remainder > 0 {
		result.WriteString(str[:remainder])
		if n > remainder {
			result.WriteString(",")
		}
	}

	for i := remainder; i < n; i += 3 {
		result.WriteString(str[i : i+3])
		if i+3 < n {
			result.WriteString(",")
		}
	}

	return result.String()
}

// timestampLayouts are the formats the backend has been seen to emit.
var timestampLayouts = []string{
	time.RFC1123,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a backend timestamp in any of the known layouts.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders a backend timestamp as "2006-01-02 15:04".
// Unknown layouts are returned unchanged.
func FormatTimestamp(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02 15:04")
}

// FormatDate renders a backend timestamp as "2006-01-02".
// Unknown layouts are returned unchanged.
func FormatDate(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02")
}

// SumHoldingValues adds up the known total values of holdings.
// Holdings without price data contribute nothing.
func SumHoldingValues(holdings []Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		if h.TotalValue.Valid {
			total = total.Add(h.TotalValue.Decimal)
		}
	}
	return total
}

// FindHolding returns the holding for symbol, if any.
func FindHolding(holdings []Holding, symbol string) (Holding, bool) {
	symbol = strings.ToUpper(symbol)
	for _, h := range holdings {
		if strings.ToUpper(h.Symbol) == symbol {
			return h, true
		}
	}
	return Holding{}, false
}
