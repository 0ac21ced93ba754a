// Package validate checks user input before it is sent to the backend.
//
// Every check returns a *Error naming the offending fields. Callers must not
// issue a request when a check fails.
package validate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only date format accepted on input.
const DateLayout = "2006-01-02"

// Error collects per-field validation messages.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, field := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

// Field returns the message recorded for field, if any.
func (e *Error) Field(field string) string {
	return e.Fields[field]
}

func result(errors map[string]string) error {
	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func single(field, msg string) error {
	return &Error{Fields: map[string]string{field: msg}}
}

// parsePositive parses s as a decimal greater than zero.
func parsePositive(s string) (decimal.Decimal, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, "is required"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Sprintf("invalid number: %s", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, "must be greater than 0"
	}
	return d, ""
}

// Amount parses a positive money amount.
func Amount(s string) (decimal.Decimal, error) {
	d, msg := parsePositive(s)
	if msg != "" {
		return decimal.Zero, single("amount", msg)
	}
	return d, nil
}

// Shares parses a positive whole number of shares.
func Shares(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, single("shares", "is required")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, single("shares", fmt.Sprintf("must be a whole number: %s", s))
	}
	if n <= 0 {
		return 0, single("shares", "must be greater than 0")
	}
	return n, nil
}

// ID parses a positive integer identifier. name labels the field.
func ID(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, single(name, fmt.Sprintf("invalid id: %q", s))
	}
	return n, nil
}

// CashTransaction checks a deposit or withdrawal and returns the parsed amount.
func CashTransaction(txType, amount string) (decimal.Decimal, error) {
	errors := make(map[string]string)

	if txType != "deposit" && txType != "withdrawal" {
		errors["type"] = fmt.Sprintf("invalid type: %s", txType)
	}

	d, msg := parsePositive(amount)
	if msg != "" {
		errors["amount"] = msg
	}

	return d, result(errors)
}

// Withdrawal rejects withdrawing more than the current balance.
func Withdrawal(amount, balance decimal.Decimal) error {
	if amount.GreaterThan(balance) {
		return single("amount", fmt.Sprintf("insufficient funds: balance is %s", balance.StringFixed(2)))
	}
	return nil
}

// Transfer checks a transfer between two portfolios and returns the amount.
func Transfer(fromID, toID int, amount string) (decimal.Decimal, error) {
	errors := make(map[string]string)

	if fromID <= 0 {
		errors["from"] = "source portfolio is required"
	}
	if toID <= 0 {
		errors["to"] = "destination portfolio is required"
	}
	if fromID > 0 && fromID == toID {
		errors["to"] = "cannot transfer to the same portfolio"
	}

	d, msg := parsePositive(amount)
	if msg != "" {
		errors["amount"] = msg
	}

	return d, result(errors)
}

// TradeCheck is the state a buy or sell is checked against.
// Price is invalid when no current price is known for the symbol.
type TradeCheck struct {
	Type    string
	Symbol  string
	Shares  int64
	Price   decimal.NullDecimal
	Balance decimal.Decimal
	Held    decimal.Decimal
}

// Trade checks a buy or sell against the portfolio's cash and holdings.
func Trade(c TradeCheck) error {
	errors := make(map[string]string)

	if c.Type != "buy" && c.Type != "sell" {
		errors["type"] = fmt.Sprintf("invalid type: %s", c.Type)
	}
	if strings.TrimSpace(c.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}
	if c.Shares <= 0 {
		errors["shares"] = "must be greater than 0"
	}
	if !c.Price.Valid || !c.Price.Decimal.IsPositive() {
		errors["price"] = "no current price available"
	}
	if len(errors) > 0 {
		return result(errors)
	}

	shares := decimal.NewFromInt(c.Shares)
	switch c.Type {
	case "buy":
		cost := shares.Mul(c.Price.Decimal)
		if cost.GreaterThan(c.Balance) {
			errors["shares"] = fmt.Sprintf("insufficient funds: cost %s exceeds balance %s",
				cost.StringFixed(2), c.Balance.StringFixed(2))
		}
	case "sell":
		if shares.GreaterThan(c.Held) {
			errors["shares"] = fmt.Sprintf("insufficient shares: holding %s", c.Held.String())
		}
	}

	return result(errors)
}

// Visibility checks a stock list visibility.
func Visibility(v string) error {
	switch v {
	case "private", "shared", "public":
		return nil
	}
	return single("visibility", fmt.Sprintf("must be private, shared or public: %s", v))
}

// StockListName trims and checks a stock list name.
func StockListName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", single("name", "list name is required")
	}
	return name, nil
}

// PortfolioName trims and checks a portfolio name.
func PortfolioName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", single("name", "portfolio name is required")
	}
	return name, nil
}

// MaxReviewLength is the longest review the backend accepts, in characters.
const MaxReviewLength = 4000

// ReviewContent trims and checks review text.
func ReviewContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", single("content", "review content is required")
	}
	if n := len([]rune(content)); n > MaxReviewLength {
		return "", single("content", fmt.Sprintf("review content cannot exceed %d characters (got %d)", MaxReviewLength, n))
	}
	return content, nil
}

// DateRange checks optional start and end dates.
func DateRange(start, end string) error {
	errors := make(map[string]string)

	var startT, endT time.Time
	var err error
	if start != "" {
		if startT, err = time.Parse(DateLayout, start); err != nil {
			errors["start"] = fmt.Sprintf("must be YYYY-MM-DD: %s", start)
		}
	}
	if end != "" {
		if endT, err = time.Parse(DateLayout, end); err != nil {
			errors["end"] = fmt.Sprintf("must be YYYY-MM-DD: %s", end)
		}
	}
	if len(errors) == 0 && !startT.IsZero() && !endT.IsZero() && startT.After(endT) {
		errors["end"] = "end date must not be before start date"
	}

	return result(errors)
}

// Credentials checks that both username and password were given.
func Credentials(username, password string) error {
	errors := make(map[string]string)

	if strings.TrimSpace(username) == "" {
		errors["username"] = "username is required"
	}
	if password == "" {
		errors["password"] = "password is required"
	}

	return result(errors)
}
