package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// MinStockPriceDate is the first day user-supplied prices may be added for.
// Earlier days are covered by the historical dataset.
const MinStockPriceDate = "2018-02-08"

// StockPriceInput is a daily bar as typed by the user.
// Open, High and Low may be empty.
type StockPriceInput struct {
	Symbol string
	Date   string
	Open   string
	High   string
	Low    string
	Close  string
	Volume string
}

// StockPrice checks a user-supplied bar and converts it to a request.
// The returned request has no user id set.
func StockPrice(in StockPriceInput) (*snfsapi.AddStockPriceRequest, error) {
	errors := make(map[string]string)

	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		errors["symbol"] = "symbol is required"
	}

	if in.Date == "" {
		errors["date"] = "date is required"
	} else if d, err := time.Parse(DateLayout, in.Date); err != nil {
		errors["date"] = fmt.Sprintf("must be YYYY-MM-DD: %s", in.Date)
	} else if minDate, _ := time.Parse(DateLayout, MinStockPriceDate); d.Before(minDate) {
		errors["date"] = fmt.Sprintf("date must be on or after %s", MinStockPriceDate)
	}

	optional := func(field, s string) *snfsapi.Number {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			errors[field] = fmt.Sprintf("invalid number: %s", s)
			return nil
		}
		n := snfsapi.NewNumber(d)
		return &n
	}
	open := optional("open", in.Open)
	high := optional("high", in.High)
	low := optional("low", in.Low)

	var closePrice decimal.Decimal
	if s := strings.TrimSpace(in.Close); s == "" {
		errors["close"] = "close price is required"
	} else if d, err := decimal.NewFromString(s); err != nil {
		errors["close"] = fmt.Sprintf("invalid number: %s", s)
	} else {
		closePrice = d
	}

	var volume int64
	if s := strings.TrimSpace(in.Volume); s == "" {
		errors["volume"] = "volume is required"
	} else if v, err := strconv.ParseInt(s, 10, 64); err != nil || v < 0 {
		errors["volume"] = fmt.Sprintf("must be a non-negative whole number: %s", s)
	} else {
		volume = v
	}

	if high != nil && low != nil && high.LessThan(low.Decimal) {
		errors["high"] = "high price must be greater than low price"
	}

	if err := result(errors); err != nil {
		return nil, err
	}

	return &snfsapi.AddStockPriceRequest{
		Symbol:    symbol,
		Timestamp: in.Date,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     snfsapi.NewNumber(closePrice),
		Volume:    volume,
	}, nil
}
