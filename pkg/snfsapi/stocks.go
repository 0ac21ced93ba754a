package snfsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ListStockPrices returns one page of daily price history.
func (c *Client) ListStockPrices(ctx context.Context, q StockQuery) (*StockPage, error) {
	params := map[string]string{
		"symbol":     strings.ToUpper(q.Symbol),
		"start_date": q.StartDate,
		"end_date":   q.EndDate,
	}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.PerPage > 0 {
		params["per_page"] = strconv.Itoa(q.PerPage)
	}

	var out StockPage
	if err := c.getJSON(ctx, "/stocks/", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Symbols searches the known stock symbols. A limit of zero uses the backend default.
func (c *Client) Symbols(ctx context.Context, search string, limit int) ([]string, error) {
	params := map[string]string{"search": search}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var out SymbolsResponse
	if err := c.getJSON(ctx, "/stocks/symbols", params, &out); err != nil {
		return nil, err
	}
	return out.Symbols, nil
}

// CurrentPrice returns the most recent bar for symbol.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (*StockPrice, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	var out CurrentPriceResponse
	path := "/stocks/current-price/" + url.PathEscape(strings.ToUpper(symbol))
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.PriceData, nil
}

// Predict returns the backend's closing price forecast for the next days.
func (c *Client) Predict(ctx context.Context, symbol string, days int) (*Prediction, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	params := map[string]string{}
	if days > 0 {
		params["days"] = strconv.Itoa(days)
	}

	var out Prediction
	path := "/stocks/predict/" + url.PathEscape(strings.ToUpper(symbol))
	if err := c.getJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddStockPrice records a user-supplied daily bar.
func (c *Client) AddStockPrice(ctx context.Context, req AddStockPriceRequest) (string, error) {
	req.Symbol = strings.ToUpper(req.Symbol)

	var out MessageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/stocks/add", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}
