package snfsapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
)

// CreatePortfolio opens a new, empty portfolio for userID.
func (c *Client) CreatePortfolio(ctx context.Context, userID int, name string) (*Portfolio, error) {
	payload := map[string]any{"userId": userID, "portfolioName": name}
	var out PortfolioResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/portfolios/create", payload, &out); err != nil {
		return nil, err
	}
	return &out.Portfolio, nil
}

// ListPortfolios returns every portfolio owned by userID.
func (c *Client) ListPortfolios(ctx context.Context, userID int) ([]Portfolio, error) {
	var out PortfoliosResponse
	params := map[string]string{"userId": strconv.Itoa(userID)}
	if err := c.getJSON(ctx, "/portfolios/view", params, &out); err != nil {
		return nil, err
	}
	return out.Portfolios, nil
}

// GetPortfolio returns one portfolio if userID owns it.
func (c *Client) GetPortfolio(ctx context.Context, portfolioID, userID int) (*Portfolio, error) {
	var out PortfolioResponse
	path := fmt.Sprintf("/portfolios/%d", portfolioID)
	params := map[string]string{"userId": strconv.Itoa(userID)}
	if err := c.getJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return &out.Portfolio, nil
}

// Transfer moves amount of cash from one portfolio to another.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (string, error) {
	var out MessageResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/portfolios/transfer", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ListCashTransactions returns the deposit and withdrawal history of a portfolio.
func (c *Client) ListCashTransactions(ctx context.Context, portfolioID, userID int) ([]CashTransaction, error) {
	var out CashTransactionsResponse
	path := fmt.Sprintf("/transactions/%d", portfolioID)
	params := map[string]string{"userId": strconv.Itoa(userID)}
	if err := c.getJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// CreateCashTransaction deposits into or withdraws from a portfolio.
func (c *Client) CreateCashTransaction(ctx context.Context, portfolioID int, txType string, amount decimal.Decimal) (*CashTransactionResult, error) {
	req := CashTransactionRequest{PortfolioID: portfolioID, Type: txType, Amount: NewNumber(amount)}
	var out CashTransactionResult
	if err := c.sendJSON(ctx, http.MethodPost, "/transactions/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListHoldings returns the aggregated stock positions of a portfolio.
func (c *Client) ListHoldings(ctx context.Context, portfolioID, userID int) ([]Holding, error) {
	var out HoldingsResponse
	path := fmt.Sprintf("/portfolios/%d/holdings", portfolioID)
	params := map[string]string{"user_id": strconv.Itoa(userID)}
	if err := c.getJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return out.Holdings, nil
}

// ListStockTransactions returns the buy and sell history of a portfolio.
func (c *Client) ListStockTransactions(ctx context.Context, portfolioID, userID int) ([]StockTransaction, error) {
	var out StockTransactionsResponse
	path := fmt.Sprintf("/portfolios/%d/stock-transactions", portfolioID)
	params := map[string]string{"user_id": strconv.Itoa(userID)}
	if err := c.getJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

// TradeStock buys or sells shares in a portfolio.
func (c *Client) TradeStock(ctx context.Context, req StockTradeRequest) (*StockTradeResult, error) {
	var out StockTradeResult
	if err := c.sendJSON(ctx, http.MethodPost, "/portfolios/stock-transaction", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PortfolioStatistics returns return and risk statistics for the holdings of
// a portfolio. Empty dates let the backend pick the range.
func (c *Client) PortfolioStatistics(ctx context.Context, portfolioID, userID int, dates DateRange) (*Statistics, error) {
	var out Statistics
	path := fmt.Sprintf("/portfolios/%d/statistics", portfolioID)
	params := map[string]string{
		"user_id":    strconv.Itoa(userID),
		"start_date": dates.StartDate,
		"end_date":   dates.EndDate,
	}
	if err := c.getJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
