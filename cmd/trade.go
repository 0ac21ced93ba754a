package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/internal/validate"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// newTradeCmd creates the buy or sell subcommand of portfolio.
func newTradeCmd(opts *appOptions, side string) *cobra.Command {
	verb := "Buy"
	if side == snfsapi.TradeSell {
		verb = "Sell"
	}

	return &cobra.Command{
		Use:   side + " PORTFOLIO_ID SYMBOL SHARES",
		Short: verb + " shares at the latest closing price",
		Long: verb + ` whole shares of a stock at its latest closing price.

The portfolio, its holdings and the current price are fetched first; the
trade is only sent when the portfolio can cover it.

Example:
  snfs portfolio ` + side + ` 3 AAPL 10`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrade(cmd, opts, side, args)
		},
	}
}

// tradeContext is what a trade is checked against.
type tradeContext struct {
	portfolio *snfsapi.Portfolio
	held      decimal.Decimal
	price     decimal.NullDecimal
}

func runTrade(cmd *cobra.Command, opts *appOptions, side string, args []string) error {
	portfolioID, err := validate.ID("portfolio", args[0])
	if err != nil {
		return err
	}
	symbol := strings.ToUpper(strings.TrimSpace(args[1]))
	shares, err := validate.Shares(args[2])
	if err != nil {
		return err
	}
	if symbol == "" {
		return &validate.Error{Fields: map[string]string{"symbol": "symbol is required"}}
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	tc, err := loadTradeContext(opts, portfolioID, userID, symbol)
	if err != nil {
		return err
	}

	if err := validate.Trade(validate.TradeCheck{
		Type:    side,
		Symbol:  symbol,
		Shares:  shares,
		Price:   tc.price,
		Balance: tc.portfolio.Balance,
		Held:    tc.held,
	}); err != nil {
		return err
	}

	result, err := opts.client.TradeStock(ctx, snfsapi.StockTradeRequest{
		PortfolioID:     portfolioID,
		UserID:          userID,
		Symbol:          symbol,
		TransactionType: side,
		NumShares:       shares,
		PricePerShare:   snfsapi.NewNumber(tc.price.Decimal),
	})
	if err != nil {
		return fmt.Errorf("failed to %s %s: %w", side, symbol, err)
	}

	msg := messageOr(result.Message, fmt.Sprintf("%s %d %s", strings.ToUpper(side[:1])+side[1:], shares, symbol))
	return opts.notice(cmd, output.LevelSuccess, fmt.Sprintf("%s at %s. Cash balance: %s",
		msg, snfsapi.FormatMoney(tc.price.Decimal), snfsapi.FormatMoney(result.UpdatedBalance)))
}

// loadTradeContext fetches the portfolio, its holdings and the current price
// concurrently. A symbol without price data yields an invalid price rather
// than an error so that validation can report it.
func loadTradeContext(opts *appOptions, portfolioID, userID int, symbol string) (*tradeContext, error) {
	ctx, cancel := opts.requestContext()
	defer cancel()

	tc := &tradeContext{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := opts.client.GetPortfolio(gctx, portfolioID, userID)
		if err != nil {
			return fmt.Errorf("failed to fetch portfolio: %w", err)
		}
		tc.portfolio = p
		return nil
	})
	g.Go(func() error {
		holdings, err := opts.client.ListHoldings(gctx, portfolioID, userID)
		if err != nil {
			return fmt.Errorf("failed to fetch holdings: %w", err)
		}
		if h, ok := snfsapi.FindHolding(holdings, symbol); ok {
			tc.held = h.NumShares
		}
		return nil
	})
	g.Go(func() error {
		price, err := opts.client.CurrentPrice(gctx, symbol)
		if err != nil {
			if apiErr, ok := snfsapi.AsAPIError(err); ok && apiErr.IsNotFound() {
				opts.log().Debug("no current price", "symbol", symbol)
				return nil
			}
			return fmt.Errorf("failed to fetch current price: %w", err)
		}
		tc.price = decimal.NewNullDecimal(price.Close)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tc, nil
}
