package cmd

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/internal/validate"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// newPortfolioCmd creates the portfolio command with the given options.
func newPortfolioCmd(opts *appOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "portfolio",
		Aliases: []string{"portfolios"},
		Short:   "Manage portfolios, cash and trades",
		Long: `List and manage your portfolios.

Examples:
  snfs portfolio                       # List portfolios
  snfs portfolio create "Retirement"   # Create a portfolio
  snfs portfolio show 3                # Balance and cash history
  snfs portfolio deposit 3 500         # Deposit $500
  snfs portfolio withdraw 3 100        # Withdraw $100
  snfs portfolio transfer 3 4 50       # Move $50 from portfolio 3 to 4
  snfs portfolio holdings 3            # Stock holdings with total value
  snfs portfolio trades 3              # Buy/sell history
  snfs portfolio buy 3 AAPL 10         # Buy 10 shares at the current price
  snfs portfolio stats 3 --start 2017-01-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPortfolioList(cmd, opts)
		},
	}
	cmd.SilenceUsage = true

	subcommands := []*cobra.Command{
		{
			Use:   "create NAME",
			Short: "Create a portfolio",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPortfolioCreate(cmd, opts, args[0])
			},
		},
		{
			Use:   "show PORTFOLIO_ID",
			Short: "Show balance and cash transactions",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPortfolioShow(cmd, opts, args[0])
			},
		},
		{
			Use:   "deposit PORTFOLIO_ID AMOUNT",
			Short: "Deposit cash",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCashTransaction(cmd, opts, args[0], snfsapi.CashDeposit, args[1])
			},
		},
		{
			Use:   "withdraw PORTFOLIO_ID AMOUNT",
			Short: "Withdraw cash",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCashTransaction(cmd, opts, args[0], snfsapi.CashWithdrawal, args[1])
			},
		},
		{
			Use:   "transfer FROM_ID TO_ID AMOUNT",
			Short: "Transfer cash between two of your portfolios",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTransfer(cmd, opts, args[0], args[1], args[2])
			},
		},
		{
			Use:   "holdings PORTFOLIO_ID",
			Short: "Show stock holdings and their total value",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runHoldings(cmd, opts, args[0])
			},
		},
		{
			Use:   "trades PORTFOLIO_ID",
			Short: "Show stock transaction history",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTrades(cmd, opts, args[0])
			},
		},
		newTradeCmd(opts, snfsapi.TradeBuy),
		newTradeCmd(opts, snfsapi.TradeSell),
		newPortfolioStatsCmd(opts),
	}
	for _, c := range subcommands {
		c.SilenceUsage = true
		cmd.AddCommand(c)
	}

	return cmd
}

var portfolioHeaders = []string{"ID", "Name", "Balance"}

func portfolioRows(portfolios []snfsapi.Portfolio) [][]string {
	rows := make([][]string, 0, len(portfolios))
	for _, p := range portfolios {
		rows = append(rows, []string{
			strconv.Itoa(p.PortfolioID),
			p.Name,
			snfsapi.FormatMoney(p.Balance),
		})
	}
	return rows
}

func runPortfolioList(cmd *cobra.Command, opts *appOptions) error {
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	portfolios, err := opts.client.ListPortfolios(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch portfolios: %w", err)
	}

	f := opts.formatter(cmd)
	if len(portfolios) == 0 && !f.JSONMode {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No portfolios yet. Create one with 'snfs portfolio create NAME'.")
		return nil
	}

	return f.Table(portfolioHeaders, portfolioRows(portfolios))
}

func runPortfolioCreate(cmd *cobra.Command, opts *appOptions, name string) error {
	name, err := validate.PortfolioName(name)
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	p, err := opts.client.CreatePortfolio(ctx, userID, name)
	if err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}
	return opts.notice(cmd, output.LevelSuccess, fmt.Sprintf("Created portfolio %q (ID %d)", p.Name, p.PortfolioID))
}

// portfolioDetail is the JSON shape of 'portfolio show'.
type portfolioDetail struct {
	Portfolio    snfsapi.Portfolio         `json:"portfolio"`
	Transactions []snfsapi.CashTransaction `json:"transactions"`
}

func runPortfolioShow(cmd *cobra.Command, opts *appOptions, arg string) error {
	portfolioID, err := validate.ID("portfolio", arg)
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	var detail portfolioDetail
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := opts.client.GetPortfolio(gctx, portfolioID, userID)
		if err != nil {
			return fmt.Errorf("failed to fetch portfolio: %w", err)
		}
		detail.Portfolio = *p
		return nil
	})
	g.Go(func() error {
		txs, err := opts.client.ListCashTransactions(gctx, portfolioID, userID)
		if err != nil {
			return fmt.Errorf("failed to fetch cash transactions: %w", err)
		}
		detail.Transactions = txs
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	f := opts.formatter(cmd)
	if f.JSONMode {
		return f.Print(detail)
	}

	if err := f.KeyValues([][2]string{
		{"Portfolio", fmt.Sprintf("%s (ID %d)", detail.Portfolio.Name, detail.Portfolio.PortfolioID)},
		{"Cash Balance", snfsapi.FormatMoney(detail.Portfolio.Balance)},
	}); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	if len(detail.Transactions) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No cash transactions")
		return nil
	}
	return f.Table(cashHeaders, cashRows(detail.Transactions))
}

var cashHeaders = []string{"ID", "Date", "Type", "Amount"}

func cashRows(txs []snfsapi.CashTransaction) [][]string {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		amount := tx.Amount
		if tx.Type == snfsapi.CashWithdrawal {
			amount = amount.Neg()
		}
		rows = append(rows, []string{
			strconv.Itoa(tx.TransactionID),
			snfsapi.FormatTimestamp(tx.Timestamp),
			tx.Type,
			snfsapi.FormatSignedMoney(amount),
		})
	}
	return rows
}

func runCashTransaction(cmd *cobra.Command, opts *appOptions, idArg, txType, amountArg string) error {
	portfolioID, err := validate.ID("portfolio", idArg)
	if err != nil {
		return err
	}
	amount, err := validate.CashTransaction(txType, amountArg)
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	if txType == snfsapi.CashWithdrawal {
		p, err := opts.client.GetPortfolio(ctx, portfolioID, userID)
		if err != nil {
			return fmt.Errorf("failed to fetch portfolio: %w", err)
		}
		if err := validate.Withdrawal(amount, p.Balance); err != nil {
			return err
		}
	}

	result, err := opts.client.CreateCashTransaction(ctx, portfolioID, txType, amount)
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", txType, err)
	}

	msg := messageOr(result.Message, "Transaction recorded")
	return opts.notice(cmd, output.LevelSuccess, fmt.Sprintf("%s. New balance: %s", msg, snfsapi.FormatMoney(result.NewBalance)))
}

func runTransfer(cmd *cobra.Command, opts *appOptions, fromArg, toArg, amountArg string) error {
	fromID, err := validate.ID("from", fromArg)
	if err != nil {
		return err
	}
	toID, err := validate.ID("to", toArg)
	if err != nil {
		return err
	}
	amount, err := validate.Transfer(fromID, toID, amountArg)
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	msg, err := opts.client.Transfer(ctx, snfsapi.TransferRequest{
		UserID: userID,
		FromID: fromID,
		ToID:   toID,
		Amount: snfsapi.NewNumber(amount),
	})
	if err != nil {
		return fmt.Errorf("failed to transfer: %w", err)
	}
	return opts.notice(cmd, output.LevelSuccess, messageOr(msg, "Transfer completed"))
}

// holdingsView is the JSON shape of 'portfolio holdings'.
type holdingsView struct {
	Holdings   []snfsapi.Holding `json:"holdings"`
	TotalValue decimal.Decimal   `json:"total_value"`
}

var holdingHeaders = []string{"Symbol", "Company", "Shares", "Price", "Value"}

func holdingRows(holdings []snfsapi.Holding) [][]string {
	rows := make([][]string, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, []string{
			h.Symbol,
			h.CompanyName,
			snfsapi.FormatShares(h.NumShares),
			snfsapi.FormatNullMoney(h.CurrentPrice),
			snfsapi.FormatNullMoney(h.TotalValue),
		})
	}
	return rows
}

func runHoldings(cmd *cobra.Command, opts *appOptions, arg string) error {
	portfolioID, err := validate.ID("portfolio", arg)
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	holdings, err := opts.client.ListHoldings(ctx, portfolioID, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch holdings: %w", err)
	}

	view := holdingsView{Holdings: holdings, TotalValue: snfsapi.SumHoldingValues(holdings)}
	f := opts.formatter(cmd)
	if f.JSONMode {
		return f.Print(view)
	}

	if len(holdings) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No stock holdings")
		return nil
	}
	if err := f.Table(holdingHeaders, holdingRows(holdings)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "\nTotal value: %s\n", snfsapi.FormatMoney(view.TotalValue))
	return err
}

var tradeHeaders = []string{"ID", "Date", "Type", "Symbol", "Shares", "Price", "Total"}

func tradeRows(txs []snfsapi.StockTransaction) [][]string {
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, []string{
			strconv.Itoa(tx.TransactionID),
			snfsapi.FormatTimestamp(tx.Timestamp),
			tx.TransactionType,
			tx.Symbol,
			snfsapi.FormatShares(tx.NumShares),
			snfsapi.FormatMoney(tx.PricePerShare),
			snfsapi.FormatMoney(tx.Total()),
		})
	}
	return rows
}

func runTrades(cmd *cobra.Command, opts *appOptions, arg string) error {
	portfolioID, err := validate.ID("portfolio", arg)
	if err != nil {
		return err
	}
	userID, err := opts.requireUser()
	if err != nil {
		return err
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	txs, err := opts.client.ListStockTransactions(ctx, portfolioID, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch stock transactions: %w", err)
	}

	f := opts.formatter(cmd)
	if len(txs) == 0 && !f.JSONMode {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No stock transactions")
		return nil
	}
	return f.Table(tradeHeaders, tradeRows(txs))
}

func newPortfolioStatsCmd(opts *appOptions) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "stats PORTFOLIO_ID",
		Short: "Show return statistics, beta and correlations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolioID, err := validate.ID("portfolio", args[0])
			if err != nil {
				return err
			}
			if err := validate.DateRange(start, end); err != nil {
				return err
			}
			userID, err := opts.requireUser()
			if err != nil {
				return err
			}

			ctx, cancel := opts.requestContext()
			defer cancel()

			stats, err := opts.client.PortfolioStatistics(ctx, portfolioID, userID, snfsapi.DateRange{StartDate: start, EndDate: end})
			if err != nil {
				return fmt.Errorf("failed to fetch statistics: %w", err)
			}
			return renderStatistics(cmd, opts, stats, true)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	return cmd
}

func init() {
	addAppCommand(newPortfolioCmd)
}
