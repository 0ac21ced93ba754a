package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/internal/validate"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// stockHistoryFlags are the filters of 'stocks'.
type stockHistoryFlags struct {
	symbol  string
	start   string
	end     string
	page    int
	perPage int
}

// newStocksCmd creates the stocks command with the given options.
func newStocksCmd(opts *appOptions) *cobra.Command {
	var flags stockHistoryFlags

	cmd := &cobra.Command{
		Use:   "stocks",
		Short: "Stock price history, prices and predictions",
		Long: `Browse daily stock price history.

Examples:
  snfs stocks --symbol AAPL --start 2017-01-01 --end 2017-12-31
  snfs stocks --symbol AAPL --page 2 --per-page 50
  snfs stocks symbols AA          # Search symbols
  snfs stocks price AAPL          # Latest bar
  snfs stocks predict AAPL --days 30
  snfs stocks add AAPL --date 2018-03-01 --close 178.12 --volume 1200000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStockHistory(cmd, opts, flags)
		},
	}
	cmd.SilenceUsage = true

	cmd.Flags().StringVarP(&flags.symbol, "symbol", "s", "", "Filter by symbol")
	cmd.Flags().StringVar(&flags.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&flags.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&flags.perPage, "per-page", 0, "Rows per page (default from config)")

	for _, c := range []*cobra.Command{
		newSymbolsCmd(opts),
		newPriceCmd(opts),
		newPredictCmd(opts),
		newAddStockCmd(opts),
	} {
		c.SilenceUsage = true
		cmd.AddCommand(c)
	}

	return cmd
}

var stockPriceHeaders = []string{"Date", "Symbol", "Open", "High", "Low", "Close", "Volume"}

func stockPriceRows(prices []snfsapi.StockPrice) [][]string {
	rows := make([][]string, 0, len(prices))
	for _, p := range prices {
		rows = append(rows, []string{
			snfsapi.FormatDate(p.Timestamp),
			p.Symbol,
			snfsapi.FormatMoney(p.Open),
			snfsapi.FormatMoney(p.High),
			snfsapi.FormatMoney(p.Low),
			snfsapi.FormatMoney(p.Close),
			snfsapi.FormatVolume(p.Volume.IntPart()),
		})
	}
	return rows
}

func runStockHistory(cmd *cobra.Command, opts *appOptions, flags stockHistoryFlags) error {
	if err := validate.DateRange(flags.start, flags.end); err != nil {
		return err
	}
	if flags.page < 1 {
		return &validate.Error{Fields: map[string]string{"page": "must be at least 1"}}
	}
	perPage := flags.perPage
	if perPage <= 0 {
		perPage = opts.pageSize
	}

	ctx, cancel := opts.requestContext()
	defer cancel()

	page, err := opts.client.ListStockPrices(ctx, snfsapi.StockQuery{
		Symbol:    flags.symbol,
		StartDate: flags.start,
		EndDate:   flags.end,
		Page:      flags.page,
		PerPage:   perPage,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch stock prices: %w", err)
	}

	f := opts.formatter(cmd)
	if f.JSONMode {
		return f.Print(page)
	}

	if len(page.Stocks) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No stock data found")
		return nil
	}
	if err := f.Table(stockPriceHeaders, stockPriceRows(page.Stocks)); err != nil {
		return err
	}

	p := page.Pagination
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d of %d (%d records)\n", p.Page, p.TotalPages, p.TotalItems)
	return err
}

func newSymbolsCmd(opts *appOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "symbols [SEARCH]",
		Short: "Search stock symbols",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			search := ""
			if len(args) > 0 {
				search = args[0]
			}

			ctx, cancel := opts.requestContext()
			defer cancel()

			symbols, err := opts.client.Symbols(ctx, search, limit)
			if err != nil {
				return fmt.Errorf("failed to fetch symbols: %w", err)
			}

			rows := make([][]string, 0, len(symbols))
			for _, s := range symbols {
				rows = append(rows, []string{s})
			}
			return opts.formatter(cmd).Table([]string{"Symbol"}, rows)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of symbols")
	return cmd
}

func newPriceCmd(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "price SYMBOL",
		Short: "Show the latest price bar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.requestContext()
			defer cancel()

			p, err := opts.client.CurrentPrice(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch current price: %w", err)
			}

			f := opts.formatter(cmd)
			if f.JSONMode {
				return f.Print(p)
			}
			return f.KeyValues([][2]string{
				{"Symbol", p.Symbol},
				{"Date", snfsapi.FormatDate(p.Timestamp)},
				{"Open", snfsapi.FormatMoney(p.Open)},
				{"High", snfsapi.FormatMoney(p.High)},
				{"Low", snfsapi.FormatMoney(p.Low)},
				{"Close", snfsapi.FormatMoney(p.Close)},
				{"Volume", snfsapi.FormatVolume(p.Volume.IntPart())},
			})
		},
	}
}

func newPredictCmd(opts *appOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "predict SYMBOL",
		Short: "Show the predicted closing prices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return &validate.Error{Fields: map[string]string{"days": "must be at least 1"}}
			}

			ctx, cancel := opts.requestContext()
			defer cancel()

			pred, err := opts.client.Predict(ctx, args[0], days)
			if err != nil {
				return fmt.Errorf("failed to fetch prediction: %w", err)
			}

			rows := make([][]string, 0, len(pred.Predictions))
			for _, p := range pred.Predictions {
				rows = append(rows, []string{snfsapi.FormatDate(p.Date), snfsapi.FormatMoney(p.PredictedClose)})
			}
			return opts.formatter(cmd).Table([]string{"Date", "Predicted Close"}, rows)
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Number of days to predict")
	return cmd
}

func newAddStockCmd(opts *appOptions) *cobra.Command {
	var in validate.StockPriceInput

	cmd := &cobra.Command{
		Use:   "add SYMBOL",
		Short: "Add a daily price bar",
		Long: `Add a daily price bar for a symbol. Only dates on or after ` + validate.MinStockPriceDate + `
can be added. Open, high and low are optional.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Symbol = args[0]
			req, err := validate.StockPrice(in)
			if err != nil {
				return err
			}
			userID, err := opts.requireUser()
			if err != nil {
				return err
			}
			req.UserID = userID

			ctx, cancel := opts.requestContext()
			defer cancel()

			msg, err := opts.client.AddStockPrice(ctx, *req)
			if err != nil {
				return fmt.Errorf("failed to add stock data: %w", err)
			}
			return opts.notice(cmd, output.LevelSuccess, messageOr(msg, "Stock data added successfully"))
		},
	}

	cmd.Flags().StringVar(&in.Date, "date", "", "Trading day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Open, "open", "", "Opening price")
	cmd.Flags().StringVar(&in.High, "high", "", "High price")
	cmd.Flags().StringVar(&in.Low, "low", "", "Low price")
	cmd.Flags().StringVar(&in.Close, "close", "", "Closing price")
	cmd.Flags().StringVar(&in.Volume, "volume", "", "Volume")
	return cmd
}

func init() {
	addAppCommand(newStocksCmd)
}
