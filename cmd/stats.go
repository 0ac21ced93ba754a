package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snfs-app/snfs/pkg/snfsapi"
)

var statHeaders = []string{"Symbol", "Mean Return", "Std Dev", "Coeff. of Variation", "Beta", "Days"}

func statRows(stats []snfsapi.StockStatistic) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, s := range stats {
		days := "-"
		if s.Days > 0 {
			days = fmt.Sprint(s.Days)
		}
		rows = append(rows, []string{
			s.Symbol,
			snfsapi.FormatPercent(s.MeanReturn),
			snfsapi.FormatPercent(s.StddevReturn),
			snfsapi.FormatRatio(s.CoefficientOfVariation, 4),
			snfsapi.FormatRatio(s.Beta, 4),
			days,
		})
	}
	return rows
}

// correlationTable lays the matrix out with one column per symbol.
func correlationTable(stats *snfsapi.Statistics) ([]string, [][]string) {
	symbols := stats.Symbols()
	headers := append([]string{""}, symbols...)

	rows := make([][]string, 0, len(stats.CorrelationMatrix))
	for _, row := range stats.CorrelationMatrix {
		cells := []string{row.Symbol}
		for _, sym := range symbols {
			cells = append(cells, snfsapi.FormatRatio(row.Correlations[sym], 2))
		}
		rows = append(rows, cells)
	}
	return headers, rows
}

// renderStatistics prints per-stock statistics, the portfolio beta when
// withBeta is set, and the correlation matrix.
func renderStatistics(cmd *cobra.Command, opts *appOptions, stats *snfsapi.Statistics, withBeta bool) error {
	f := opts.formatter(cmd)
	if f.JSONMode {
		return f.Print(stats)
	}

	out := cmd.OutOrStdout()
	if stats.DateRange.StartDate != "" || stats.DateRange.EndDate != "" {
		_, _ = fmt.Fprintf(out, "Period: %s to %s\n\n",
			snfsapi.FormatDate(stats.DateRange.StartDate), snfsapi.FormatDate(stats.DateRange.EndDate))
	}

	if len(stats.StockStatistics) == 0 {
		_, _ = fmt.Fprintln(out, "No statistics available for this period")
		return nil
	}

	if err := f.Table(statHeaders, statRows(stats.StockStatistics)); err != nil {
		return err
	}

	if withBeta {
		_, _ = fmt.Fprintf(out, "\nPortfolio beta: %s\n", snfsapi.FormatRatio(stats.PortfolioBeta, 4))
	}

	if len(stats.CorrelationMatrix) > 0 {
		_, _ = fmt.Fprintln(out, "\nCorrelation matrix")
		headers, rows := correlationTable(stats)
		return f.Table(headers, rows)
	}
	return nil
}
