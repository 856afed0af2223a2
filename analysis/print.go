package analysis

import (
	"fmt"
	"io"
	"math"
)

// PrintSummary writes the five summary lines.
func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "Total trades:  %d\n", s.Total)
	fmt.Fprintf(w, "Wins:          %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", s.Losses)
	fmt.Fprintf(w, "Win/Loss:      %s\n", FormatRatio(s.Ratio))
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", s.WinPct*100)
}

// PrintPerformance writes the P/L block shown with --detail.
func PrintPerformance(w io.Writer, s Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Net P/L:       %s\n", s.NetPnL.StringFixed(2))
	fmt.Fprintf(w, "Gross Profit:  %s\n", s.GrossProfit.StringFixed(2))
	fmt.Fprintf(w, "Gross Loss:    %s\n", s.GrossLoss.StringFixed(2))
	fmt.Fprintf(w, "Profit Factor: %s\n", FormatRatio(s.ProfitFactor))
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", s.MaxDrawdown*100)

	if s.NullPnL > 0 || s.NullTimestamps > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Data Quality")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Null P/L:      %d\n", s.NullPnL)
		fmt.Fprintf(w, "Bad Times:     %d\n", s.NullTimestamps)
	}
}

// FormatRatio rounds to three decimals and spells out infinity.
func FormatRatio(x float64) string {
	if math.IsInf(x, 1) {
		return "Inf"
	}
	return fmt.Sprintf("%.3f", x)
}
