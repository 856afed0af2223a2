// Package analysis turns loaded trade records into an augmented table and
// the summary statistics printed for a run.
package analysis

import (
	"database/sql"

	"github.com/rustyeddy/tradestats/journal"
)

// Trade is a trade record plus the columns derived from it.
type Trade struct {
	journal.TradeRecord

	Number int             // 1-based position in file order
	IsWin  bool            // pnl > 0; a null pnl is never a win
	CumPnL sql.NullFloat64 // running pnl sum, null where pnl is null
}

// Table is the analysis context handed to the statistics calculator and the
// chart renderers. It is built once by Derive and not modified afterwards.
type Table struct {
	Trades []Trade
}

// Derive builds a Table from records without touching them. Null pnl values
// are skipped by the running sum, which carries on from the last valid row.
func Derive(records []journal.TradeRecord) *Table {
	t := &Table{Trades: make([]Trade, len(records))}

	var cum float64
	for i, r := range records {
		tr := Trade{TradeRecord: r, Number: i + 1}
		if r.PnL.Valid {
			cum += r.PnL.Float64
			tr.CumPnL = sql.NullFloat64{Float64: cum, Valid: true}
			tr.IsWin = r.PnL.Float64 > 0
		}
		t.Trades[i] = tr
	}
	return t
}

// Len returns the number of trades.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Trades)
}
