package analysis

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ErrNoData is returned when there are no trades to summarise.
var ErrNoData = errors.New("no data: trade log has no rows")

// Summary holds the statistics reported for a trade log.
type Summary struct {
	Total  int
	Wins   int
	Losses int // Total - Wins; includes break-even and null-pnl trades

	Ratio  float64 // Wins / Losses, +Inf when there are no losses
	WinPct float64 // Wins / Total, in [0, 1]

	GrossProfit  decimal.Decimal
	GrossLoss    decimal.Decimal // positive magnitude of non-positive pnl
	NetPnL       decimal.Decimal
	ProfitFactor float64 // +Inf when GrossLoss is zero
	MaxDrawdown  float64 // worst equity / running peak - 1, <= 0

	NullPnL        int
	NullTimestamps int
}

// Compute reduces t to a Summary. It returns ErrNoData for an empty table.
func Compute(t *Table) (Summary, error) {
	if t.Len() == 0 {
		return Summary{}, ErrNoData
	}

	s := Summary{Total: t.Len()}

	var (
		peak    float64
		hasPeak bool
	)
	for _, tr := range t.Trades {
		if tr.IsWin {
			s.Wins++
		}
		if !tr.Timestamp.Valid {
			s.NullTimestamps++
		}

		if tr.PnL.Valid {
			v := decimal.NewFromFloat(tr.PnL.Float64)
			if v.IsPositive() {
				s.GrossProfit = s.GrossProfit.Add(v)
			} else {
				s.GrossLoss = s.GrossLoss.Sub(v)
			}
		} else {
			s.NullPnL++
		}

		if tr.Equity.Valid {
			eq := tr.Equity.Float64
			if !hasPeak || eq > peak {
				peak, hasPeak = eq, true
			}
			if peak > 0 {
				if dd := eq/peak - 1; dd < s.MaxDrawdown {
					s.MaxDrawdown = dd
				}
			}
		}
	}

	s.Losses = s.Total - s.Wins
	s.WinPct = float64(s.Wins) / float64(s.Total)
	if s.Losses == 0 {
		s.Ratio = math.Inf(1)
	} else {
		s.Ratio = float64(s.Wins) / float64(s.Losses)
	}

	s.NetPnL = s.GrossProfit.Sub(s.GrossLoss)
	if s.GrossLoss.IsZero() {
		s.ProfitFactor = math.Inf(1)
	} else {
		s.ProfitFactor = s.GrossProfit.Div(s.GrossLoss).InexactFloat64()
	}

	return s, nil
}
