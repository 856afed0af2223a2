package analysis

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradestats/journal"
)

func pnlRecords(pnls ...float64) []journal.TradeRecord {
	recs := make([]journal.TradeRecord, len(pnls))
	for i, p := range pnls {
		recs[i].PnL = sql.NullFloat64{Float64: p, Valid: true}
	}
	return recs
}

func TestDeriveCumulativePnL(t *testing.T) {
	t.Parallel()

	tbl := Derive(pnlRecords(5, -3, 2))
	require.Equal(t, 3, tbl.Len())

	var cum []float64
	for _, tr := range tbl.Trades {
		cum = append(cum, tr.CumPnL.Float64)
	}
	assert.Equal(t, []float64{5, 2, 4}, cum)
	assert.Equal(t, []bool{true, false, true}, []bool{tbl.Trades[0].IsWin, tbl.Trades[1].IsWin, tbl.Trades[2].IsWin})
}

func TestDeriveInvariants(t *testing.T) {
	t.Parallel()

	recs := pnlRecords(1.5, -2.25, 0, 10, -0.75, 3.125, -4)
	tbl := Derive(recs)

	assert.Equal(t, recs[0].PnL.Float64, tbl.Trades[0].CumPnL.Float64)
	for i, tr := range tbl.Trades {
		assert.Equal(t, i+1, tr.Number)
		if i > 0 {
			assert.Equal(t, tbl.Trades[i-1].CumPnL.Float64+tr.PnL.Float64, tr.CumPnL.Float64)
		}
	}
}

func TestDeriveDoesNotMutateRecords(t *testing.T) {
	t.Parallel()

	recs := pnlRecords(1, 2)
	before := append([]journal.TradeRecord(nil), recs...)
	_ = Derive(recs)
	assert.Equal(t, before, recs)
}

func TestDeriveNullPnL(t *testing.T) {
	t.Parallel()

	recs := pnlRecords(4, 0, 1)
	recs[1].PnL = sql.NullFloat64{}
	tbl := Derive(recs)

	assert.False(t, tbl.Trades[1].IsWin)
	assert.False(t, tbl.Trades[1].CumPnL.Valid)
	assert.True(t, tbl.Trades[2].CumPnL.Valid)
	assert.Equal(t, 5.0, tbl.Trades[2].CumPnL.Float64)
}

func TestCompute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		pnls   []float64
		wins   int
		losses int
		ratio  float64
		winPct float64
	}{
		{"six of ten", []float64{1, 2, 3, 4, 5, 6, -1, 0, -2, -3}, 6, 4, 1.5, 0.6},
		{"all losses", []float64{-1, -2, 0}, 0, 3, 0, 0},
		{"all wins", []float64{1, 2}, 2, 0, math.Inf(1), 1},
		{"single loss", []float64{-1}, 0, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compute(Derive(pnlRecords(tt.pnls...)))
			require.NoError(t, err)

			assert.Equal(t, len(tt.pnls), s.Total)
			assert.Equal(t, tt.wins, s.Wins)
			assert.Equal(t, tt.losses, s.Losses)
			assert.Equal(t, s.Total, s.Wins+s.Losses)
			assert.Equal(t, tt.ratio, s.Ratio)
			assert.Equal(t, tt.winPct, s.WinPct)
			assert.GreaterOrEqual(t, s.WinPct, 0.0)
			assert.LessOrEqual(t, s.WinPct, 1.0)
			assert.Equal(t, s.Losses == 0, math.IsInf(s.Ratio, 1))
		})
	}
}

func TestComputeNoData(t *testing.T) {
	t.Parallel()

	_, err := Compute(Derive(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))

	_, err = Compute(nil)
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestComputeNullPnLIsLoss(t *testing.T) {
	t.Parallel()

	recs := pnlRecords(3, 0, -1)
	recs[1].PnL = sql.NullFloat64{}

	s, err := Compute(Derive(recs))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 2, s.Losses)
	assert.Equal(t, 1, s.NullPnL)
	assert.Equal(t, 3, s.NullTimestamps)
}

func TestComputePerformance(t *testing.T) {
	t.Parallel()

	recs := pnlRecords(0.1, 0.2, -0.3, 100, -50)
	equity := []float64{1000, 1100, 990, 1210, 1089}
	for i := range recs {
		recs[i].Equity = sql.NullFloat64{Float64: equity[i], Valid: true}
	}

	s, err := Compute(Derive(recs))
	require.NoError(t, err)

	assert.Equal(t, "100.30", s.GrossProfit.StringFixed(2))
	assert.Equal(t, "50.30", s.GrossLoss.StringFixed(2))
	assert.Equal(t, "50.00", s.NetPnL.StringFixed(2))
	assert.InDelta(t, 100.3/50.3, s.ProfitFactor, 1e-12)
	assert.InDelta(t, -0.1, s.MaxDrawdown, 1e-12)
}

func TestComputeNoLossesProfitFactor(t *testing.T) {
	t.Parallel()

	s, err := Compute(Derive(pnlRecords(1, 2)))
	require.NoError(t, err)
	assert.True(t, math.IsInf(s.ProfitFactor, 1))
	assert.Equal(t, 0.0, s.MaxDrawdown)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	s, err := Compute(Derive(pnlRecords(1, 2, 3, 4, 5, 6, -1, 0, -2, -3)))
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, s)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "10")
	assert.Contains(t, lines[1], "6")
	assert.Contains(t, lines[2], "4")
	assert.Contains(t, lines[3], "1.500")
	assert.Contains(t, lines[4], "60.00%")
}

func TestPrintSummaryInfiniteRatio(t *testing.T) {
	t.Parallel()

	s, err := Compute(Derive(pnlRecords(1)))
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, s)
	assert.Contains(t, buf.String(), "Win/Loss:      Inf")
}

func TestPrintPerformance(t *testing.T) {
	t.Parallel()

	recs := pnlRecords(2, -1)
	recs[1].PnL = sql.NullFloat64{}
	s, err := Compute(Derive(recs))
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintPerformance(&buf, s)
	out := buf.String()
	assert.Contains(t, out, "Net P/L:       2.00")
	assert.Contains(t, out, "Profit Factor: Inf")
	assert.Contains(t, out, "Null P/L:      1")
}

func TestDeriveSameFileTwice(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, os.WriteFile(path, []byte(`ts,symbol,side,entry,exit,pnl,equity,reason
2024-01-02T14:30:00.123456,BTC/USD,long,42000.5,42100.5,10.0,1010.0,tp
2024-01-02T15:05:10,BTC/USD,short,42100,42150,-5.5,1004.5,sl
2024-01-03T09:00:00,BTC/USD,long,,42000,,1004.5,manual
2024-01-03T10:00:00,BTC/USD,long,42000,42030,3,1007.5,tp
`), 0644))

	load := func() *Table {
		recs, err := journal.LoadCSV(context.Background(), path, journal.DefaultOptions())
		require.NoError(t, err)
		return Derive(recs)
	}
	a, b := load(), load()
	require.Equal(t, 4, a.Len())
	assert.Equal(t, a, b)

	sa, err := Compute(a)
	require.NoError(t, err)
	sb, err := Compute(b)
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
}
