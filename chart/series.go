package chart

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/rustyeddy/tradestats/analysis"
)

// EquityCurve plots equity against the trade timestamp in file order. Rows
// with a null timestamp or equity are left out.
func EquityCurve(t *analysis.Table) (*plot.Plot, error) {
	var xs, ys []float64
	for _, tr := range t.Trades {
		if tr.Timestamp.Valid && tr.Equity.Valid {
			xs = append(xs, unixSeconds(tr.Timestamp.Time))
			ys = append(ys, tr.Equity.Float64)
		}
	}
	if len(xs) == 0 {
		return nil, insufficient("equity", "no trades with both a valid timestamp and equity")
	}

	p := newPlot("Equity Over Time", "Time", "Equity")
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02\n15:04"}

	line, points, err := plotter.NewLinePoints(xyPairs(xs, ys))
	if err != nil {
		return nil, err
	}
	line.Color = colorPoint
	points.Color = colorPoint
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(2)

	p.Add(plotter.NewGrid(), line, points)
	return p, nil
}

// CumulativePnL plots running P&L against trade number with a zero line and
// an OLS trend whose equation is labelled near the top of the range.
func CumulativePnL(t *analysis.Table) (*plot.Plot, error) {
	var xs, ys []float64
	for _, tr := range t.Trades {
		if tr.CumPnL.Valid {
			xs = append(xs, float64(tr.Number))
			ys = append(ys, tr.CumPnL.Float64)
		}
	}
	if len(xs) < 2 {
		return nil, insufficient("cumulative P&L", "need at least 2 trades with P&L")
	}

	fit, err := analysis.FitOLS(xs, ys)
	if errors.Is(err, analysis.ErrDegenerateFit) {
		return nil, insufficient("cumulative P&L", "cannot fit trend")
	}
	if err != nil {
		return nil, err
	}

	p := newPlot("Cumulative P&L", "Trade #", "Cumulative P&L")

	line, points, err := plotter.NewLinePoints(xyPairs(xs, ys))
	if err != nil {
		return nil, err
	}
	line.Color = colorPoint
	points.Color = colorPoint
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(2)

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = colorZero
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}

	trend := fitLine(fit)
	trend.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}

	note, err := cornerLabel(floats.Min(xs), floats.Max(ys), "Trend: "+fit.Equation())
	if err != nil {
		return nil, err
	}

	p.Add(plotter.NewGrid(), zero, line, points, trend, note)
	p.Legend.Add("cumulative P&L", line, points)
	p.Legend.Add("trend", trend)
	p.Legend.Top = true
	p.Legend.Left = false

	// keep the zero line on the chart
	if p.Y.Min > 0 {
		p.Y.Min = 0
	}
	if p.Y.Max < 0 {
		p.Y.Max = 0
	}
	return p, nil
}

// unixSeconds keeps sub-second precision so trades closed within the same
// second still plot in order.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
