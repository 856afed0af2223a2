package chart

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/rustyeddy/tradestats/analysis"
)

// WinLoss draws two bars, wins and losses, each labelled with its count.
func WinLoss(t *analysis.Table) (*plot.Plot, error) {
	if t.Len() == 0 {
		return nil, insufficient("win/loss", "no trades")
	}

	wins := 0
	for _, tr := range t.Trades {
		if tr.IsWin {
			wins++
		}
	}
	losses := t.Len() - wins

	p := newPlot("Win/Loss Count", "Outcome", "Trades")

	winBar, err := plotter.NewBarChart(plotter.Values{float64(wins)}, vg.Points(60))
	if err != nil {
		return nil, err
	}
	winBar.Color = colorWin
	winBar.LineStyle.Width = 0

	lossBar, err := plotter.NewBarChart(plotter.Values{float64(losses)}, vg.Points(60))
	if err != nil {
		return nil, err
	}
	lossBar.Color = colorLoss
	lossBar.LineStyle.Width = 0
	lossBar.XMin = 1

	counts, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0, Y: float64(wins)}, {X: 1, Y: float64(losses)}},
		Labels: []string{strconv.Itoa(wins), strconv.Itoa(losses)},
	})
	if err != nil {
		return nil, err
	}
	for i := range counts.TextStyle {
		counts.TextStyle[i].XAlign = text.XCenter
	}
	counts.Offset = vg.Point{Y: vg.Points(4)}

	p.Add(plotter.NewGrid(), winBar, lossBar, counts)
	p.NominalX("Wins", "Losses")
	p.Y.Min = 0
	p.Y.Max = math.Max(float64(wins), float64(losses)) * 1.15

	return p, nil
}
