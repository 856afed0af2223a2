package chart

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/rustyeddy/tradestats/analysis"
)

// EntryExit scatters exit price against entry price with an OLS fit. The
// correlation, p-value and line equation are labelled at the top left of the
// data.
func EntryExit(t *analysis.Table) (*plot.Plot, error) {
	var xs, ys []float64
	for _, tr := range t.Trades {
		if tr.Entry.Valid && tr.Exit.Valid {
			xs = append(xs, tr.Entry.Float64)
			ys = append(ys, tr.Exit.Float64)
		}
	}
	if len(xs) < 3 {
		return nil, insufficient("entry/exit", "need at least 3 trades with entry and exit prices")
	}

	fit, err := analysis.FitOLS(xs, ys)
	if errors.Is(err, analysis.ErrDegenerateFit) {
		return nil, insufficient("entry/exit", "entry prices are all equal")
	}
	if err != nil {
		return nil, err
	}

	p := newPlot("Entry vs Exit Price", "Entry", "Exit")

	sc, err := plotter.NewScatter(xyPairs(xs, ys))
	if err != nil {
		return nil, err
	}
	sc.GlyphStyle.Color = colorPoint
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = vg.Points(2.5)

	line := fitLine(fit)

	note, err := cornerLabel(floats.Min(xs), floats.Max(ys), fit.Correlation()+"\n"+fit.Equation())
	if err != nil {
		return nil, err
	}

	p.Add(plotter.NewGrid(), sc, line, note)
	p.Legend.Add("trades", sc)
	p.Legend.Add("OLS fit", line)
	p.Legend.Top = false
	p.Legend.Left = false

	return p, nil
}

func fitLine(fit analysis.Fit) *plotter.Function {
	line := plotter.NewFunction(fit.At)
	line.Color = colorFit
	line.Width = vg.Points(1.5)
	return line
}

// cornerLabel anchors txt with its top left corner on (x, y).
func cornerLabel(x, y float64, txt string) (*plotter.Labels, error) {
	l, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: x, Y: y}},
		Labels: []string{txt},
	})
	if err != nil {
		return nil, err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = text.XLeft
		l.TextStyle[i].YAlign = text.YTop
	}
	return l, nil
}

func xyPairs(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}
