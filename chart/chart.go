// Package chart renders trade log figures with gonum/plot.
//
// Each renderer takes the analysis table and returns a finished *plot.Plot,
// or an error wrapping ErrInsufficientData when the columns it needs are
// empty. Renderers never modify the table.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/rustyeddy/tradestats/analysis"
)

// ErrInsufficientData is returned by a renderer whose input columns hold too
// few valid values to draw anything meaningful.
var ErrInsufficientData = errors.New("insufficient data")

var (
	colorWin   = color.RGBA{R: 46, G: 139, B: 87, A: 255}
	colorLoss  = color.RGBA{R: 205, G: 55, B: 55, A: 255}
	colorPoint = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorFit   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	colorZero  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Renderer draws one figure from the table.
type Renderer func(t *analysis.Table) (*plot.Plot, error)

// Chart names a renderer and the file stem it saves to.
type Chart struct {
	Name   string
	Render Renderer
}

// Charts lists the figures produced for every run, in render order.
var Charts = []Chart{
	{Name: "win_loss", Render: WinLoss},
	{Name: "entry_exit", Render: EntryExit},
	{Name: "equity", Render: EquityCurve},
	{Name: "cum_pnl", Render: CumulativePnL},
}

// Figure is a rendered chart.
type Figure struct {
	Name string
	Plot *plot.Plot
}

// RenderAll runs every chart. Figures that rendered are returned even when
// others failed; the failures come back joined.
func RenderAll(t *analysis.Table) ([]Figure, error) {
	var (
		figs []Figure
		errs []error
	)
	for _, c := range Charts {
		p, err := c.Render(t)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		figs = append(figs, Figure{Name: c.Name, Plot: p})
	}
	return figs, errors.Join(errs...)
}

// Size is the figure size in inches.
type Size struct {
	Width  float64
	Height float64
}

func (s Size) lengths() (vg.Length, vg.Length) {
	return vg.Length(s.Width) * vg.Inch, vg.Length(s.Height) * vg.Inch
}

// Save writes fig to dir/<name>.<format> and returns the path. The format is
// any extension gonum/plot understands (png, svg, pdf, ...).
func Save(fig Figure, dir, format string, size Size) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, fig.Name+"."+format)
	w, h := size.lengths()
	if err := fig.Plot.Save(w, h, path); err != nil {
		return "", fmt.Errorf("save %s: %w", fig.Name, err)
	}
	return path, nil
}

func insufficient(chart, reason string) error {
	return fmt.Errorf("%s: %w: %s", chart, ErrInsufficientData, reason)
}

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	return p
}
