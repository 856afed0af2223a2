package report

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
	"time"

	"github.com/rustyeddy/tradestats/analysis"
)

// Run describes one analysis run for the Org-mode report.
type Run struct {
	ID      string
	Created time.Time
	Source  string

	Summary analysis.Summary

	// Figures maps chart name to the saved file path.
	Figures []Figure
	// Problems holds charts that could not be drawn and why.
	Problems []string
}

// Figure is a saved chart file.
type Figure struct {
	Name string
	Path string
}

var orgFuncs = template.FuncMap{
	"pct":   func(x float64) string { return fmt.Sprintf("%.2f", x*100) },
	"ratio": analysis.FormatRatio,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTmpl = template.Must(template.New("report").Funcs(orgFuncs).Parse(OrgTemplate))

// Org renders the run as an Org-mode block.
func (r *Run) Org() (string, error) {
	buf := new(bytes.Buffer)
	if err := orgTmpl.Execute(buf, r); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}

// WriteOrg renders the report to path.
func (r *Run) WriteOrg(path string) error {
	s, err := r.Org()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

const OrgTemplate = `* TRADE STATS: {{.Source}}
:PROPERTIES:
:RUN_ID:      {{.ID}}
:SOURCE:      {{.Source}}
:TRADES:      {{.Summary.Total}}
:WINS:        {{.Summary.Wins}}
:LOSSES:      {{.Summary.Losses}}
:WIN_LOSS:    {{ratio .Summary.Ratio}}
:WIN_RATE:    {{pct .Summary.WinPct}}
:NET_PL:      {{.Summary.NetPnL.StringFixed 2}}
:PROFIT_FAC:  {{ratio .Summary.ProfitFactor}}
:MAX_DD_PCT:  {{pct .Summary.MaxDrawdown}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Summary.Wins}} |
| Losses  | {{.Summary.Losses}} |
| Total   | {{.Summary.Total}} |

** Performance Summary
- Win Rate:         *{{pct .Summary.WinPct}}%*
- Net P/L:          *{{.Summary.NetPnL.StringFixed 2}}*
- Gross Profit:     {{.Summary.GrossProfit.StringFixed 2}}
- Gross Loss:       {{.Summary.GrossLoss.StringFixed 2}}
- Max Drawdown:     {{pct .Summary.MaxDrawdown}}%
{{- if or .Summary.NullPnL .Summary.NullTimestamps }}
- Null P/L rows:    {{.Summary.NullPnL}}
- Bad timestamps:   {{.Summary.NullTimestamps}}
{{- end }}

** Charts
{{- range .Figures }}
*** {{.Name}}
[[file:{{.Path}}]]
{{- else }}
# no charts were saved
{{- end }}
{{- if .Problems }}

** Not Rendered
{{- range .Problems }}
- {{.}}
{{- end }}
{{- end }}
`
