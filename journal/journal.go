package journal

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradestats/config"
)

// TradeRecord is one closed trade as it appears in the trade log. Any field
// may be null when the log cell is empty or unparseable.
type TradeRecord struct {
	Timestamp sql.NullTime
	Entry     sql.NullFloat64
	Exit      sql.NullFloat64
	PnL       sql.NullFloat64
	Equity    sql.NullFloat64
}

// Options tell the loaders which columns hold which field and how to parse
// them.
type Options struct {
	Columns    config.Columns
	Delimiter  rune
	TimeLayout string
}

// DefaultOptions matches the paper trader's logs/trades.csv.
func DefaultOptions() Options {
	return OptionsFrom(config.Default())
}

// OptionsFrom builds loader options from a validated config.
func OptionsFrom(cfg *config.Config) Options {
	return Options{
		Columns:    cfg.Columns,
		Delimiter:  cfg.Source.Delim(),
		TimeLayout: cfg.Source.Layout(),
	}
}

func (o Options) layout() string {
	if o.TimeLayout == "" {
		return config.DefaultTimeLayout
	}
	return o.TimeLayout
}

// MissingColumnsError lists every required field whose column was not found.
type MissingColumnsError struct {
	Source  string
	Missing [][2]string // logical field, mapped column name
}

func (e *MissingColumnsError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		parts = append(parts, fmt.Sprintf("%s (%q)", m[0], m[1]))
	}
	return fmt.Sprintf("%s: missing required columns: %s", e.Source, strings.Join(parts, ", "))
}

// resolve maps each logical field onto its index in header. Fields come back
// in Columns.Fields order.
func resolve(source string, header []string, cols config.Columns) ([5]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	var idx [5]int
	var missing [][2]string
	for i, f := range cols.Fields() {
		j, ok := pos[strings.TrimSpace(f[1])]
		if !ok {
			missing = append(missing, f)
			continue
		}
		idx[i] = j
	}
	if len(missing) > 0 {
		return idx, &MissingColumnsError{Source: source, Missing: missing}
	}
	return idx, nil
}

func isNullToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "none", "n/a":
		return true
	}
	return false
}

func parseFloat(s string) sql.NullFloat64 {
	s = strings.TrimSpace(s)
	if isNullToken(s) {
		return sql.NullFloat64{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// parseTime reads s in layout as UTC. Fractional seconds are accepted even
// when the layout omits them.
func parseTime(s, layout string) sql.NullTime {
	s = strings.TrimSpace(s)
	if isNullToken(s) {
		return sql.NullTime{}
	}
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
