package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradestats/config"
)

// LoadSQLite reads trades from table of a SQLite trade journal, in rowid
// order. The database is opened read-only and never created.
func LoadSQLite(ctx context.Context, path, table string, opts Options) ([]TradeRecord, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open trade journal: %w", err)
	}

	dsn, err := readOnlyDSN(path)
	if err != nil {
		return nil, fmt.Errorf("open trade journal: %w", err)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open trade journal: %w", err)
	}
	defer db.Close()

	source := path + ":" + table
	if err := checkColumns(ctx, db, source, table, opts.Columns); err != nil {
		return nil, err
	}

	fields := opts.Columns.Fields()
	sel := make([]string, len(fields))
	for i, f := range fields {
		sel[i] = quoteIdent(strings.TrimSpace(f[1]))
	}

	rows, err := db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(sel, ", "), quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", source, err)
	}
	defer rows.Close()

	layout := opts.layout()
	var out []TradeRecord
	for rows.Next() {
		var ts, entry, exit, pnl, equity any
		if err := rows.Scan(&ts, &entry, &exit, &pnl, &equity); err != nil {
			return nil, fmt.Errorf("scan %s: %w", source, err)
		}
		out = append(out, TradeRecord{
			Timestamp: timeValue(ts, layout),
			Entry:     floatValue(entry),
			Exit:      floatValue(exit),
			PnL:       floatValue(pnl),
			Equity:    floatValue(equity),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("source", source).Int("rows", len(out)).Msg("loaded trade journal")
	return out, nil
}

func checkColumns(ctx context.Context, db *sql.DB, source, table string, cols config.Columns) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return fmt.Errorf("inspect %s: %w", source, err)
	}
	defer rows.Close()

	var header []string
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notnull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			return fmt.Errorf("inspect %s: %w", source, err)
		}
		header = append(header, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(header) == 0 {
		return fmt.Errorf("%s: table not found", source)
	}

	_, err = resolve(source, header, cols)
	return err
}

// readOnlyDSN builds a file: URI for path. The path is escaped so that '?'
// and '#' in file names are not read as URI delimiters.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	return u.String(), nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func floatValue(v any) sql.NullFloat64 {
	switch x := v.(type) {
	case nil:
		return sql.NullFloat64{}
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return sql.NullFloat64{}
		}
		return sql.NullFloat64{Float64: x, Valid: true}
	case int64:
		return sql.NullFloat64{Float64: float64(x), Valid: true}
	case []byte:
		return parseFloat(string(x))
	case string:
		return parseFloat(x)
	}
	return sql.NullFloat64{}
}

func timeValue(v any, layout string) sql.NullTime {
	switch x := v.(type) {
	case time.Time:
		// go-sqlite3 hands back the zero time for unparseable DATETIME text
		if x.IsZero() {
			return sql.NullTime{}
		}
		return sql.NullTime{Time: x.UTC(), Valid: true}
	case []byte:
		return parseTime(string(x), layout)
	case string:
		return parseTime(x, layout)
	}
	return sql.NullTime{}
}
