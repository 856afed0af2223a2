package journal

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// LoadCSV reads the whole trade log at path and returns its records in file
// order. The file is closed before any parsing happens.
func LoadCSV(ctx context.Context, path string, opts Options) ([]TradeRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open trade log: %w", err)
	}

	recs, err := readCSV(ctx, path, bytes.NewReader(data), opts)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("rows", len(recs)).Msg("loaded trade log")
	return recs, nil
}

// ReadCSV parses a delimited trade log with a header row.
func ReadCSV(ctx context.Context, r io.Reader, opts Options) ([]TradeRecord, error) {
	return readCSV(ctx, "trade log", r, opts)
}

func readCSV(ctx context.Context, source string, r io.Reader, opts Options) ([]TradeRecord, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file, no header row", source)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", source, err)
	}

	idx, err := resolve(source, header, opts.Columns)
	if err != nil {
		return nil, err
	}

	log := zerolog.Ctx(ctx)
	layout := opts.layout()

	var out []TradeRecord
	badTS := 0
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", source, line, err)
		}

		rec := TradeRecord{
			Timestamp: parseTime(cell(row, idx[0]), layout),
			Entry:     parseFloat(cell(row, idx[1])),
			Exit:      parseFloat(cell(row, idx[2])),
			PnL:       parseFloat(cell(row, idx[3])),
			Equity:    parseFloat(cell(row, idx[4])),
		}
		if !rec.Timestamp.Valid {
			badTS++
			log.Debug().Int("line", line).Str("value", cell(row, idx[0])).Msg("unparseable timestamp")
		}
		out = append(out, rec)
	}

	if badTS > 0 {
		log.Warn().Int("rows", badTS).Str("layout", layout).Msg("timestamps could not be parsed, left null")
	}
	return out, nil
}
