package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ContextCheckInterval is how often (in records) decoding checks for
// cancellation.
var ContextCheckInterval = 100

// DecodeOptions tunes the CSV reader.
type DecodeOptions struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// LazyQuotes allows a quote to appear in an unquoted field and a
	// non-doubled quote to appear in a quoted field.
	LazyQuotes bool
}

// DecodeRows reads every record from r. The first record is the header;
// each later record becomes a Row keyed by it, in file order.
//
// A source with no header at all decodes to an empty, non-nil slice. The
// first read or parse error aborts decoding and no rows are returned.
func DecodeRows(ctx context.Context, r io.Reader, opts DecodeOptions) ([]Row, *Header, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = opts.LazyQuotes
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	rows := []Row{}

	fields, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return rows, NewHeader(nil), nil
	}
	if err != nil {
		return nil, nil, wrapReadError(err)
	}
	header := NewHeader(fields)

	for i := 0; ; i++ {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, fmt.Errorf("decode cancelled after %d rows: %w", len(rows), err)
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, wrapReadError(err)
		}
		rows = append(rows, header.row(record))
	}

	return rows, header, nil
}

// wrapReadError separates malformed content from I/O failures. encoding/csv
// reports syntax problems as *csv.ParseError and passes reader errors through
// unchanged.
func wrapReadError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("invalid csv: %w", err)
	}
	return fmt.Errorf("read csv source: %w", err)
}
