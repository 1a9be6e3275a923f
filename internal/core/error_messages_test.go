package core

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"no source path", ErrNoSourcePath, "CFG001"},
		{"missing file", fmt.Errorf("open csv source: %w", &fs.PathError{Op: "open", Path: "x.csv", Err: fs.ErrNotExist}), "FILE006"},
		{"missing file via os", fmt.Errorf("wrap: %w", os.ErrNotExist), "FILE006"},
		{"permission denied", fmt.Errorf("open csv source: %w", fs.ErrPermission), "FILE007"},
		{"directory", fmt.Errorf("csv source /tmp: %w", ErrSourceIsDir), "FILE008"},
		{"directory by message", errors.New("read /tmp: is a directory"), "FILE008"},
		{"parse error", fmt.Errorf("x.csv: invalid csv: %w", &csv.ParseError{Line: 3, Column: 2, Err: csv.ErrQuote}), "FILE002"},
		{"read failure", errors.New("x.csv: read csv source: unexpected EOF"), "FILE009"},
		{"too many fetches", ErrTooManyFetches, "FET001"},
		{"cancelled", fmt.Errorf("decode cancelled after 3 rows: %w", context.Canceled), "REQ001"},
		{"deadline", fmt.Errorf("x.csv: %w", context.DeadlineExceeded), "REQ002"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"case insensitive pattern", errors.New("INVALID CSV somewhere"), "FILE002"},
		{"unknown error returns default", errors.New("some random internal error"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError().Code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Message == "" {
				t.Error("MapError().Message is empty")
			}
		})
	}
}

func TestMapError_ContextBeatsFileErrors(t *testing.T) {
	err := fmt.Errorf("x.csv: %w", errors.Join(context.Canceled, fs.ErrNotExist))
	if got := MapError(err).Code; got != "REQ001" {
		t.Errorf("MapError().Code = %q, want REQ001", got)
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(ErrNoSourcePath)
	if !strings.Contains(got, "(Code: CFG001)") {
		t.Errorf("FormatUserError() = %q, want code CFG001", got)
	}
	if !strings.Contains(got, "CSV_FILE_NAME") {
		t.Errorf("FormatUserError() = %q, want action mentioning CSV_FILE_NAME", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("IsUserFacing(nil) = true")
	}
	if !IsUserFacing(ErrTooManyFetches) {
		t.Error("IsUserFacing(ErrTooManyFetches) = false")
	}
	if IsUserFacing(errors.New("boom")) {
		t.Error("IsUserFacing(boom) = true")
	}
}
