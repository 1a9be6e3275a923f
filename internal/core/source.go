package core

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/JonMunkholm/csvfetch/internal/config"
)

// ErrNoSourcePath is returned when no CSV path has been configured.
var ErrNoSourcePath = errors.New("csv source path not configured (set CSV_FILE_NAME)")

// ErrSourceIsDir is returned when the configured path names a directory.
var ErrSourceIsDir = errors.New("csv source is a directory")

// Source is the configured CSV file. It holds no open handle; every Fetch
// opens, reads and closes the file independently.
type Source struct {
	Path    string
	Options DecodeOptions
}

// NewSource creates a Source from configuration.
func NewSource(cfg config.SourceConfig) *Source {
	return &Source{
		Path: cfg.Path,
		Options: DecodeOptions{
			Comma:      cfg.Comma(),
			LazyQuotes: cfg.LazyQuotes,
		},
	}
}

// FetchResult is the full decoded content of one read of the source.
type FetchResult struct {
	Rows      []Row
	Columns   []string
	BytesRead int64
}

// Fetch opens the source, decodes it completely and closes it. Either all
// rows are returned or an error is; partial results are discarded.
func (s *Source) Fetch(ctx context.Context) (*FetchResult, error) {
	f, info, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, counter := WrapForStreaming(f, info.Size())
	rows, header, err := DecodeRows(ctx, reader, s.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}

	return &FetchResult{
		Rows:      rows,
		Columns:   header.Columns(),
		BytesRead: counter.BytesRead,
	}, nil
}

// Check reports whether the source is configured and is a readable regular
// file, without decoding it.
func (s *Source) Check() error {
	f, _, err := s.open()
	if err != nil {
		return err
	}
	return f.Close()
}

// open opens the configured path and rejects directories.
func (s *Source) open() (*os.File, os.FileInfo, error) {
	if s.Path == "" {
		return nil, nil, ErrNoSourcePath
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv source: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat csv source: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, fmt.Errorf("csv source %s: %w", s.Path, ErrSourceIsDir)
	}
	return f, info, nil
}
