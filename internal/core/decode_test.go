package core

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeString(t *testing.T, input string, opts DecodeOptions) ([]Row, *Header, error) {
	t.Helper()
	return DecodeRows(context.Background(), strings.NewReader(input), opts)
}

func TestDecodeRows(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    DecodeOptions
		wantCol []string
		want    [][]string
	}{
		{
			name:    "header and two rows",
			input:   "a,b\n1,2\n3,4\n",
			wantCol: []string{"a", "b"},
			want:    [][]string{{"1", "2"}, {"3", "4"}},
		},
		{
			name:    "no trailing newline",
			input:   "a,b\n1,2",
			wantCol: []string{"a", "b"},
			want:    [][]string{{"1", "2"}},
		},
		{
			name:    "header only",
			input:   "a,b\n",
			wantCol: []string{"a", "b"},
			want:    [][]string{},
		},
		{
			name:    "empty input",
			input:   "",
			wantCol: []string{},
			want:    [][]string{},
		},
		{
			name:    "quoted fields with delimiter and newline",
			input:   "name,note\n\"Doe, Jane\",\"two\nlines\"\n",
			wantCol: []string{"name", "note"},
			want:    [][]string{{"Doe, Jane", "two\nlines"}},
		},
		{
			name:    "escaped quotes",
			input:   "q\n\"say \"\"hi\"\"\"\n",
			wantCol: []string{"q"},
			want:    [][]string{{`say "hi"`}},
		},
		{
			name:    "blank lines skipped",
			input:   "a\n\n1\n\n2\n",
			wantCol: []string{"a"},
			want:    [][]string{{"1"}, {"2"}},
		},
		{
			name:    "crlf line endings",
			input:   "a,b\r\n1,2\r\n",
			wantCol: []string{"a", "b"},
			want:    [][]string{{"1", "2"}},
		},
		{
			name:    "ragged rows",
			input:   "a,b,c\n1\n1,2,3,4\n",
			wantCol: []string{"a", "b", "c"},
			want:    [][]string{{"1", "", ""}, {"1", "2", "3"}},
		},
		{
			name:    "semicolon delimiter",
			input:   "a;b\n1;2\n",
			opts:    DecodeOptions{Comma: ';'},
			wantCol: []string{"a", "b"},
			want:    [][]string{{"1", "2"}},
		},
		{
			name:    "lazy quotes",
			input:   "a\nsay \"hi\"\n",
			opts:    DecodeOptions{LazyQuotes: true},
			wantCol: []string{"a"},
			want:    [][]string{{`say "hi"`}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, header, err := decodeString(t, tt.input, tt.opts)
			require.NoError(t, err)
			require.NotNil(t, rows)
			assert.Equal(t, tt.wantCol, header.Columns())

			got := make([][]string, 0, len(rows))
			for _, r := range rows {
				got = append(got, r.Values())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRows_PreservesOrder(t *testing.T) {
	input := "id\nr1\nr2\nr3\nr4\nr5\n"
	rows, _, err := decodeString(t, input, DecodeOptions{})
	require.NoError(t, err)

	var ids []string
	for _, r := range rows {
		v, _ := r.Get("id")
		ids = append(ids, v)
	}
	assert.Equal(t, []string{"r1", "r2", "r3", "r4", "r5"}, ids)
}

func TestDecodeRows_ParseError(t *testing.T) {
	rows, _, err := decodeString(t, "a,b\n1,\"unterminated\n", DecodeOptions{})
	require.Error(t, err)
	assert.Nil(t, rows)

	var parseErr *csv.ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Contains(t, err.Error(), "invalid csv")
}

func TestDecodeRows_BareQuoteIsStrictByDefault(t *testing.T) {
	_, _, err := decodeString(t, "a\nsay \"hi\"\n", DecodeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, csv.ErrBareQuote)
}

func TestDecodeRows_ParseErrorInHeader(t *testing.T) {
	_, _, err := decodeString(t, "\"a\n", DecodeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, csv.ErrQuote)
}

type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestDecodeRows_ReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	r := &failingReader{data: []byte("a,b\n1,2\n"), err: boom}

	rows, _, err := DecodeRows(context.Background(), r, DecodeOptions{})
	require.Error(t, err)
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "read csv source")
}

func TestDecodeRows_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows, _, err := DecodeRows(ctx, strings.NewReader("a\n1\n2\n"), DecodeOptions{})
	require.Error(t, err)
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeRows_CancelledMidStream(t *testing.T) {
	prev := ContextCheckInterval
	ContextCheckInterval = 2
	t.Cleanup(func() { ContextCheckInterval = prev })

	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	go func() {
		pw.Write([]byte("a\n1\n2\n"))
		cancel()
		pw.Write([]byte("3\n4\n5\n"))
		pw.Close()
	}()

	_, _, err := DecodeRows(ctx, pr, DecodeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
