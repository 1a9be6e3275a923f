package core

import (
	"bytes"
	"encoding/json"
)

// Header is the column layout shared by every Row decoded from one file.
//
// Columns holds each distinct header name once, in order of first
// appearance. positions maps a record's field index to its column, so a
// repeated header name points back at the column of its first occurrence.
type Header struct {
	columns   []string
	index     map[string]int
	positions []int
}

// NewHeader builds a Header from the first CSV record.
func NewHeader(fields []string) *Header {
	h := &Header{
		columns:   make([]string, 0, len(fields)),
		index:     make(map[string]int, len(fields)),
		positions: make([]int, len(fields)),
	}
	for i, name := range fields {
		col, ok := h.index[name]
		if !ok {
			col = len(h.columns)
			h.columns = append(h.columns, name)
			h.index[name] = col
		}
		h.positions[i] = col
	}
	return h
}

// Columns returns the distinct column names in file order.
func (h *Header) Columns() []string {
	out := make([]string, len(h.columns))
	copy(out, h.columns)
	return out
}

// Len returns the number of distinct columns.
func (h *Header) Len() int {
	return len(h.columns)
}

// row maps one CSV record onto the header.
//
// Missing trailing fields stay "" and fields beyond the header are dropped,
// so every Row of a file carries exactly the header's key set. For duplicate
// header names the later field wins.
func (h *Header) row(record []string) Row {
	values := make([]string, len(h.columns))
	for i, v := range record {
		if i >= len(h.positions) {
			break
		}
		values[h.positions[i]] = v
	}
	return Row{header: h, values: values}
}

// Row is one decoded CSV record keyed by the file's header.
// It marshals to a JSON object whose keys follow column order.
type Row struct {
	header *Header
	values []string
}

// Get returns the cell for column key.
func (r Row) Get(key string) (string, bool) {
	if r.header == nil {
		return "", false
	}
	col, ok := r.header.index[key]
	if !ok {
		return "", false
	}
	return r.values[col], true
}

// Keys returns the row's column names in order.
func (r Row) Keys() []string {
	if r.header == nil {
		return nil
	}
	return r.header.Columns()
}

// Values returns the row's cells in column order.
func (r Row) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Map returns the row as an unordered map.
func (r Row) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for i, v := range r.values {
		m[r.header.columns[i]] = v
	}
	return m
}

// MarshalJSON encodes the row as an object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	out := make([]byte, 0, 16*len(r.values)+2)
	out = append(out, '{')
	for i, v := range r.values {
		if i > 0 {
			out = append(out, ',')
		}
		key, err := encodeString(enc, &buf, r.header.columns[i])
		if err != nil {
			return nil, err
		}
		out = append(out, key...)
		out = append(out, ':')
		val, err := encodeString(enc, &buf, v)
		if err != nil {
			return nil, err
		}
		out = append(out, val...)
	}
	out = append(out, '}')
	return out, nil
}

// encodeString JSON-quotes s through enc, reusing buf between calls.
func encodeString(enc *json.Encoder, buf *bytes.Buffer, s string) ([]byte, error) {
	buf.Reset()
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
