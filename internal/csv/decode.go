// Package csv decodes the loosely formatted CSV exported by published
// spreadsheets into header-keyed records.
//
// The decoder is deliberately lenient: it never fails on malformed quoting.
// An unterminated quote consumes the rest of the text, blank rows are
// dropped, and short rows are padded with empty strings.
package csv

import (
	"fmt"
	"io"
	"strings"
)

// Record maps lower-cased, trimmed header names to trimmed cell values.
// Keys keep the order of the header row.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord builds a record from alternating key/value pairs.
// Keys are normalized the same way Decode normalizes headers.
func NewRecord(pairs ...string) Record {
	r := Record{values: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.set(normalizeHeader(pairs[i]), strings.TrimSpace(pairs[i+1]))
	}
	return r
}

func (r *Record) set(key, value string) {
	if _, seen := r.values[key]; !seen {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key, or "" when the column is absent.
func (r Record) Get(key string) string {
	return r.values[key]
}

// Lookup returns the value for key and whether the column exists.
func (r Record) Lookup(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the header names in column order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of distinct columns.
func (r Record) Len() int {
	return len(r.keys)
}

// Decode parses text into records. The first row is the header.
func Decode(text string) []Record {
	rows := splitRows(text)
	if len(rows) == 0 {
		return nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normalizeHeader(h)
	}

	var out []Record
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := Record{values: make(map[string]string, len(header))}
		for i, key := range header {
			cell := ""
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			rec.set(key, cell)
		}
		out = append(out, rec)
	}
	return out
}

// DecodeReader reads r to the end and decodes it.
func DecodeReader(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Decode(string(data)), nil
}

// splitRows tokenizes text into rows of raw fields.
// '"' toggles quoting, '""' inside quotes is a literal quote, and '\r' is
// dropped outside quotes.
func splitRows(text string) [][]string {
	var (
		rows     [][]string
		row      []string
		field    strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				field.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case ',':
			row = append(row, field.String())
			field.Reset()
		case '\n':
			row = append(row, field.String())
			field.Reset()
			rows = append(rows, row)
			row = nil
		case '\r':
		default:
			field.WriteByte(c)
		}
	}

	row = append(row, field.String())
	rows = append(rows, row)
	return rows
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
