package profile

import (
	"strings"
	"unicode/utf8"
)

// Header supplies column titles by zero-based position.
type Header []string

// Title returns the trimmed label at position i, or Placeholder when the
// header is shorter than i+1. Ragged rows regularly outrun the header, so
// this never fails.
func (h Header) Title(i int) string {
	if i < 0 || i >= len(h) {
		return Placeholder
	}
	return strings.TrimSpace(h[i])
}

// Aggregator folds rows into per-position column profiles.
// It is not safe for concurrent use.
type Aggregator struct {
	header Header
	cols   []*Column // index == Position
	rows   int
}

// NewAggregator returns an empty Aggregator. header may be nil.
func NewAggregator(header Header) *Aggregator {
	return &Aggregator{header: header}
}

// Ingest folds one row. Cell i updates the profile at position i, creating
// it when the row is the first to reach that far.
func (a *Aggregator) Ingest(row []string) {
	for i, cell := range row {
		v := strings.TrimSpace(cell)
		width := utf8.RuneCountInString(v)
		kind := Classify(v)
		if i < len(a.cols) {
			a.cols[i].fold(width, kind)
			continue
		}
		c := &Column{Position: i, Title: a.header.Title(i)}
		c.fold(width, kind)
		a.cols = append(a.cols, c)
	}
	a.rows++
}

// Rows is the number of rows ingested so far.
func (a *Aggregator) Rows() int { return a.rows }

// Len is the number of distinct column positions seen so far.
func (a *Aggregator) Len() int { return len(a.cols) }

// Column returns a copy of the profile at position i.
func (a *Aggregator) Column(i int) (Column, bool) {
	if i < 0 || i >= len(a.cols) {
		return Column{}, false
	}
	return *a.cols[i], true
}

// Columns returns copies of all profiles ordered by position.
func (a *Aggregator) Columns() []Column {
	out := make([]Column, len(a.cols))
	for i, c := range a.cols {
		out[i] = *c
	}
	return out
}
