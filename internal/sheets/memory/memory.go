// Package memory provides an in-memory FinanceWriter for tests and
// local development without spreadsheet credentials.
package memory

import (
	"context"
	"sync"

	"bonustracker/internal/sheets"
)

type Writer struct {
	mu     sync.Mutex
	months map[string][]sheets.FinanceRow
}

var _ sheets.FinanceWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{months: make(map[string][]sheets.FinanceRow)}
}

func (w *Writer) WriteFinanceRows(_ context.Context, month string, rows []sheets.FinanceRow) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.months[month] = append([]sheets.FinanceRow(nil), rows...)
	return nil
}

// Rows returns the rows last written for a month.
func (w *Writer) Rows(month string) []sheets.FinanceRow {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]sheets.FinanceRow(nil), w.months[month]...)
}

// Months returns the month keys that have been written.
func (w *Writer) Months() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	keys := make([]string, 0, len(w.months))
	for k := range w.months {
		keys = append(keys, k)
	}
	return keys
}
