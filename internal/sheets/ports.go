package sheets

import "context"

// FinanceRow is one project's finance figures for a month, as written
// to an external spreadsheet.
type FinanceRow struct {
	Month       string
	ProjectName string
	Client      string
	HourlyRate  float64
	BonusRate   float64
	Hours       float64
	Bonus       float64
}

// FinanceWriter pushes finance rows to an external spreadsheet. Rows for
// an already written month replace the previous ones.
type FinanceWriter interface {
	WriteFinanceRows(ctx context.Context, month string, rows []FinanceRow) error
}
