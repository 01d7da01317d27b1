package memory

import (
	"context"
	"testing"

	"bonustracker/internal/sheets"
)

func TestWriterReplacesMonth(t *testing.T) {
	w := New()
	ctx := context.Background()

	first := []sheets.FinanceRow{{Month: "2025-03", ProjectName: "Rollout", Hours: 10}}
	if err := w.WriteFinanceRows(ctx, "2025-03", first); err != nil {
		t.Fatalf("WriteFinanceRows: %v", err)
	}

	second := []sheets.FinanceRow{
		{Month: "2025-03", ProjectName: "Rollout", Hours: 12},
		{Month: "2025-03", ProjectName: "Audit", Hours: 3},
	}
	if err := w.WriteFinanceRows(ctx, "2025-03", second); err != nil {
		t.Fatalf("WriteFinanceRows: %v", err)
	}

	rows := w.Rows("2025-03")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Hours != 12 {
		t.Errorf("expected replaced row, got %+v", rows[0])
	}
	if months := w.Months(); len(months) != 1 || months[0] != "2025-03" {
		t.Errorf("unexpected months: %v", months)
	}
}
