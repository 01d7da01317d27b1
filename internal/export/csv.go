package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"bonustracker/internal/services"
)

// FinanceCSV renders the per-project finance totals as CSV. Numbers use
// machine-readable dot notation so the file imports cleanly into
// spreadsheet tools.
func FinanceCSV(projects []services.MonthlyProjectReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Projekt", "Kunde", "Stundensatz", "Bonussatz", "Stunden", "Bonus"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, p := range projects {
		rate := 0.0
		if p.HourlyRate != nil {
			rate = *p.HourlyRate
		}
		record := []string{
			defuseFormula(p.ProjectName),
			defuseFormula(p.Client),
			formatFloat(rate),
			formatFloat(p.BonusRate),
			formatFloat(p.TotalHours),
			formatFloat(p.BonusAmount),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
