package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"bonustracker/internal/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

var reportTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"number":      FormatNumber,
	"numberPtr":   FormatNumberPtr,
	"currency":    FormatCurrency,
	"currencyPtr": FormatCurrencyPtr,
	"germanMonth": GermanMonth,
	"percent": func(rate float64) string {
		return FormatNumber(rate*100) + "%"
	},
	"germanDate": func(t time.Time) string {
		return t.Format("02.01.2006")
	},
}).ParseFS(templatesFS, "templates/*.html"))

type financePage struct {
	Title  string
	Report services.FinanceReport
}

// FinanceHTML renders a print-ready finance report. The month is
// optional; without it the title names the year.
func FinanceHTML(report services.FinanceReport, year int, month string) ([]byte, error) {
	title := fmt.Sprintf("Finanzübersicht %d", year)
	if month != "" {
		title = "Finanzübersicht " + GermanMonth(month)
	}

	var buf bytes.Buffer
	if err := reportTemplates.ExecuteTemplate(&buf, "finance.html", financePage{
		Title:  title,
		Report: report,
	}); err != nil {
		return nil, fmt.Errorf("render finance report: %w", err)
	}
	return buf.Bytes(), nil
}

// CustomerHTML renders a print-ready customer report with the month's
// time entries, the report note and signature lines.
func CustomerHTML(report services.CustomerReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplates.ExecuteTemplate(&buf, "customer.html", report); err != nil {
		return nil, fmt.Errorf("render customer report: %w", err)
	}
	return buf.Bytes(), nil
}
