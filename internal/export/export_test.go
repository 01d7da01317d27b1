package export

import (
	"strings"
	"testing"
	"time"

	"bonustracker/internal/core"
	"bonustracker/internal/services"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0,00"},
		{6.66, "6,66"},
		{1234.56, "1.234,56"},
		{1234567.891, "1.234.567,89"},
		{-9876.5, "-9.876,50"},
		{999, "999,00"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCurrencyPtr(t *testing.T) {
	v := 1500.0
	if got := FormatCurrencyPtr(&v); got != "1.500,00 €" {
		t.Errorf("got %q", got)
	}
	if got := FormatCurrencyPtr(nil); got != "—" {
		t.Errorf("nil value: got %q", got)
	}
}

func TestGermanMonth(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-01", "Januar 2025"},
		{"2024-12", "Dezember 2024"},
		{"2025-99", "99 2025"},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		if got := GermanMonth(tt.in); got != tt.want {
			t.Errorf("GermanMonth(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSafeFilename(t *testing.T) {
	if got := SafeFilename(`ACME GmbH & Co. "KG"`); got != "ACME_GmbH___Co.__KG_" {
		t.Errorf("got %q", got)
	}
}

func TestFilenames(t *testing.T) {
	if got := CustomerFilename("ACME GmbH", "2025-03", "html"); got != "Kundenbericht_ACME_GmbH_2025-03.html" {
		t.Errorf("customer: got %q", got)
	}
	if got := FinanceFilename(2025, "", "csv"); got != "Finanzbericht_2025.csv" {
		t.Errorf("finance year: got %q", got)
	}
	if got := FinanceFilename(2025, "2025-03", "csv"); got != "Finanzbericht_2025-03.csv" {
		t.Errorf("finance month: got %q", got)
	}
}

func TestFinanceCSV(t *testing.T) {
	rate := 85.0
	data, err := FinanceCSV([]services.MonthlyProjectReport{
		{ProjectName: "Rollout", Client: "ACME", HourlyRate: &rate, BonusRate: 0.02, TotalHours: 12.5, BonusAmount: 21.25},
		{ProjectName: "=SUM(A1)", Client: "Initech", BonusRate: 0.02, TotalHours: 1, BonusAmount: 0},
	})
	if err != nil {
		t.Fatalf("FinanceCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "Projekt,Kunde,Stundensatz,Bonussatz,Stunden,Bonus" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[1] != "Rollout,ACME,85,0.02,12.5,21.25" {
		t.Errorf("row: got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "'=SUM(A1)") {
		t.Errorf("formula not defused: %q", lines[2])
	}
}

func TestFinanceHTML(t *testing.T) {
	rate := 85.0
	report := services.FinanceReport{
		Month: "2025-03",
		Projects: []services.MonthlyProjectReport{
			{ProjectName: "Rollout", Client: "ACME", Month: "2025-03", HourlyRate: &rate, BonusRate: 0.02, TotalHours: 12.5, BonusAmount: 21.25},
		},
		TotalHours: 12.5,
		TotalBonus: 21.25,
	}

	html, err := FinanceHTML(report, 2025, "2025-03")
	if err != nil {
		t.Fatalf("FinanceHTML: %v", err)
	}

	for _, want := range []string{
		"Finanzübersicht März 2025",
		"Rollout",
		"85,00 €",
		"2,00%",
		"12,50",
		"21,25 €",
		"Gesamt",
	} {
		if !strings.Contains(string(html), want) {
			t.Errorf("missing %q in finance html", want)
		}
	}
}

func TestCustomerHTML(t *testing.T) {
	report := services.CustomerReport{
		ProjectID:   "rollout",
		ProjectName: "Rollout",
		Client:      "ACME <GmbH>",
		Month:       "2025-03",
		TotalHours:  9.5,
		Note:        "Abnahme erfolgt",
		Entries: []core.TimeEntry{
			{Date: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), Employee: "Anna", Description: "Workshop", Duration: 6},
			{Date: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), Employee: "Ben", Description: "Review", Duration: 3.5},
		},
		ProjectManager: "Clara",
		Contact:        "Herr Maier",
	}

	html, err := CustomerHTML(report)
	if err != nil {
		t.Fatalf("CustomerHTML: %v", err)
	}

	out := string(html)
	for _, want := range []string{
		"Kunde: ACME &lt;GmbH&gt; | März 2025",
		"Abnahme erfolgt",
		"04.03.2025",
		"Anna",
		"Workshop",
		"Unterschrift Projektleiter",
		"Herr Maier",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in customer html", want)
		}
	}
}
