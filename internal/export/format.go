package export

import (
	"regexp"
	"strconv"
	"strings"
)

var germanMonths = map[string]string{
	"01": "Januar",
	"02": "Februar",
	"03": "März",
	"04": "April",
	"05": "Mai",
	"06": "Juni",
	"07": "Juli",
	"08": "August",
	"09": "September",
	"10": "Oktober",
	"11": "November",
	"12": "Dezember",
}

// FormatNumber renders a number in German notation: 1.234,56.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// FormatNumberPtr is FormatNumber with a dash for absent values.
func FormatNumberPtr(v *float64) string {
	if v == nil {
		return "—"
	}
	return FormatNumber(*v)
}

// FormatCurrency renders a Euro amount: 1.234,56 €.
func FormatCurrency(v float64) string {
	return FormatNumber(v) + " €"
}

// FormatCurrencyPtr is FormatCurrency with a dash for absent values.
func FormatCurrencyPtr(v *float64) string {
	if v == nil {
		return "—"
	}
	return FormatCurrency(*v)
}

// GermanMonth converts a YYYY-MM key to a German month name with year,
// e.g. "2025-03" becomes "März 2025". Inputs that do not look like a
// month key are returned unchanged.
func GermanMonth(month string) string {
	year, mm, ok := strings.Cut(month, "-")
	if !ok {
		return month
	}
	name, ok := germanMonths[mm]
	if !ok {
		name = mm
	}
	return name + " " + year
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w\-.]`)

// SafeFilename replaces characters unsafe for HTTP headers and filenames.
func SafeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// CustomerFilename builds the download name of a customer report.
func CustomerFilename(client, month, ext string) string {
	return "Kundenbericht_" + SafeFilename(client) + "_" + month + "." + ext
}

// FinanceFilename builds the download name of a finance report. The month
// is optional; without it the report covers the whole year.
func FinanceFilename(year int, month, ext string) string {
	suffix := strconv.Itoa(year)
	if month != "" {
		suffix = month
	}
	return "Finanzbericht_" + suffix + "." + ext
}

// defuseFormula prefixes values that spreadsheet applications would
// otherwise execute as formulas.
func defuseFormula(value string) string {
	if value == "" {
		return value
	}
	switch value[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + value
	}
	return value
}
