// Package clockify parses Clockify detailed CSV exports into typed
// time-entry and project records. Parsing is best-effort and
// row-isolated: bad rows are collected as error messages and never stop
// the rest of the file. The parser does no I/O and touches no storage.
package clockify

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Column headers of a Clockify detailed export.
const (
	colProject     = "Project"
	colClient      = "Client"
	colUser        = "User"
	colDescription = "Description"
	colStartDate   = "Start Date"
	colStartTime   = "Start Time"
	colEndTime     = "End Time"
	colDuration    = "Duration (decimal)"
)

type (
	// ParsedTimeEntry is a single parsed row, not yet persisted.
	ParsedTimeEntry struct {
		ProjectID   string
		ProjectName string
		Client      string
		Employee    string
		Description string
		Date        time.Time
		StartTime   string // "HH:MM", empty when absent
		EndTime     string
		Duration    float64
		Month       string // "YYYY-MM", derived from Date
	}

	// ParsedProject is the first-seen identity of a project discovered
	// while parsing.
	ParsedProject struct {
		ProjectID string
		Name      string
		Client    string
	}

	// ParseResult is the complete outcome of one parse pass. Projects
	// keep insertion order and are unique by ProjectID.
	ParseResult struct {
		Entries  []ParsedTimeEntry
		Projects []ParsedProject
		Errors   []string
	}
)

// ExtractProjectID returns the identifier segment of a Clockify project
// name, i.e. the last " - " separated segment. Without a separator the
// whole trimmed field is the id.
func ExtractProjectID(projectField string) string {
	parts := strings.Split(projectField, " - ")
	return strings.TrimSpace(parts[len(parts)-1])
}

// projectDisplayName is everything except the trailing id segment.
func projectDisplayName(projectField string) string {
	parts := strings.Split(projectField, " - ")
	if len(parts) < 2 {
		return projectField
	}
	return strings.TrimSpace(strings.Join(parts[:len(parts)-1], " - "))
}

// Parse converts raw CSV text into a ParseResult. Empty input yields an
// empty result with no error. Rows failing a known check are recorded
// with a targeted message; anything else failing during row
// construction is caught as an unexpected error. Both skip the row.
func Parse(content string) ParseResult {
	var result ParseResult

	content = strings.TrimPrefix(content, "\uFEFF")

	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		// no rows at all
		return result
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}

	seen := make(map[string]struct{})
	for rowNum := 2; ; rowNum++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: unexpected error: %v", rowNum, err))
			continue
		}

		entry, rowErr := parseRow(record, cols, rowNum)
		if rowErr != nil {
			result.Errors = append(result.Errors, rowErr.Error())
			continue
		}

		result.Entries = append(result.Entries, entry)
		if _, ok := seen[entry.ProjectID]; !ok {
			seen[entry.ProjectID] = struct{}{}
			result.Projects = append(result.Projects, ParsedProject{
				ProjectID: entry.ProjectID,
				Name:      entry.ProjectName,
				Client:    entry.Client,
			})
		}
	}

	return result
}

func parseRow(record []string, cols map[string]int, rowNum int) (ParsedTimeEntry, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	projectField := field(colProject)
	if projectField == "" {
		return ParsedTimeEntry{}, fmt.Errorf("Row %d: missing Project column", rowNum)
	}

	durationStr := field(colDuration)
	if durationStr == "" {
		// a missing duration column behaves as the literal value 0
		if _, ok := cols[colDuration]; !ok {
			durationStr = "0"
		}
	}
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil || duration < 0 {
		return ParsedTimeEntry{}, fmt.Errorf("Row %d: invalid duration '%s'", rowNum, durationStr)
	}

	dateStr := field(colStartDate)
	if dateStr == "" {
		return ParsedTimeEntry{}, fmt.Errorf("Row %d: missing Start Date", rowNum)
	}
	// A malformed-but-present date falls through to the catch-all path.
	date, err := time.Parse("02/01/2006", dateStr)
	if err != nil {
		return ParsedTimeEntry{}, fmt.Errorf("Row %d: unexpected error: %v", rowNum, err)
	}

	startTime, err := parseClock(field(colStartTime))
	if err != nil {
		return ParsedTimeEntry{}, fmt.Errorf("Row %d: unexpected error: %v", rowNum, err)
	}
	endTime, err := parseClock(field(colEndTime))
	if err != nil {
		return ParsedTimeEntry{}, fmt.Errorf("Row %d: unexpected error: %v", rowNum, err)
	}

	return ParsedTimeEntry{
		ProjectID:   ExtractProjectID(projectField),
		ProjectName: projectDisplayName(projectField),
		Client:      field(colClient),
		Employee:    field(colUser),
		Description: field(colDescription),
		Date:        date,
		StartTime:   startTime,
		EndTime:     endTime,
		Duration:    duration,
		Month:       date.Format("2006-01"),
	}, nil
}

// parseClock validates an HH:MM value, treating empty as absent.
func parseClock(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", errors.New("invalid time " + strconv.Quote(s))
	}
	return t.Format("15:04"), nil
}
