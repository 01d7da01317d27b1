// Package google writes finance rows to a Google spreadsheet using a
// service account.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	ports "bonustracker/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const headerRow = "Monat\tProjekt\tKunde\tStundensatz\tBonussatz\tStunden\tBonus"

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.FinanceWriter = (*Client)(nil)

// New creates a Sheets client for the given spreadsheet. Credentials
// come from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Finanzbericht"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteFinanceRows replaces the rows of one month in the finance sheet.
// Previous rows of the month are cleared, the new rows appended after
// the current data.
func (c *Client) WriteFinanceRows(ctx context.Context, month string, rows []ports.FinanceRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	monthCol := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, monthCol).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", monthCol, err)
	}

	if len(resp.Values) == 0 {
		if err := c.writeHeader(ctx); err != nil {
			return err
		}
	}

	for _, idx := range rowIndexesForMonth(resp.Values, month) {
		// Values.Get rows are zero-based, sheet rows one-based.
		rng := fmt.Sprintf("%s!A%d:G%d", c.sheetName, idx+1, idx+1)
		if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
			return fmt.Errorf("clear %s: %w", rng, err)
		}
	}

	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{
			r.Month, r.ProjectName, r.Client,
			r.HourlyRate, r.BonusRate, r.Hours, r.Bonus,
		})
	}
	if len(values) == 0 {
		return nil
	}

	appendRange := fmt.Sprintf("%s!A:G", c.sheetName)
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, appendRange, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append finance rows to %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Wrote finance rows to spreadsheet",
		"month", month,
		"rows", len(values),
		"sheet", c.sheetName)
	return nil
}

func (c *Client) writeHeader(ctx context.Context) error {
	header := strings.Split(headerRow, "\t")
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	rng := fmt.Sprintf("%s!A1:G1", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{cells}}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header to %s: %w", c.sheetName, err)
	}
	return nil
}

// rowIndexesForMonth returns the zero-based indexes of column A values
// matching the month key.
func rowIndexesForMonth(colA [][]any, month string) []int {
	var out []int
	for i, row := range colA {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == month {
			out = append(out, i)
		}
	}
	return out
}
