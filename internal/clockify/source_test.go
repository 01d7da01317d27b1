package clockify

import (
	"context"
	"testing"
)

func TestCSVSourceFetch(t *testing.T) {
	var src EntrySource = NewCSVSource(buildCSV(
		`Alpha - 11,ACME,Max,planning,15/01/2025,,,2`,
		`Alpha - 11,ACME,Anna,review,16/01/2025,,,1.5`,
	))

	result, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(result.Entries) != 2 || len(result.Errors) != 0 {
		t.Fatalf("result: %d entries, %v", len(result.Entries), result.Errors)
	}
	if result.Entries[0].ProjectID != "11" {
		t.Errorf("project id: %q", result.Entries[0].ProjectID)
	}
	if len(result.Projects) != 1 {
		t.Errorf("projects: %+v", result.Projects)
	}
}
