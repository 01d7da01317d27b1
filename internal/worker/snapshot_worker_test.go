package worker

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bonustracker/internal/amqp"
	"bonustracker/internal/core"
	"bonustracker/internal/log"
	"bonustracker/internal/services"
	"bonustracker/internal/sheets/memory"
	"bonustracker/internal/storage"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Level: slog.LevelError, Component: log.ComponentWorker})
}

func seedRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	rate := 100.0
	project, err := repo.CreateProject(ctx, core.Project{
		ProjectID:  "rollout",
		Name:       "Rollout",
		Client:     "ACME",
		HourlyRate: &rate,
		BonusRate:  0.02,
		Status:     core.StatusActive,
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	batch, err := repo.CreateImportBatch(ctx, "seed.csv")
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = repo.InsertTimeEntry(ctx, core.TimeEntry{
		ProjectID:     project.ID,
		Date:          date,
		Duration:      10,
		Employee:      "Anna",
		Month:         core.MonthKey(date),
		ImportBatchID: batch.ID,
	})
	if err != nil {
		t.Fatalf("insert entry: %v", err)
	}
	return repo
}

func testWorker(t *testing.T, writer *memory.Writer) (*SnapshotWorker, string) {
	t.Helper()
	repo := seedRepo(t)
	dir := t.TempDir()

	w := NewSnapshotWorker(services.NewReportService(repo), writer, dir, time.Minute, testLogger())
	w.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return w, dir
}

func TestSnapshotWritesFiles(t *testing.T) {
	writer := memory.New()
	w, dir := testWorker(t, writer)

	if err := w.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	csvData, err := os.ReadFile(filepath.Join(dir, "Finanzbericht_2025.csv"))
	if err != nil {
		t.Fatalf("read csv snapshot: %v", err)
	}
	if !strings.Contains(string(csvData), "Rollout,ACME,100,0.02,10,20") {
		t.Errorf("unexpected csv snapshot: %q", csvData)
	}

	htmlData, err := os.ReadFile(filepath.Join(dir, "Finanzbericht_2025.html"))
	if err != nil {
		t.Fatalf("read html snapshot: %v", err)
	}
	if !strings.Contains(string(htmlData), "Finanzübersicht 2025") {
		t.Errorf("unexpected html snapshot: %q", htmlData)
	}

	rows := writer.Rows("2025-03")
	if len(rows) != 1 {
		t.Fatalf("expected 1 spreadsheet row, got %d", len(rows))
	}
	if rows[0].Bonus != 20 || rows[0].Hours != 10 {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}

func TestSnapshotWithoutWriter(t *testing.T) {
	w, dir := testWorker(t, nil)

	// memory.Writer is typed; pass an untyped nil through the interface.
	w.writer = nil

	if err := w.Snapshot(context.Background()); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Finanzbericht_2025.csv")); err != nil {
		t.Errorf("csv snapshot missing: %v", err)
	}
}

func TestHandleImportCompletedRefreshes(t *testing.T) {
	writer := memory.New()
	w, dir := testWorker(t, writer)

	msg := amqp.NewImportCompletedMessage(7, 1, 1)
	if err := w.HandleImportCompleted(context.Background(), msg); err != nil {
		t.Fatalf("HandleImportCompleted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Finanzbericht_2025.html")); err != nil {
		t.Errorf("html snapshot missing: %v", err)
	}
}
