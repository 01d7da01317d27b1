package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bonustracker/internal/core"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testProject(t *testing.T, repo *Repository, externalID, name string) core.Project {
	t.Helper()
	p, err := repo.CreateProject(context.Background(), core.Project{
		ProjectID: externalID,
		Name:      name,
		Client:    "ACME",
		BonusRate: 0.02,
		Status:    core.StatusActive,
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func testEntry(t *testing.T, repo *Repository, batch int64, project core.Project, employee, day, month string, hours float64, onsite bool) core.TimeEntry {
	t.Helper()
	date, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	e := core.TimeEntry{
		ProjectID:     project.ID,
		Date:          date,
		Duration:      hours,
		Employee:      employee,
		Month:         month,
		IsOnsite:      onsite,
		ImportBatchID: batch,
	}
	if e.ID, err = repo.InsertTimeEntry(context.Background(), e); err != nil {
		t.Fatalf("insert entry: %v", err)
	}
	return e
}

func TestProjectCRUD(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	rate := 120.0
	created, err := repo.CreateProject(ctx, core.Project{
		ProjectID:  "430980254956",
		Name:       "Azure Migration",
		Client:     "Thees",
		HourlyRate: &rate,
		BonusRate:  0.02,
		Status:     core.StatusActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if created.OnsiteRate != nil {
		t.Fatalf("onsite rate should be unset")
	}

	got, err := repo.GetProjectByExternalID(ctx, "430980254956")
	if err != nil {
		t.Fatalf("get by external id: %v", err)
	}
	if got.ID != created.ID || got.HourlyRate == nil || *got.HourlyRate != 120 {
		t.Fatalf("got %+v", got)
	}

	got.Status = core.StatusCompleted
	onsite := 150.0
	got.OnsiteRate = &onsite
	updated, err := repo.UpdateProject(ctx, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != core.StatusCompleted || updated.OnsiteRate == nil {
		t.Fatalf("update not persisted: %+v", updated)
	}

	if err := repo.DeleteProject(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetProject(ctx, created.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListProjectsByStatus(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	testProject(t, repo, "1", "Beta")
	alpha := testProject(t, repo, "2", "Alpha")
	alpha.Status = core.StatusPaused
	if _, err := repo.UpdateProject(ctx, alpha); err != nil {
		t.Fatalf("update: %v", err)
	}

	all, err := repo.ListProjects(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Alpha" {
		t.Fatalf("expected name order, got %+v", all)
	}

	paused, err := repo.ListProjects(ctx, core.StatusPaused)
	if err != nil {
		t.Fatalf("list paused: %v", err)
	}
	if len(paused) != 1 || paused[0].Name != "Alpha" {
		t.Fatalf("got %+v", paused)
	}
}

func TestBulkStatusAndDelete(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a := testProject(t, repo, "1", "A")
	b := testProject(t, repo, "2", "B")

	n, err := repo.BulkUpdateStatus(ctx, []int64{a.ID, b.ID, 999}, core.StatusCompleted)
	if err != nil {
		t.Fatalf("bulk status: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 updated, got %d", n)
	}

	deleted, err := repo.BulkDelete(ctx, []int64{a.ID})
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	p := testProject(t, repo, "1", "A")
	batch, err := repo.CreateImportBatch(ctx, "export.csv")
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	testEntry(t, repo, batch.ID, p, "Max", "2025-01-15", "2025-01", 3, false)
	if _, err := repo.UpsertNote(ctx, p.ID, "2025-01", "note"); err != nil {
		t.Fatalf("upsert note: %v", err)
	}

	if err := repo.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	entries, err := repo.ListTimeEntries(ctx, EntryFilter{ProjectID: p.ID})
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries should cascade, got %d", len(entries))
	}
	if _, err := repo.GetNote(ctx, p.ID, "2025-01"); err != ErrNotFound {
		t.Fatalf("notes should cascade, got %v", err)
	}
}

func TestHoursByProjectGrouped(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a := testProject(t, repo, "1", "A")
	b := testProject(t, repo, "2", "B")
	batch, _ := repo.CreateImportBatch(ctx, "export.csv")

	testEntry(t, repo, batch.ID, a, "Max", "2025-01-15", "2025-01", 4, false)
	testEntry(t, repo, batch.ID, a, "Max", "2025-01-16", "2025-01", 2, true)
	testEntry(t, repo, batch.ID, a, "Max", "2025-02-01", "2025-02", 8, false)
	testEntry(t, repo, batch.ID, b, "Anna", "2025-01-20", "2025-01", 3, true)

	hours, err := repo.HoursByProject(ctx, []int64{a.ID, b.ID}, HoursFilter{})
	if err != nil {
		t.Fatalf("hours: %v", err)
	}
	if h := hours[a.ID]; h.Remote != 12 || h.Onsite != 2 {
		t.Fatalf("project a: %+v", h)
	}
	if h := hours[b.ID]; h.Remote != 0 || h.Onsite != 3 {
		t.Fatalf("project b: %+v", h)
	}

	jan, err := repo.HoursByProject(ctx, []int64{a.ID, b.ID}, HoursFilter{Month: "2025-01"})
	if err != nil {
		t.Fatalf("hours jan: %v", err)
	}
	if h := jan[a.ID]; h.Remote != 4 || h.Onsite != 2 {
		t.Fatalf("project a jan: %+v", h)
	}

	year, err := repo.HoursByProject(ctx, []int64{a.ID}, HoursFilter{Year: "2025"})
	if err != nil {
		t.Fatalf("hours year: %v", err)
	}
	if h := year[a.ID]; h.Total() != 14 {
		t.Fatalf("project a 2025: %+v", h)
	}
}

func TestHoursByMonth(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	p := testProject(t, repo, "1", "A")
	batch, _ := repo.CreateImportBatch(ctx, "export.csv")
	testEntry(t, repo, batch.ID, p, "Max", "2025-01-15", "2025-01", 4, false)
	testEntry(t, repo, batch.ID, p, "Max", "2025-01-16", "2025-01", 2, true)
	testEntry(t, repo, batch.ID, p, "Max", "2025-02-01", "2025-02", 8, true)

	months, err := repo.HoursByMonth(ctx, p.ID)
	if err != nil {
		t.Fatalf("hours by month: %v", err)
	}
	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}
	if h := months["2025-01"]; h.Remote != 4 || h.Onsite != 2 {
		t.Fatalf("2025-01: %+v", h)
	}
}

func TestExistingEntryKeys(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	p := testProject(t, repo, "1", "A")
	batch, _ := repo.CreateImportBatch(ctx, "export.csv")
	e := testEntry(t, repo, batch.ID, p, "Max", "2025-01-15", "2025-01", 3.5, false)

	keys, err := repo.ExistingEntryKeys(ctx, []int64{p.ID})
	if err != nil {
		t.Fatalf("existing keys: %v", err)
	}
	if _, ok := keys[KeyFor(e)]; !ok {
		t.Fatalf("expected key for stored entry, got %v", keys)
	}
	if _, ok := keys[EntryKey{ProjectID: p.ID, Employee: "Max", Date: "2025-01-15", Duration: 4}]; ok {
		t.Fatalf("different duration must not match")
	}
}

func TestEmployeeHours(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	p := testProject(t, repo, "1", "A")
	batch, _ := repo.CreateImportBatch(ctx, "export.csv")
	testEntry(t, repo, batch.ID, p, "Max", "2025-01-15", "2025-01", 3, false)
	testEntry(t, repo, batch.ID, p, "Anna", "2025-01-15", "2025-01", 5, false)
	testEntry(t, repo, batch.ID, p, "Max", "2025-02-15", "2025-02", 4, false)

	rows, err := repo.EmployeeHours(ctx, p.ID, "")
	if err != nil {
		t.Fatalf("employee hours: %v", err)
	}
	if len(rows) != 2 || rows[0].Employee != "Max" || rows[0].Hours != 7 {
		t.Fatalf("got %+v", rows)
	}

	jan, err := repo.EmployeeHours(ctx, p.ID, "2025-01")
	if err != nil {
		t.Fatalf("employee hours jan: %v", err)
	}
	if len(jan) != 2 || jan[0].Employee != "Anna" {
		t.Fatalf("got %+v", jan)
	}
}

func TestImportBatches(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	b1, err := repo.CreateImportBatch(ctx, "first.csv")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b2, err := repo.CreateImportBatch(ctx, "second.csv")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SetImportBatchRowCount(ctx, b2.ID, 42); err != nil {
		t.Fatalf("set row count: %v", err)
	}

	batches, err := repo.ListImportBatches(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(batches) != 2 || batches[0].ID != b2.ID || batches[0].RowCount != 42 {
		t.Fatalf("got %+v", batches)
	}
	if batches[1].ID != b1.ID {
		t.Fatalf("expected newest first, got %+v", batches)
	}
}

func TestNotesUpsert(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	p := testProject(t, repo, "1", "A")
	n, err := repo.UpsertNote(ctx, p.ID, "2025-01", "first")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if n.Note != "first" {
		t.Fatalf("got %+v", n)
	}

	n2, err := repo.UpsertNote(ctx, p.ID, "2025-01", "replaced")
	if err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	if n2.Note != "replaced" || n2.ID != n.ID {
		t.Fatalf("expected in-place replace, got %+v then %+v", n, n2)
	}
}
