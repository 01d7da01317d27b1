package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bonustracker/internal/core"
	"bonustracker/internal/storage"
)

func projectTestService(t *testing.T) *ProjectService {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return NewProjectService(repo, 0.02)
}

func TestProjectCreateDefaults(t *testing.T) {
	svc := projectTestService(t)

	created, err := svc.Create(context.Background(), core.Project{
		ProjectID: "430980254956",
		Name:      "Azure Migration",
		Client:    "Thees",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.BonusRate != 0.02 {
		t.Fatalf("default bonus rate: %v", created.BonusRate)
	}
	if created.Status != core.StatusActive {
		t.Fatalf("default status: %v", created.Status)
	}
	if created.TotalHours != 0 || created.BonusAmount != 0 {
		t.Fatalf("fresh project figures: %+v", created)
	}
}

func TestProjectCreateDuplicate(t *testing.T) {
	svc := projectTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, core.Project{ProjectID: "1", Name: "A"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, core.Project{ProjectID: "1", Name: "B"})
	if !errors.Is(err, ErrProjectExists) {
		t.Fatalf("expected ErrProjectExists, got %v", err)
	}
}

func TestProjectUpdatePatch(t *testing.T) {
	svc := projectTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, core.Project{ProjectID: "1", Name: "A", Client: "ACME"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rate := 130.0
	status := core.StatusPaused
	updated, err := svc.Update(ctx, created.ID, core.ProjectPatch{HourlyRate: &rate, Status: &status})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.HourlyRate == nil || *updated.HourlyRate != 130 || updated.Status != core.StatusPaused {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Client != "ACME" {
		t.Fatalf("unrelated field changed: %+v", updated)
	}

	bad := core.ProjectStatus("archived")
	if _, err := svc.Update(ctx, created.ID, core.ProjectPatch{Status: &bad}); !errors.Is(err, core.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	if _, err := svc.Update(ctx, 999, core.ProjectPatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectBulkStatusValidation(t *testing.T) {
	svc := projectTestService(t)
	_, err := svc.BulkUpdateStatus(context.Background(), []int64{1}, "archived")
	if !errors.Is(err, core.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
