// Package services orchestrates imports, project management and report
// building on top of the storage layer.
package services

import (
	"context"
	"errors"
	"fmt"

	"bonustracker/internal/clockify"
	"bonustracker/internal/core"
	"bonustracker/internal/log"
	"bonustracker/internal/storage"
)

// ErrNoValidEntries is returned when an entire file yields zero usable
// rows; the boundary surfaces it as a rejected import.
var ErrNoValidEntries = errors.New("no valid entries found")

// EventPublisher announces completed import batches. Nil disables
// publishing.
type EventPublisher interface {
	PublishImportCompleted(ctx context.Context, batchID int64, rowsImported, projectsCreated int) error
}

// ImportService ingests parsed time entries into storage, auto-creating
// unknown projects and silently dropping duplicates.
type ImportService struct {
	repo             *storage.Repository
	events           EventPublisher
	defaultBonusRate float64
	logger           *log.Logger
}

func NewImportService(repo *storage.Repository, events EventPublisher, defaultBonusRate float64, logger *log.Logger) *ImportService {
	return &ImportService{
		repo:             repo,
		events:           events,
		defaultBonusRate: defaultBonusRate,
		logger:           logger.WithComponent(log.ComponentImport),
	}
}

// ImportCSV parses content and stores the result as one import batch.
// Duplicate entries (same project, employee, date and duration) are
// dropped, both against already-stored entries and within the batch.
// The duplicate check works on a snapshot taken once at batch start.
func (s *ImportService) ImportCSV(ctx context.Context, filename, content string) (ImportResult, error) {
	parsed := clockify.Parse(content)
	if len(parsed.Entries) == 0 {
		return ImportResult{Errors: parsed.Errors}, ErrNoValidEntries
	}

	created, err := s.ensureProjects(ctx, parsed.Projects)
	if err != nil {
		return ImportResult{}, err
	}

	projectMap, err := s.repo.ProjectIDMap(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("build project map: %w", err)
	}

	dbIDs := make([]int64, 0, len(parsed.Projects))
	for _, p := range parsed.Projects {
		if id, ok := projectMap[p.ProjectID]; ok {
			dbIDs = append(dbIDs, id)
		}
	}
	seen, err := s.repo.ExistingEntryKeys(ctx, dbIDs)
	if err != nil {
		return ImportResult{}, fmt.Errorf("load duplicate snapshot: %w", err)
	}

	batch, err := s.repo.CreateImportBatch(ctx, filename)
	if err != nil {
		return ImportResult{}, fmt.Errorf("create import batch: %w", err)
	}

	imported := 0
	for _, pe := range parsed.Entries {
		dbID, ok := projectMap[pe.ProjectID]
		if !ok {
			continue
		}
		entry := core.TimeEntry{
			ProjectID:     dbID,
			Date:          pe.Date,
			Duration:      pe.Duration,
			Employee:      pe.Employee,
			Description:   pe.Description,
			StartTime:     pe.StartTime,
			EndTime:       pe.EndTime,
			Month:         pe.Month,
			IsOnsite:      false, // the export carries no onsite flag; entries default to remote
			ImportBatchID: batch.ID,
		}
		key := storage.KeyFor(entry)
		if _, dup := seen[key]; dup {
			continue
		}
		if _, err := s.repo.InsertTimeEntry(ctx, entry); err != nil {
			return ImportResult{}, fmt.Errorf("insert entry: %w", err)
		}
		seen[key] = struct{}{}
		imported++
	}

	if err := s.repo.SetImportBatchRowCount(ctx, batch.ID, imported); err != nil {
		return ImportResult{}, err
	}

	s.logger.InfoContext(ctx, "import batch completed",
		log.FieldBatchID, batch.ID,
		log.FieldFilename, filename,
		log.FieldRowCount, imported,
		log.FieldRowsSkipped, len(parsed.Entries)-imported,
		log.FieldParseErrors, len(parsed.Errors))

	if s.events != nil {
		if err := s.events.PublishImportCompleted(ctx, batch.ID, imported, created); err != nil {
			// the batch is stored; losing the event only delays snapshots
			s.logger.ErrorContext(ctx, "publish import event failed",
				log.FieldBatchID, batch.ID, log.FieldError, err)
		}
	}

	return ImportResult{
		BatchID:         batch.ID,
		RowsImported:    imported,
		ProjectsCreated: created,
		Errors:          parsed.Errors,
	}, nil
}

// ListBatches returns all import batches, newest first.
func (s *ImportService) ListBatches(ctx context.Context) ([]ImportBatchRead, error) {
	batches, err := s.repo.ListImportBatches(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ImportBatchRead, 0, len(batches))
	for _, b := range batches {
		out = append(out, ImportBatchRead{
			ID:         b.ID,
			Filename:   b.Filename,
			ImportedAt: b.ImportedAt,
			RowCount:   b.RowCount,
		})
	}
	return out, nil
}

// ListTimeEntries returns imported entries matching the filter.
func (s *ImportService) ListTimeEntries(ctx context.Context, filter storage.EntryFilter) ([]TimeEntryRead, error) {
	entries, err := s.repo.ListTimeEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]TimeEntryRead, 0, len(entries))
	for _, e := range entries {
		out = append(out, timeEntryRead(e))
	}
	return out, nil
}

// ensureProjects creates projects discovered in the CSV that do not
// exist yet, returning how many were created.
func (s *ImportService) ensureProjects(ctx context.Context, discovered []clockify.ParsedProject) (int, error) {
	created := 0
	for _, p := range discovered {
		_, err := s.repo.GetProjectByExternalID(ctx, p.ProjectID)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return created, fmt.Errorf("lookup project %s: %w", p.ProjectID, err)
		}
		_, err = s.repo.CreateProject(ctx, core.Project{
			ProjectID: p.ProjectID,
			Name:      p.Name,
			Client:    p.Client,
			BonusRate: s.defaultBonusRate,
			Status:    core.StatusActive,
		})
		if err != nil {
			return created, fmt.Errorf("create project %s: %w", p.ProjectID, err)
		}
		created++
	}
	return created, nil
}
