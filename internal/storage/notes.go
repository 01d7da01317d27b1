package storage

import (
	"context"
	"database/sql"
	"fmt"

	"bonustracker/internal/core"
)

// UpsertNote creates or replaces the note for a project and month.
func (r *Repository) UpsertNote(ctx context.Context, projectID int64, month, note string) (core.ReportNote, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO report_notes (project_id, month, note) VALUES (?, ?, ?)
		ON CONFLICT (project_id, month) DO UPDATE SET note = excluded.note`,
		projectID, month, note)
	if err != nil {
		return core.ReportNote{}, fmt.Errorf("upsert note: %w", err)
	}
	return r.GetNote(ctx, projectID, month)
}

// GetNote loads the note for a project and month; ErrNotFound when no
// note exists.
func (r *Repository) GetNote(ctx context.Context, projectID int64, month string) (core.ReportNote, error) {
	var n core.ReportNote
	err := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, month, note FROM report_notes
		 WHERE project_id = ? AND month = ?`, projectID, month).
		Scan(&n.ID, &n.ProjectID, &n.Month, &n.Note)
	if err == sql.ErrNoRows {
		return core.ReportNote{}, ErrNotFound
	}
	if err != nil {
		return core.ReportNote{}, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}
