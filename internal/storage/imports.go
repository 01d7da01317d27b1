package storage

import (
	"context"
	"fmt"

	"bonustracker/internal/core"
)

// CreateImportBatch records a new upload with a zero row count; the
// count is set once the batch finished importing.
func (r *Repository) CreateImportBatch(ctx context.Context, filename string) (core.ImportBatch, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO import_batches (filename, row_count) VALUES (?, 0)`, filename)
	if err != nil {
		return core.ImportBatch{}, fmt.Errorf("insert import batch: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.ImportBatch{}, fmt.Errorf("import batch id: %w", err)
	}
	return r.GetImportBatch(ctx, id)
}

// SetImportBatchRowCount stores the final imported row count.
func (r *Repository) SetImportBatchRowCount(ctx context.Context, id int64, rowCount int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE import_batches SET row_count = ? WHERE id = ?`, rowCount, id)
	if err != nil {
		return fmt.Errorf("update import batch row count: %w", err)
	}
	return nil
}

// GetImportBatch loads one batch by id.
func (r *Repository) GetImportBatch(ctx context.Context, id int64) (core.ImportBatch, error) {
	var b core.ImportBatch
	var importedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, filename, imported_at, row_count FROM import_batches WHERE id = ?`, id).
		Scan(&b.ID, &b.Filename, &importedAt, &b.RowCount)
	if err != nil {
		return core.ImportBatch{}, fmt.Errorf("get import batch: %w", err)
	}
	b.ImportedAt = parseTimestamp(importedAt)
	return b, nil
}

// ListImportBatches returns all batches, newest first.
func (r *Repository) ListImportBatches(ctx context.Context) ([]core.ImportBatch, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, filename, imported_at, row_count FROM import_batches
		 ORDER BY imported_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list import batches: %w", err)
	}
	defer rows.Close()

	var batches []core.ImportBatch
	for rows.Next() {
		var b core.ImportBatch
		var importedAt string
		if err := rows.Scan(&b.ID, &b.Filename, &importedAt, &b.RowCount); err != nil {
			return nil, fmt.Errorf("scan import batch: %w", err)
		}
		b.ImportedAt = parseTimestamp(importedAt)
		batches = append(batches, b)
	}
	return batches, rows.Err()
}
