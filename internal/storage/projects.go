package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"bonustracker/internal/core"
)

const projectColumns = `id, project_id, name, client, deal_value, budget_hours,
	hourly_rate, onsite_hourly_rate, bonus_rate, status, project_manager,
	customer_contact, start_date, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (core.Project, error) {
	var (
		p          core.Project
		deal       sql.NullFloat64
		budget     sql.NullFloat64
		rate       sql.NullFloat64
		onsiteRate sql.NullFloat64
		startDate  sql.NullString
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(&p.ID, &p.ProjectID, &p.Name, &p.Client, &deal, &budget,
		&rate, &onsiteRate, &p.BonusRate, &p.Status, &p.ProjectManager,
		&p.CustomerContact, &startDate, &createdAt, &updatedAt)
	if err != nil {
		return core.Project{}, err
	}
	p.DealValue = floatPtr(deal)
	p.BudgetHours = floatPtr(budget)
	p.HourlyRate = floatPtr(rate)
	p.OnsiteRate = floatPtr(onsiteRate)
	p.StartDate = datePtr(startDate)
	p.CreatedAt = parseTimestamp(createdAt)
	p.UpdatedAt = parseTimestamp(updatedAt)
	return p, nil
}

// CreateProject inserts a project and returns it with its database id.
func (r *Repository) CreateProject(ctx context.Context, p core.Project) (core.Project, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (project_id, name, client, deal_value, budget_hours,
			hourly_rate, onsite_hourly_rate, bonus_rate, status, project_manager,
			customer_contact, start_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ProjectID, p.Name, p.Client, nullFloat(p.DealValue), nullFloat(p.BudgetHours),
		nullFloat(p.HourlyRate), nullFloat(p.OnsiteRate), p.BonusRate, string(p.Status),
		p.ProjectManager, p.CustomerContact, nullDate(p.StartDate))
	if err != nil {
		return core.Project{}, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Project{}, fmt.Errorf("project insert id: %w", err)
	}
	return r.GetProject(ctx, id)
}

// GetProject loads a project by database id.
func (r *Repository) GetProject(ctx context.Context, id int64) (core.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return core.Project{}, ErrNotFound
	}
	if err != nil {
		return core.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// GetProjectByExternalID loads a project by its Clockify identifier.
func (r *Repository) GetProjectByExternalID(ctx context.Context, projectID string) (core.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE project_id = ?`, projectID)
	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return core.Project{}, ErrNotFound
	}
	if err != nil {
		return core.Project{}, fmt.Errorf("get project by external id: %w", err)
	}
	return p, nil
}

// ListProjects returns projects ordered by name, optionally filtered by
// status.
func (r *Repository) ListProjects(ctx context.Context, status core.ProjectStatus) ([]core.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []core.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject persists all mutable fields of p.
func (r *Repository) UpdateProject(ctx context.Context, p core.Project) (core.Project, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, client = ?, deal_value = ?, budget_hours = ?,
			hourly_rate = ?, onsite_hourly_rate = ?, bonus_rate = ?, status = ?,
			project_manager = ?, customer_contact = ?, start_date = ?,
			updated_at = datetime('now')
		WHERE id = ?`,
		p.Name, p.Client, nullFloat(p.DealValue), nullFloat(p.BudgetHours),
		nullFloat(p.HourlyRate), nullFloat(p.OnsiteRate), p.BonusRate, string(p.Status),
		p.ProjectManager, p.CustomerContact, nullDate(p.StartDate), p.ID)
	if err != nil {
		return core.Project{}, fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Project{}, ErrNotFound
	}
	return r.GetProject(ctx, p.ID)
}

// DeleteProject removes a project; time entries and notes cascade.
func (r *Repository) DeleteProject(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkUpdateStatus sets the status on all given projects, returning the
// number actually updated.
func (r *Repository) BulkUpdateStatus(ctx context.Context, ids []int64, status core.ProjectStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`UPDATE projects SET status = ?, updated_at = datetime('now') WHERE id IN (%s)`,
		placeholders(len(ids)))
	args := make([]any, 0, len(ids)+1)
	args = append(args, string(status))
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk status update: %w", err)
	}
	return res.RowsAffected()
}

// BulkDelete removes the given projects, returning the number deleted.
func (r *Repository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`DELETE FROM projects WHERE id IN (%s)`, placeholders(len(ids)))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	return res.RowsAffected()
}

// ProjectIDMap maps external Clockify ids to database ids.
func (r *Repository) ProjectIDMap(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT project_id, id FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("project id map: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var ext string
		var id int64
		if err := rows.Scan(&ext, &id); err != nil {
			return nil, fmt.Errorf("scan project id: %w", err)
		}
		out[ext] = id
	}
	return out, rows.Err()
}

// ProjectNames maps database ids to display names.
func (r *Repository) ProjectNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	query := fmt.Sprintf(`SELECT id, name FROM projects WHERE id IN (%s)`, placeholders(len(ids)))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("project names: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan project name: %w", err)
		}
		out[id] = name
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
