package storage

import (
	"context"
	"fmt"
	"time"

	"bonustracker/internal/core"
)

// HoursFilter narrows hour aggregations to one month or one year.
// Zero value means no restriction.
type HoursFilter struct {
	Month string // exact YYYY-MM
	Year  string // YYYY prefix
}

func (f HoursFilter) clause() (string, []any) {
	switch {
	case f.Month != "":
		return " AND month = ?", []any{f.Month}
	case f.Year != "":
		return " AND month LIKE ?", []any{f.Year + "%"}
	}
	return "", nil
}

// EntryFilter narrows time entry listings.
type EntryFilter struct {
	ProjectID int64
	Month     string
	Employee  string
	Limit     int
	Offset    int
}

// InsertTimeEntry stores one entry. Entries are immutable once imported.
func (r *Repository) InsertTimeEntry(ctx context.Context, e core.TimeEntry) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO time_entries (project_id, date, duration_decimal, employee,
			description, start_time, end_time, month, is_onsite, import_batch_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ProjectID, e.Date.Format(dateLayout), e.Duration, e.Employee,
		e.Description, e.StartTime, e.EndTime, e.Month, e.IsOnsite, e.ImportBatchID)
	if err != nil {
		return 0, fmt.Errorf("insert time entry: %w", err)
	}
	return res.LastInsertId()
}

// ListTimeEntries returns entries newest first with optional filters.
func (r *Repository) ListTimeEntries(ctx context.Context, f EntryFilter) ([]core.TimeEntry, error) {
	query := `SELECT id, project_id, date, duration_decimal, employee, description,
		start_time, end_time, month, is_onsite, import_batch_id
		FROM time_entries WHERE 1=1`
	var args []any
	if f.ProjectID != 0 {
		query += ` AND project_id = ?`
		args = append(args, f.ProjectID)
	}
	if f.Month != "" {
		query += ` AND month = ?`
		args = append(args, f.Month)
	}
	if f.Employee != "" {
		query += ` AND employee = ?`
		args = append(args, f.Employee)
	}
	query += ` ORDER BY date DESC`
	limit := f.Limit
	if limit <= 0 {
		limit = 500
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	var entries []core.TimeEntry
	for rows.Next() {
		var e core.TimeEntry
		var date string
		if err := rows.Scan(&e.ID, &e.ProjectID, &date, &e.Duration, &e.Employee,
			&e.Description, &e.StartTime, &e.EndTime, &e.Month, &e.IsOnsite,
			&e.ImportBatchID); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		if e.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("parse entry date %q: %w", date, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// EntryKey identifies a time entry for duplicate suppression: an entry
// is a duplicate when project, employee, date and duration all match.
type EntryKey struct {
	ProjectID int64
	Employee  string
	Date      string // YYYY-MM-DD
	Duration  float64
}

// KeyFor builds the duplicate-suppression key of an entry.
func KeyFor(e core.TimeEntry) EntryKey {
	return EntryKey{
		ProjectID: e.ProjectID,
		Employee:  e.Employee,
		Date:      e.Date.Format(dateLayout),
		Duration:  e.Duration,
	}
}

// ExistingEntryKeys returns the duplicate-check snapshot for a set of
// projects in one query, taken once per import batch.
func (r *Repository) ExistingEntryKeys(ctx context.Context, projectIDs []int64) (map[EntryKey]struct{}, error) {
	out := make(map[EntryKey]struct{})
	if len(projectIDs) == 0 {
		return out, nil
	}
	query := fmt.Sprintf(`SELECT project_id, employee, date, duration_decimal
		FROM time_entries WHERE project_id IN (%s)`, placeholders(len(projectIDs)))
	args := make([]any, 0, len(projectIDs))
	for _, id := range projectIDs {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("existing entry keys: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k EntryKey
		if err := rows.Scan(&k.ProjectID, &k.Employee, &k.Date, &k.Duration); err != nil {
			return nil, fmt.Errorf("scan entry key: %w", err)
		}
		out[k] = struct{}{}
	}
	return out, rows.Err()
}

// HoursByProject returns a remote/onsite hours split per project in a
// single grouped query. Every requested project appears in the result,
// absent ones as a zero split.
func (r *Repository) HoursByProject(ctx context.Context, projectIDs []int64, f HoursFilter) (map[int64]core.HoursSplit, error) {
	out := make(map[int64]core.HoursSplit, len(projectIDs))
	for _, id := range projectIDs {
		out[id] = core.HoursSplit{}
	}
	if len(projectIDs) == 0 {
		return out, nil
	}

	where, whereArgs := f.clause()
	query := fmt.Sprintf(`SELECT project_id, is_onsite, COALESCE(SUM(duration_decimal), 0)
		FROM time_entries WHERE project_id IN (%s)%s
		GROUP BY project_id, is_onsite`, placeholders(len(projectIDs)), where)
	args := make([]any, 0, len(projectIDs)+len(whereArgs))
	for _, id := range projectIDs {
		args = append(args, id)
	}
	args = append(args, whereArgs...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("hours by project: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var onsite bool
		var total float64
		if err := rows.Scan(&id, &onsite, &total); err != nil {
			return nil, fmt.Errorf("scan hours row: %w", err)
		}
		h := out[id]
		if onsite {
			h.Onsite = total
		} else {
			h.Remote = total
		}
		out[id] = h
	}
	return out, rows.Err()
}

// HoursByMonth returns a remote/onsite split per month for one project,
// grouped in a single query and ordered by month.
func (r *Repository) HoursByMonth(ctx context.Context, projectID int64) (map[string]core.HoursSplit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT month, is_onsite, COALESCE(SUM(duration_decimal), 0)
		FROM time_entries WHERE project_id = ?
		GROUP BY month, is_onsite ORDER BY month`, projectID)
	if err != nil {
		return nil, fmt.Errorf("hours by month: %w", err)
	}
	defer rows.Close()

	out := make(map[string]core.HoursSplit)
	for rows.Next() {
		var month string
		var onsite bool
		var total float64
		if err := rows.Scan(&month, &onsite, &total); err != nil {
			return nil, fmt.Errorf("scan hours row: %w", err)
		}
		h := out[month]
		if onsite {
			h.Onsite = total
		} else {
			h.Remote = total
		}
		out[month] = h
	}
	return out, rows.Err()
}

// EmployeeHoursRow is one employee's summed hours.
type EmployeeHoursRow struct {
	Employee string
	Hours    float64
}

// EmployeeHours sums hours per employee for one project, most hours
// first. Month restricts to one YYYY-MM when non-empty.
func (r *Repository) EmployeeHours(ctx context.Context, projectID int64, month string) ([]EmployeeHoursRow, error) {
	query := `SELECT employee, SUM(duration_decimal) FROM time_entries WHERE project_id = ?`
	args := []any{projectID}
	if month != "" {
		query += ` AND month = ?`
		args = append(args, month)
	}
	query += ` GROUP BY employee ORDER BY SUM(duration_decimal) DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("employee hours: %w", err)
	}
	defer rows.Close()

	var out []EmployeeHoursRow
	for rows.Next() {
		var row EmployeeHoursRow
		if err := rows.Scan(&row.Employee, &row.Hours); err != nil {
			return nil, fmt.Errorf("scan employee hours: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// EmployeeProjectHoursRow is one employee's hours on one project.
type EmployeeProjectHoursRow struct {
	Employee  string
	ProjectID int64
	Hours     float64
}

// EmployeeProjectHours sums hours per employee and project for a year.
func (r *Repository) EmployeeProjectHours(ctx context.Context, yearPrefix string) ([]EmployeeProjectHoursRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT employee, project_id, SUM(duration_decimal)
		FROM time_entries WHERE month LIKE ?
		GROUP BY employee, project_id ORDER BY employee`, yearPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("employee project hours: %w", err)
	}
	defer rows.Close()

	var out []EmployeeProjectHoursRow
	for rows.Next() {
		var row EmployeeProjectHoursRow
		if err := rows.Scan(&row.Employee, &row.ProjectID, &row.Hours); err != nil {
			return nil, fmt.Errorf("scan employee project hours: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MonthsWithEntries lists the distinct months of a year that have
// entries, ascending.
func (r *Repository) MonthsWithEntries(ctx context.Context, yearPrefix string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT month FROM time_entries WHERE month LIKE ? ORDER BY month`,
		yearPrefix+"%")
	if err != nil {
		return nil, fmt.Errorf("months with entries: %w", err)
	}
	defer rows.Close()

	var months []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan month: %w", err)
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

// ProjectIDsForPeriod lists the distinct projects that have entries
// matching the filter.
func (r *Repository) ProjectIDsForPeriod(ctx context.Context, f HoursFilter) ([]int64, error) {
	where, args := f.clause()
	query := `SELECT DISTINCT project_id FROM time_entries WHERE 1=1` + where
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("project ids for period: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TotalHours sums all hours matching the filter.
func (r *Repository) TotalHours(ctx context.Context, f HoursFilter) (float64, error) {
	where, args := f.clause()
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration_decimal), 0) FROM time_entries WHERE 1=1`+where,
		args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total hours: %w", err)
	}
	return total, nil
}

// TotalHoursForProject sums all hours of one project across all months.
func (r *Repository) TotalHoursForProject(ctx context.Context, projectID int64) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration_decimal), 0) FROM time_entries WHERE project_id = ?`,
		projectID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total hours for project: %w", err)
	}
	return total, nil
}

// CountProjectsByStatus counts projects with the given status.
func (r *Repository) CountProjectsByStatus(ctx context.Context, status core.ProjectStatus) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(id) FROM projects WHERE status = ?`, string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}
