package services

import (
	"time"

	"bonustracker/internal/core"
)

// ProjectWithHours is a project enriched with aggregated hour and bonus
// figures, as returned by the API.
type ProjectWithHours struct {
	ID              int64              `json:"id"`
	ProjectID       string             `json:"project_id"`
	Name            string             `json:"name"`
	Client          string             `json:"client"`
	DealValue       *float64           `json:"deal_value"`
	BudgetHours     *float64           `json:"budget_hours"`
	HourlyRate      *float64           `json:"hourly_rate"`
	OnsiteRate      *float64           `json:"onsite_hourly_rate"`
	BonusRate       float64            `json:"bonus_rate"`
	Status          core.ProjectStatus `json:"status"`
	ProjectManager  string             `json:"project_manager,omitempty"`
	CustomerContact string             `json:"customer_contact,omitempty"`
	StartDate       *time.Time         `json:"start_date"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	TotalHours      float64            `json:"total_hours"`
	RemoteHours     float64            `json:"remote_hours"`
	OnsiteHours     float64            `json:"onsite_hours"`
	BonusAmount     float64            `json:"bonus_amount"`
}

func projectWithHours(p core.Project, h core.HoursSplit) ProjectWithHours {
	return ProjectWithHours{
		ID:              p.ID,
		ProjectID:       p.ProjectID,
		Name:            p.Name,
		Client:          p.Client,
		DealValue:       p.DealValue,
		BudgetHours:     p.BudgetHours,
		HourlyRate:      p.HourlyRate,
		OnsiteRate:      p.OnsiteRate,
		BonusRate:       p.BonusRate,
		Status:          p.Status,
		ProjectManager:  p.ProjectManager,
		CustomerContact: p.CustomerContact,
		StartDate:       p.StartDate,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		TotalHours:      core.Round2(h.Total()),
		RemoteHours:     core.Round2(h.Remote),
		OnsiteHours:     core.Round2(h.Onsite),
		BonusAmount:     core.BonusForProject(p, h),
	}
}

// TimeEntryRead is a time entry as returned by the API.
type TimeEntryRead struct {
	ID          int64   `json:"id"`
	ProjectID   int64   `json:"project_id"`
	Date        string  `json:"date"`
	Duration    float64 `json:"duration_decimal"`
	Employee    string  `json:"employee"`
	Description string  `json:"description"`
	StartTime   string  `json:"start_time,omitempty"`
	EndTime     string  `json:"end_time,omitempty"`
	Month       string  `json:"month"`
	IsOnsite    bool    `json:"is_onsite"`
}

func timeEntryRead(e core.TimeEntry) TimeEntryRead {
	return TimeEntryRead{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		Date:        e.Date.Format("2006-01-02"),
		Duration:    e.Duration,
		Employee:    e.Employee,
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Month:       e.Month,
		IsOnsite:    e.IsOnsite,
	}
}

// ImportBatchRead is an import batch summary as returned by the API.
type ImportBatchRead struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	ImportedAt time.Time `json:"imported_at"`
	RowCount   int       `json:"row_count"`
}

// ImportResult summarizes one CSV import.
type ImportResult struct {
	BatchID         int64    `json:"batch_id"`
	RowsImported    int      `json:"rows_imported"`
	ProjectsCreated int      `json:"projects_created"`
	ProjectsUpdated int      `json:"projects_updated"`
	Errors          []string `json:"errors,omitempty"`
}

// MonthlyProjectReport is one project's figures within one month.
type MonthlyProjectReport struct {
	ProjectID   string   `json:"project_id"`
	ProjectName string   `json:"project_name"`
	Client      string   `json:"client"`
	Month       string   `json:"month"`
	TotalHours  float64  `json:"total_hours"`
	RemoteHours float64  `json:"remote_hours"`
	OnsiteHours float64  `json:"onsite_hours"`
	HourlyRate  *float64 `json:"hourly_rate"`
	OnsiteRate  *float64 `json:"onsite_hourly_rate"`
	BonusRate   float64  `json:"bonus_rate"`
	BonusAmount float64  `json:"bonus_amount"`
}

// FinanceReport is the per-month finance breakdown across projects.
type FinanceReport struct {
	Month      string                 `json:"month"`
	Projects   []MonthlyProjectReport `json:"projects"`
	TotalHours float64                `json:"total_hours"`
	TotalBonus float64                `json:"total_bonus"`
}

// DashboardStats are the landing page KPIs.
type DashboardStats struct {
	ActiveProjects         int64              `json:"active_projects"`
	TotalHoursCurrentMonth float64            `json:"total_hours_current_month"`
	TotalBonusCurrentMonth float64            `json:"total_bonus_current_month"`
	Projects               []ProjectWithHours `json:"projects"`
	YTDHours               float64            `json:"ytd_hours"`
	YTDBonus               float64            `json:"ytd_bonus"`
	YTDRevenue             float64            `json:"ytd_revenue"`
}

// MonthBreakdown is one month's figures in a project detail report.
type MonthBreakdown struct {
	Month       string  `json:"month"`
	Hours       float64 `json:"hours"`
	RemoteHours float64 `json:"remote_hours"`
	OnsiteHours float64 `json:"onsite_hours"`
	Bonus       float64 `json:"bonus"`
}

// EmployeeHours is one employee's summed hours.
type EmployeeHours struct {
	Employee string  `json:"employee"`
	Hours    float64 `json:"hours"`
}

// ProjectDetailReport is the full per-project report with monthly and
// employee breakdowns.
type ProjectDetailReport struct {
	Project           ProjectWithHours `json:"project"`
	TotalHours        float64          `json:"total_hours"`
	TotalBonus        float64          `json:"total_bonus"`
	BudgetRemaining   *float64         `json:"budget_remaining"`
	MonthlyBreakdown  []MonthBreakdown `json:"monthly_breakdown"`
	EmployeeBreakdown []EmployeeHours  `json:"employee_breakdown"`
}

// CustomerReport is the customer-facing monthly report.
type CustomerReport struct {
	ProjectID      string          `json:"project_id"`
	ProjectName    string          `json:"project_name"`
	Client         string          `json:"client"`
	Month          string          `json:"month"`
	TotalHours     float64         `json:"total_hours"`
	BudgetHours    *float64        `json:"budget_hours"`
	HoursRemaining *float64        `json:"hours_remaining"`
	Employees      []EmployeeHours `json:"employees"`
	Note           string          `json:"note"`

	// Only populated for exports.
	Entries        []core.TimeEntry `json:"-"`
	ProjectManager string           `json:"-"`
	Contact        string           `json:"-"`
}

// RevenueProject is one project's revenue KPI row.
type RevenueProject struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	Client            string             `json:"client"`
	DealValue         *float64           `json:"deal_value"`
	BudgetHours       *float64           `json:"budget_hours"`
	TotalHours        float64            `json:"total_hours"`
	RemoteHours       float64            `json:"remote_hours"`
	OnsiteHours       float64            `json:"onsite_hours"`
	HourlyRate        *float64           `json:"hourly_rate"`
	OnsiteRate        *float64           `json:"onsite_hourly_rate"`
	Revenue           float64            `json:"revenue"`
	BudgetUtilization *float64           `json:"budget_utilization"`
	Status            core.ProjectStatus `json:"status"`
}

// RevenueReport is the revenue KPI dashboard.
type RevenueReport struct {
	TotalDealValue       float64          `json:"total_deal_value"`
	TotalRevenue         float64          `json:"total_revenue"`
	AvgBudgetUtilization float64          `json:"avg_budget_utilization"`
	ActiveProjects       int              `json:"active_projects"`
	Projects             []RevenueProject `json:"projects"`
}

// EmployeeProjectHours is one employee's hours on one project.
type EmployeeProjectHours struct {
	ProjectID   int64   `json:"project_id"`
	ProjectName string  `json:"project_name"`
	Hours       float64 `json:"hours"`
}

// EmployeeUtilization is one employee's yearly utilization row.
type EmployeeUtilization struct {
	Employee     string                 `json:"employee"`
	TotalHours   float64                `json:"total_hours"`
	ProjectCount int                    `json:"project_count"`
	Projects     []EmployeeProjectHours `json:"projects"`
}
