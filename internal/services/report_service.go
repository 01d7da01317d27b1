package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"bonustracker/internal/core"
	"bonustracker/internal/storage"
)

// ReportService builds dashboard, finance, project, customer, revenue
// and employee reports. All hour figures come from grouped queries, one
// per report section, never one query per project.
type ReportService struct {
	repo *storage.Repository
	now  func() time.Time
}

func NewReportService(repo *storage.Repository) *ReportService {
	return &ReportService{repo: repo, now: time.Now}
}

// Dashboard returns the landing page KPIs for active projects.
func (s *ReportService) Dashboard(ctx context.Context) (DashboardStats, error) {
	now := s.now().UTC()
	currentMonth := core.MonthKey(now)
	currentYear := now.Format("2006")

	activeCount, err := s.repo.CountProjectsByStatus(ctx, core.StatusActive)
	if err != nil {
		return DashboardStats{}, err
	}

	hoursThisMonth, err := s.repo.TotalHours(ctx, storage.HoursFilter{Month: currentMonth})
	if err != nil {
		return DashboardStats{}, err
	}

	projects, err := s.repo.ListProjects(ctx, core.StatusActive)
	if err != nil {
		return DashboardStats{}, err
	}
	ids := make([]int64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	monthHours, err := s.repo.HoursByProject(ctx, ids, storage.HoursFilter{Month: currentMonth})
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{
		ActiveProjects:         activeCount,
		TotalHoursCurrentMonth: core.Round2(hoursThisMonth),
		Projects:               make([]ProjectWithHours, 0, len(projects)),
	}
	totalBonus := 0.0
	for _, p := range projects {
		h := monthHours[p.ID]
		totalBonus += core.BonusForProject(p, h)
		stats.Projects = append(stats.Projects, projectWithHours(p, h))
	}
	stats.TotalBonusCurrentMonth = core.Round2(totalBonus)

	ytdHours, err := s.repo.TotalHours(ctx, storage.HoursFilter{Year: currentYear})
	if err != nil {
		return DashboardStats{}, err
	}
	ytdSplit, err := s.repo.HoursByProject(ctx, ids, storage.HoursFilter{Year: currentYear})
	if err != nil {
		return DashboardStats{}, err
	}
	ytdBonus, ytdRevenue := 0.0, 0.0
	for _, p := range projects {
		h := ytdSplit[p.ID]
		ytdBonus += core.BonusForProject(p, h)
		ytdRevenue += core.RevenueForProject(p, h)
	}
	stats.YTDHours = core.Round2(ytdHours)
	stats.YTDBonus = core.Round2(ytdBonus)
	stats.YTDRevenue = core.Round2(ytdRevenue)

	return stats, nil
}

// Finance returns the per-month breakdown for every month of a year
// that has entries.
func (s *ReportService) Finance(ctx context.Context, year int) ([]FinanceReport, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}
	months, err := s.repo.MonthsWithEntries(ctx, fmt.Sprintf("%d", year))
	if err != nil {
		return nil, err
	}

	reports := make([]FinanceReport, 0, len(months))
	for _, month := range months {
		report, err := s.financeForPeriod(ctx, month, storage.HoursFilter{Month: month})
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// FinanceForPeriod builds one aggregated finance report for either a
// single month (YYYY-MM) or a whole year. Used by exports and the
// snapshot worker.
func (s *ReportService) FinanceForPeriod(ctx context.Context, year int, month string) (FinanceReport, error) {
	if month != "" {
		return s.financeForPeriod(ctx, month, storage.HoursFilter{Month: month})
	}
	label := fmt.Sprintf("%d", year)
	return s.financeForPeriod(ctx, label, storage.HoursFilter{Year: label})
}

func (s *ReportService) financeForPeriod(ctx context.Context, label string, filter storage.HoursFilter) (FinanceReport, error) {
	report := FinanceReport{Month: label, Projects: []MonthlyProjectReport{}}

	ids, err := s.repo.ProjectIDsForPeriod(ctx, filter)
	if err != nil {
		return FinanceReport{}, err
	}
	if len(ids) == 0 {
		return report, nil
	}

	hours, err := s.repo.HoursByProject(ctx, ids, filter)
	if err != nil {
		return FinanceReport{}, err
	}

	totalHours, totalBonus := 0.0, 0.0
	for _, id := range ids {
		p, err := s.repo.GetProject(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return FinanceReport{}, err
		}
		h := hours[id]
		bonus := core.BonusForProject(p, h)
		totalHours += h.Total()
		totalBonus += bonus
		report.Projects = append(report.Projects, MonthlyProjectReport{
			ProjectID:   p.ProjectID,
			ProjectName: p.Name,
			Client:      p.Client,
			Month:       label,
			TotalHours:  core.Round2(h.Total()),
			RemoteHours: core.Round2(h.Remote),
			OnsiteHours: core.Round2(h.Onsite),
			HourlyRate:  p.HourlyRate,
			OnsiteRate:  p.OnsiteRate,
			BonusRate:   p.BonusRate,
			BonusAmount: bonus,
		})
	}
	report.TotalHours = core.Round2(totalHours)
	report.TotalBonus = core.Round2(totalBonus)
	return report, nil
}

// ProjectDetail returns the full report for one project: monthly and
// employee breakdowns plus budget remaining. Month narrows only the
// employee breakdown, matching the dashboard's drill-down behavior.
func (s *ReportService) ProjectDetail(ctx context.Context, projectID int64, month string) (ProjectDetailReport, error) {
	p, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return ProjectDetailReport{}, err
	}

	byMonth, err := s.repo.HoursByMonth(ctx, projectID)
	if err != nil {
		return ProjectDetailReport{}, err
	}
	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	var totalSplit core.HoursSplit
	var totalHours, totalBonus float64
	monthly := make([]MonthBreakdown, 0, len(months))
	for _, m := range months {
		h := byMonth[m]
		bonus := core.BonusForProject(p, h)
		totalSplit.Remote += h.Remote
		totalSplit.Onsite += h.Onsite
		totalHours += h.Total()
		totalBonus += bonus
		monthly = append(monthly, MonthBreakdown{
			Month:       m,
			Hours:       core.Round2(h.Total()),
			RemoteHours: core.Round2(h.Remote),
			OnsiteHours: core.Round2(h.Onsite),
			Bonus:       bonus,
		})
	}

	empRows, err := s.repo.EmployeeHours(ctx, projectID, month)
	if err != nil {
		return ProjectDetailReport{}, err
	}
	employees := make([]EmployeeHours, len(empRows))
	for i, row := range empRows {
		employees[i] = EmployeeHours{Employee: row.Employee, Hours: core.Round2(row.Hours)}
	}

	report := ProjectDetailReport{
		Project:           projectWithHours(p, totalSplit),
		TotalHours:        core.Round2(totalHours),
		TotalBonus:        core.Round2(totalBonus),
		MonthlyBreakdown:  monthly,
		EmployeeBreakdown: employees,
	}
	if p.BudgetHours != nil {
		remaining := core.Round2(*p.BudgetHours - totalHours)
		report.BudgetRemaining = &remaining
	}
	return report, nil
}

// Customer returns the customer-facing report for one project month,
// including the report note and, for exports, the raw entries.
func (s *ReportService) Customer(ctx context.Context, projectID int64, month string, includeEntries bool) (CustomerReport, error) {
	p, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		return CustomerReport{}, err
	}

	monthHours, err := s.repo.HoursByProject(ctx, []int64{projectID}, storage.HoursFilter{Month: month})
	if err != nil {
		return CustomerReport{}, err
	}

	empRows, err := s.repo.EmployeeHours(ctx, projectID, month)
	if err != nil {
		return CustomerReport{}, err
	}
	employees := make([]EmployeeHours, len(empRows))
	for i, row := range empRows {
		employees[i] = EmployeeHours{Employee: row.Employee, Hours: core.Round2(row.Hours)}
	}

	report := CustomerReport{
		ProjectID:      p.ProjectID,
		ProjectName:    p.Name,
		Client:         p.Client,
		Month:          month,
		TotalHours:     core.Round2(monthHours[projectID].Total()),
		BudgetHours:    p.BudgetHours,
		Employees:      employees,
		ProjectManager: p.ProjectManager,
		Contact:        p.CustomerContact,
	}

	if p.BudgetHours != nil {
		allHours, err := s.repo.TotalHoursForProject(ctx, projectID)
		if err != nil {
			return CustomerReport{}, err
		}
		remaining := core.Round2(*p.BudgetHours - allHours)
		report.HoursRemaining = &remaining
	}

	note, err := s.repo.GetNote(ctx, projectID, month)
	if err == nil {
		report.Note = note.Note
	} else if !errors.Is(err, storage.ErrNotFound) {
		return CustomerReport{}, err
	}

	if includeEntries {
		entries, err := s.repo.ListTimeEntries(ctx, storage.EntryFilter{ProjectID: projectID, Month: month, Limit: 5000})
		if err != nil {
			return CustomerReport{}, err
		}
		// exports list entries oldest first
		sort.Slice(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
		report.Entries = entries
	}

	return report, nil
}

// UpsertNote creates or updates the customer report note for a project
// month.
func (s *ReportService) UpsertNote(ctx context.Context, projectID int64, month, note string) (core.ReportNote, error) {
	if _, err := s.repo.GetProject(ctx, projectID); err != nil {
		return core.ReportNote{}, err
	}
	return s.repo.UpsertNote(ctx, projectID, month, note)
}

// Revenue returns the revenue KPI dashboard for active projects over a
// year.
func (s *ReportService) Revenue(ctx context.Context, year int) (RevenueReport, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}

	projects, err := s.repo.ListProjects(ctx, core.StatusActive)
	if err != nil {
		return RevenueReport{}, err
	}
	ids := make([]int64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	hours, err := s.repo.HoursByProject(ctx, ids, storage.HoursFilter{Year: fmt.Sprintf("%d", year)})
	if err != nil {
		return RevenueReport{}, err
	}

	report := RevenueReport{
		ActiveProjects: len(projects),
		Projects:       make([]RevenueProject, 0, len(projects)),
	}
	var totalDeal, totalRevenue float64
	var utilizations []float64

	for _, p := range projects {
		h := hours[p.ID]
		revenue := core.RevenueForProject(p, h)
		totalRevenue += revenue
		if p.DealValue != nil {
			totalDeal += *p.DealValue
		}

		var util *float64
		if p.BudgetHours != nil && *p.BudgetHours > 0 {
			u := core.Round2(h.Total() / *p.BudgetHours)
			util = &u
			utilizations = append(utilizations, u)
		}

		report.Projects = append(report.Projects, RevenueProject{
			ID:                p.ID,
			Name:              p.Name,
			Client:            p.Client,
			DealValue:         p.DealValue,
			BudgetHours:       p.BudgetHours,
			TotalHours:        core.Round2(h.Total()),
			RemoteHours:       core.Round2(h.Remote),
			OnsiteHours:       core.Round2(h.Onsite),
			HourlyRate:        p.HourlyRate,
			OnsiteRate:        p.OnsiteRate,
			Revenue:           core.Round2(revenue),
			BudgetUtilization: util,
			Status:            p.Status,
		})
	}

	report.TotalDealValue = core.Round2(totalDeal)
	report.TotalRevenue = core.Round2(totalRevenue)
	if len(utilizations) > 0 {
		sum := 0.0
		for _, u := range utilizations {
			sum += u
		}
		report.AvgBudgetUtilization = core.Round2(sum / float64(len(utilizations)))
	}
	return report, nil
}

// Employees returns per-employee utilization for a year, most hours
// first.
func (s *ReportService) Employees(ctx context.Context, year int) ([]EmployeeUtilization, error) {
	if year == 0 {
		year = s.now().UTC().Year()
	}

	rows, err := s.repo.EmployeeProjectHours(ctx, fmt.Sprintf("%d", year))
	if err != nil {
		return nil, err
	}

	idSet := make(map[int64]struct{})
	for _, row := range rows {
		idSet[row.ProjectID] = struct{}{}
	}
	ids := make([]int64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	names, err := s.repo.ProjectNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[string]*EmployeeUtilization)
	var order []string
	for _, row := range rows {
		emp, ok := byEmployee[row.Employee]
		if !ok {
			emp = &EmployeeUtilization{Employee: row.Employee}
			byEmployee[row.Employee] = emp
			order = append(order, row.Employee)
		}
		emp.TotalHours += row.Hours
		name, ok := names[row.ProjectID]
		if !ok {
			name = "Unbekannt"
		}
		emp.Projects = append(emp.Projects, EmployeeProjectHours{
			ProjectID:   row.ProjectID,
			ProjectName: name,
			Hours:       core.Round2(row.Hours),
		})
	}

	out := make([]EmployeeUtilization, 0, len(order))
	for _, name := range order {
		emp := byEmployee[name]
		emp.TotalHours = core.Round2(emp.TotalHours)
		emp.ProjectCount = len(emp.Projects)
		out = append(out, *emp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalHours > out[j].TotalHours })
	return out, nil
}
