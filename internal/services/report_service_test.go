package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bonustracker/internal/core"
	"bonustracker/internal/storage"
)

// seeded repo: two active projects with january/february hours.
func reportFixture(t *testing.T) (*storage.Repository, core.Project, core.Project) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	ctx := context.Background()

	rate := 120.0
	onsiteRate := 150.0
	budget := 100.0
	alpha, err := repo.CreateProject(ctx, core.Project{
		ProjectID: "430980254956", Name: "Azure Migration", Client: "Thees",
		HourlyRate: &rate, OnsiteRate: &onsiteRate, BudgetHours: &budget,
		BonusRate: 0.02, Status: core.StatusActive,
	})
	if err != nil {
		t.Fatalf("create alpha: %v", err)
	}
	deal := 50000.0
	beta, err := repo.CreateProject(ctx, core.Project{
		ProjectID: "77", Name: "Beta", Client: "ACME",
		HourlyRate: &rate, DealValue: &deal,
		BonusRate: 0.02, Status: core.StatusActive,
	})
	if err != nil {
		t.Fatalf("create beta: %v", err)
	}

	batch, err := repo.CreateImportBatch(ctx, "seed.csv")
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	seed := func(p core.Project, employee, day, month string, hours float64, onsite bool) {
		date, _ := time.Parse("2006-01-02", day)
		_, err := repo.InsertTimeEntry(ctx, core.TimeEntry{
			ProjectID: p.ID, Date: date, Duration: hours, Employee: employee,
			Month: month, IsOnsite: onsite, ImportBatchID: batch.ID,
		})
		if err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}
	seed(alpha, "Max Mueller", "2025-01-15", "2025-01", 5, false)
	seed(alpha, "Max Mueller", "2025-01-16", "2025-01", 3, true)
	seed(alpha, "Anna Schmidt", "2025-02-03", "2025-02", 10, false)
	seed(beta, "Max Mueller", "2025-01-20", "2025-01", 4, false)

	return repo, alpha, beta
}

func fixedClock(day string) func() time.Time {
	t, _ := time.Parse("2006-01-02", day)
	return func() time.Time { return t }
}

func TestDashboard(t *testing.T) {
	repo, _, _ := reportFixture(t)
	svc := NewReportService(repo)
	svc.now = fixedClock("2025-01-31")

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.ActiveProjects != 2 {
		t.Fatalf("active projects: %d", stats.ActiveProjects)
	}
	if stats.TotalHoursCurrentMonth != 12 {
		t.Fatalf("current month hours: %v", stats.TotalHoursCurrentMonth)
	}
	// alpha jan: 5*120*0.02 + 3*150*0.02 = 21, beta jan: 4*120*0.02 = 9.6
	if stats.TotalBonusCurrentMonth != 30.6 {
		t.Fatalf("current month bonus: %v", stats.TotalBonusCurrentMonth)
	}
	if stats.YTDHours != 22 {
		t.Fatalf("ytd hours: %v", stats.YTDHours)
	}
	// ytd revenue: alpha (15*120 + 3*150) + beta 4*120 = 2250 + 480
	if stats.YTDRevenue != 2730 {
		t.Fatalf("ytd revenue: %v", stats.YTDRevenue)
	}
	if len(stats.Projects) != 2 {
		t.Fatalf("projects: %+v", stats.Projects)
	}
}

func TestFinance(t *testing.T) {
	repo, _, _ := reportFixture(t)
	svc := NewReportService(repo)
	svc.now = fixedClock("2025-06-01")

	reports, err := svc.Finance(context.Background(), 2025)
	if err != nil {
		t.Fatalf("finance: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 months, got %d", len(reports))
	}
	jan := reports[0]
	if jan.Month != "2025-01" {
		t.Fatalf("month order: %+v", reports)
	}
	if len(jan.Projects) != 2 || jan.TotalHours != 12 || jan.TotalBonus != 30.6 {
		t.Fatalf("january: %+v", jan)
	}
	feb := reports[1]
	if feb.Month != "2025-02" || feb.TotalHours != 10 || len(feb.Projects) != 1 {
		t.Fatalf("february: %+v", feb)
	}
}

func TestFinanceForPeriodYear(t *testing.T) {
	repo, _, _ := reportFixture(t)
	svc := NewReportService(repo)

	report, err := svc.FinanceForPeriod(context.Background(), 2025, "")
	if err != nil {
		t.Fatalf("finance period: %v", err)
	}
	if report.Month != "2025" || report.TotalHours != 22 {
		t.Fatalf("year report: %+v", report)
	}
}

func TestProjectDetail(t *testing.T) {
	repo, alpha, _ := reportFixture(t)
	svc := NewReportService(repo)

	detail, err := svc.ProjectDetail(context.Background(), alpha.ID, "")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.TotalHours != 18 {
		t.Fatalf("total hours: %v", detail.TotalHours)
	}
	// jan 21 + feb 24
	if detail.TotalBonus != 45 {
		t.Fatalf("total bonus: %v", detail.TotalBonus)
	}
	if len(detail.MonthlyBreakdown) != 2 || detail.MonthlyBreakdown[0].Month != "2025-01" {
		t.Fatalf("monthly: %+v", detail.MonthlyBreakdown)
	}
	if detail.MonthlyBreakdown[0].RemoteHours != 5 || detail.MonthlyBreakdown[0].OnsiteHours != 3 {
		t.Fatalf("january split: %+v", detail.MonthlyBreakdown[0])
	}
	if detail.BudgetRemaining == nil || *detail.BudgetRemaining != 82 {
		t.Fatalf("budget remaining: %+v", detail.BudgetRemaining)
	}
	if len(detail.EmployeeBreakdown) != 2 || detail.EmployeeBreakdown[0].Employee != "Anna Schmidt" {
		t.Fatalf("employees: %+v", detail.EmployeeBreakdown)
	}

	if _, err := svc.ProjectDetail(context.Background(), 9999, ""); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCustomerReport(t *testing.T) {
	repo, alpha, _ := reportFixture(t)
	svc := NewReportService(repo)
	ctx := context.Background()

	if _, err := svc.UpsertNote(ctx, alpha.ID, "2025-01", "Meilenstein erreicht"); err != nil {
		t.Fatalf("upsert note: %v", err)
	}

	report, err := svc.Customer(ctx, alpha.ID, "2025-01", true)
	if err != nil {
		t.Fatalf("customer: %v", err)
	}
	if report.TotalHours != 8 {
		t.Fatalf("total hours: %v", report.TotalHours)
	}
	if report.Note != "Meilenstein erreicht" {
		t.Fatalf("note: %q", report.Note)
	}
	// budget 100 minus all 18 project hours
	if report.HoursRemaining == nil || *report.HoursRemaining != 82 {
		t.Fatalf("hours remaining: %+v", report.HoursRemaining)
	}
	if len(report.Employees) != 1 || report.Employees[0].Employee != "Max Mueller" {
		t.Fatalf("employees: %+v", report.Employees)
	}
	if len(report.Entries) != 2 || !report.Entries[0].Date.Before(report.Entries[1].Date) {
		t.Fatalf("entries: %+v", report.Entries)
	}

	noNote, err := svc.Customer(ctx, alpha.ID, "2025-02", false)
	if err != nil {
		t.Fatalf("customer feb: %v", err)
	}
	if noNote.Note != "" || noNote.Entries != nil {
		t.Fatalf("february: %+v", noNote)
	}
}

func TestRevenue(t *testing.T) {
	repo, _, _ := reportFixture(t)
	svc := NewReportService(repo)

	report, err := svc.Revenue(context.Background(), 2025)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if report.ActiveProjects != 2 || report.TotalDealValue != 50000 {
		t.Fatalf("report: %+v", report)
	}
	if report.TotalRevenue != 2730 {
		t.Fatalf("total revenue: %v", report.TotalRevenue)
	}
	// only alpha has a budget: 18/100
	if report.AvgBudgetUtilization != 0.18 {
		t.Fatalf("avg utilization: %v", report.AvgBudgetUtilization)
	}
}

func TestEmployees(t *testing.T) {
	repo, _, _ := reportFixture(t)
	svc := NewReportService(repo)

	employees, err := svc.Employees(context.Background(), 2025)
	if err != nil {
		t.Fatalf("employees: %v", err)
	}
	if len(employees) != 2 {
		t.Fatalf("expected 2 employees, got %+v", employees)
	}
	if employees[0].Employee != "Max Mueller" || employees[0].TotalHours != 12 {
		t.Fatalf("first: %+v", employees[0])
	}
	if employees[0].ProjectCount != 2 {
		t.Fatalf("project count: %+v", employees[0])
	}
	if employees[1].Employee != "Anna Schmidt" || employees[1].TotalHours != 10 {
		t.Fatalf("second: %+v", employees[1])
	}
}
