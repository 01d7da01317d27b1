// Package worker keeps finance report snapshots up to date. It reacts
// to import completed events and additionally refreshes on a timer so
// missed messages heal themselves.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"bonustracker/internal/amqp"
	"bonustracker/internal/export"
	"bonustracker/internal/log"
	"bonustracker/internal/services"
	"bonustracker/internal/sheets"
)

// Consumer delivers import completed messages, typically the AMQP client.
type Consumer interface {
	ConsumeImportCompleted(ctx context.Context, handler func(context.Context, *amqp.ImportCompletedMessage) error) error
}

type SnapshotWorker struct {
	reports  *services.ReportService
	writer   sheets.FinanceWriter // nil when spreadsheet sync is disabled
	dir      string
	interval time.Duration
	logger   *log.Logger
	now      func() time.Time
}

func NewSnapshotWorker(reports *services.ReportService, writer sheets.FinanceWriter, dir string, interval time.Duration, logger *log.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		reports:  reports,
		writer:   writer,
		dir:      dir,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Run consumes import events and refreshes snapshots periodically until
// ctx is cancelled. A nil consumer leaves only the periodic refresh.
func (w *SnapshotWorker) Run(ctx context.Context, consumer Consumer) error {
	g, ctx := errgroup.WithContext(ctx)

	if consumer != nil {
		g.Go(func() error {
			return consumer.ConsumeImportCompleted(ctx, w.HandleImportCompleted)
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.Snapshot(ctx); err != nil {
					w.logger.Error("periodic snapshot failed", log.FieldError, err)
				}
			}
		}
	})

	return g.Wait()
}

// HandleImportCompleted regenerates the snapshots after an import.
func (w *SnapshotWorker) HandleImportCompleted(ctx context.Context, msg *amqp.ImportCompletedMessage) error {
	w.logger.Info("import completed, refreshing snapshots",
		log.FieldBatchID, msg.BatchID,
		log.FieldRowCount, msg.RowsImported)
	return w.Snapshot(ctx)
}

// Snapshot writes the current year's finance report as CSV and HTML
// into the snapshot directory and pushes per-month rows to the
// spreadsheet writer when one is configured.
func (w *SnapshotWorker) Snapshot(ctx context.Context) error {
	year := w.now().Year()

	months, err := w.reports.Finance(ctx, year)
	if err != nil {
		return fmt.Errorf("build finance report: %w", err)
	}

	var all []services.MonthlyProjectReport
	var total services.FinanceReport
	for _, m := range months {
		all = append(all, m.Projects...)
		total.TotalHours += m.TotalHours
		total.TotalBonus += m.TotalBonus
	}
	total.Projects = all

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	csvData, err := export.FinanceCSV(all)
	if err != nil {
		return err
	}
	csvPath := filepath.Join(w.dir, export.FinanceFilename(year, "", "csv"))
	if err := os.WriteFile(csvPath, csvData, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", csvPath, err)
	}

	htmlData, err := export.FinanceHTML(total, year, "")
	if err != nil {
		return err
	}
	htmlPath := filepath.Join(w.dir, export.FinanceFilename(year, "", "html"))
	if err := os.WriteFile(htmlPath, htmlData, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", htmlPath, err)
	}

	if w.writer != nil {
		for _, m := range months {
			rows := make([]sheets.FinanceRow, 0, len(m.Projects))
			for _, p := range m.Projects {
				rate := 0.0
				if p.HourlyRate != nil {
					rate = *p.HourlyRate
				}
				rows = append(rows, sheets.FinanceRow{
					Month:       m.Month,
					ProjectName: p.ProjectName,
					Client:      p.Client,
					HourlyRate:  rate,
					BonusRate:   p.BonusRate,
					Hours:       p.TotalHours,
					Bonus:       p.BonusAmount,
				})
			}
			if err := w.writer.WriteFinanceRows(ctx, m.Month, rows); err != nil {
				return fmt.Errorf("write finance rows for %s: %w", m.Month, err)
			}
		}
	}

	w.logger.Info("snapshot written",
		"year", year,
		"months", len(months),
		"projects", len(all))
	return nil
}
