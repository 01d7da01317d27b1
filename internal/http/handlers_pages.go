package http

import (
	"html/template"
	"net/http"
	"time"

	"bonustracker/internal/export"
	"bonustracker/internal/log"
	"bonustracker/internal/services"
)

var pageFuncs = template.FuncMap{
	"number":      export.FormatNumber,
	"numberPtr":   export.FormatNumberPtr,
	"currency":    export.FormatCurrency,
	"currencyPtr": export.FormatCurrencyPtr,
	"germanMonth": export.GermanMonth,
}

type indexPage struct {
	Month string
	Stats services.DashboardStats
}

// handleIndex renders the dashboard landing page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reports.Dashboard(r.Context())
	if err != nil {
		s.logger.Error("dashboard page failed", log.FieldError, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := indexPage{
		Month: time.Now().Format("2006-01"),
		Stats: stats,
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("render dashboard page failed", log.FieldError, err)
	}
}
