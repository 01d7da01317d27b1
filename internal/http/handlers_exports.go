package http

import (
	"errors"
	"fmt"
	"net/http"

	"bonustracker/internal/export"
	"bonustracker/internal/services"
)

func (s *Server) handleExportFinance(w http.ResponseWriter, r *http.Request) {
	year, err := queryYear(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	monthNum, err := queryInt(r, "month", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	month := ""
	if monthNum != 0 {
		if monthNum < 1 || monthNum > 12 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid month %d", monthNum))
			return
		}
		month = fmt.Sprintf("%d-%02d", year, monthNum)
	}

	report, err := s.reports.FinanceForPeriod(r.Context(), year, month)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "csv":
		data, err := export.FinanceCSV(report.Projects)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		sendAttachment(w, export.FinanceFilename(year, month, "csv"), "text/csv", data)
	case "", "html":
		data, err := export.FinanceHTML(report, year, month)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		sendAttachment(w, export.FinanceFilename(year, month, "html"), "text/html; charset=utf-8", data)
	default:
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format '%s'", format))
	}
}

func (s *Server) handleExportCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	month, err := requireMonth(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.reports.Customer(r.Context(), id, month, true)
	if errors.Is(err, services.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	data, err := export.CustomerHTML(report)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	sendAttachment(w, export.CustomerFilename(report.Client, month, "html"), "text/html; charset=utf-8", data)
}

func sendAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}
