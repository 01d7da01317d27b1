package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"bonustracker/internal/services"
)

func (s *Server) handleDashboardReport(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.reportCache.Get("dashboard"); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}
	stats, err := s.reports.Dashboard(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.reportCache.Set("dashboard", stats)
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleFinanceReport(w http.ResponseWriter, r *http.Request) {
	year, err := queryYear(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	key := "finance:" + strconv.Itoa(year)
	if cached, ok := s.reportCache.Get(key); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}
	months, err := s.reports.Finance(r.Context(), year)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.reportCache.Set(key, months)
	respondJSON(w, http.StatusOK, months)
}

func (s *Server) handleRevenueReport(w http.ResponseWriter, r *http.Request) {
	year, err := queryYear(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := s.reports.Revenue(r.Context(), year)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleEmployeeReport(w http.ResponseWriter, r *http.Request) {
	year, err := queryYear(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	employees, err := s.reports.Employees(r.Context(), year)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, employees)
}

func (s *Server) handleProjectReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	month := strings.TrimSpace(r.URL.Query().Get("month"))

	report, err := s.reports.ProjectDetail(r.Context(), id, month)
	if errors.Is(err, services.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleCustomerReport(w http.ResponseWriter, r *http.Request) {
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

	report, err := s.reports.Customer(r.Context(), id, month, false)
	if errors.Is(err, services.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

type noteRequest struct {
	Note string `json:"note"`
}

type noteResponse struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"project_id"`
	Month     string `json:"month"`
	Note      string `json:"note"`
}

func (s *Server) handleUpsertNote(w http.ResponseWriter, r *http.Request) {
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

	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	note, err := s.reports.UpsertNote(r.Context(), id, month, req.Note)
	if errors.Is(err, services.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusOK, noteResponse{
		ID:        note.ID,
		ProjectID: note.ProjectID,
		Month:     note.Month,
		Note:      note.Note,
	})
}
