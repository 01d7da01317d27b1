package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bonustracker/internal/core"
	"bonustracker/internal/log"
	"bonustracker/internal/services"
)

type createProjectRequest struct {
	ProjectID       string   `json:"project_id"`
	Name            string   `json:"name"`
	Client          string   `json:"client"`
	DealValue       *float64 `json:"deal_value"`
	BudgetHours     *float64 `json:"budget_hours"`
	HourlyRate      *float64 `json:"hourly_rate"`
	OnsiteRate      *float64 `json:"onsite_hourly_rate"`
	BonusRate       *float64 `json:"bonus_rate"`
	Status          string   `json:"status"`
	ProjectManager  string   `json:"project_manager"`
	CustomerContact string   `json:"customer_contact"`
	StartDate       *string  `json:"start_date"`
}

type updateProjectRequest struct {
	Name            *string  `json:"name"`
	Client          *string  `json:"client"`
	DealValue       *float64 `json:"deal_value"`
	BudgetHours     *float64 `json:"budget_hours"`
	HourlyRate      *float64 `json:"hourly_rate"`
	OnsiteRate      *float64 `json:"onsite_hourly_rate"`
	BonusRate       *float64 `json:"bonus_rate"`
	Status          *string  `json:"status"`
	ProjectManager  *string  `json:"project_manager"`
	CustomerContact *string  `json:"customer_contact"`
	StartDate       *string  `json:"start_date"`
}

func parseDate(raw string) (*time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date '%s': expected YYYY-MM-DD", raw)
	}
	return &t, nil
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	status := core.ProjectStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	projects, err := s.projects.List(r.Context(), status)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	project := core.Project{
		ProjectID:       req.ProjectID,
		Name:            req.Name,
		Client:          req.Client,
		DealValue:       req.DealValue,
		BudgetHours:     req.BudgetHours,
		HourlyRate:      req.HourlyRate,
		OnsiteRate:      req.OnsiteRate,
		Status:          core.ProjectStatus(req.Status),
		ProjectManager:  req.ProjectManager,
		CustomerContact: req.CustomerContact,
	}
	if req.BonusRate != nil {
		project.BonusRate = *req.BonusRate
	}
	if req.StartDate != nil {
		date, err := parseDate(*req.StartDate)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		project.StartDate = date
	}

	created, err := s.projects.Create(r.Context(), project)
	switch {
	case errors.Is(err, services.ErrProjectExists):
		respondError(w, http.StatusConflict, fmt.Sprintf("Project with ID '%s' already exists", req.ProjectID))
		return
	case errors.Is(err, core.ErrInvalidStatus), isValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.serverError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	project, err := s.projects.Get(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := core.ProjectPatch{
		Name:            req.Name,
		Client:          req.Client,
		DealValue:       req.DealValue,
		BudgetHours:     req.BudgetHours,
		HourlyRate:      req.HourlyRate,
		OnsiteRate:      req.OnsiteRate,
		BonusRate:       req.BonusRate,
		ProjectManager:  req.ProjectManager,
		CustomerContact: req.CustomerContact,
	}
	if req.Status != nil {
		status := core.ProjectStatus(*req.Status)
		patch.Status = &status
	}
	if req.StartDate != nil {
		date, err := parseDate(*req.StartDate)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		patch.StartDate = date
	}

	updated, err := s.projects.Update(r.Context(), id, patch)
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(w, http.StatusNotFound, "Project not found")
		return
	case isValidationError(err):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.serverError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err = s.projects.Delete(r.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.invalidateReports()
	w.WriteHeader(http.StatusNoContent)
}

type bulkStatusRequest struct {
	ProjectIDs []int64 `json:"project_ids"`
	Status     string  `json:"status"`
}

func (s *Server) handleBulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req bulkStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.projects.BulkUpdateStatus(r.Context(), req.ProjectIDs, core.ProjectStatus(req.Status))
	if errors.Is(err, core.ErrInvalidStatus) {
		respondError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

func (s *Server) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var ids []int64
	for _, raw := range r.URL.Query()["project_ids"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid project id '%s'", raw))
			return
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		respondError(w, http.StatusBadRequest, "project_ids query parameter is required")
		return
	}

	deleted, err := s.projects.BulkDelete(r.Context(), ids)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidStatus) ||
		errors.Is(err, core.ErrEmptyName) ||
		errors.Is(err, core.ErrEmptyProjectID) ||
		errors.Is(err, core.ErrInvalidBonusRate)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path,
		log.FieldError, err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
