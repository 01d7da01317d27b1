package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"bonustracker/internal/services"
	"bonustracker/internal/storage"
)

// Uploaded CSV exports stay well below this.
const maxUploadBytes = 20 << 20

func (s *Server) handleUploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file form field is required")
		return
	}
	defer file.Close()

	if header.Filename == "" || !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		respondError(w, http.StatusBadRequest, "File must be a CSV")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.serverError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := s.imports.ImportCSV(r.Context(), header.Filename, string(content))
	if errors.Is(err, services.ErrNoValidEntries) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("No valid entries found. Errors: %v", result.Errors))
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.invalidateReports()
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	batches, err := s.imports.ListBatches(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, batches)
}

func (s *Server) handleListTimeEntries(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 500)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit < 1 || limit > 5000 {
		respondError(w, http.StatusBadRequest, "limit must be between 1 and 5000")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		respondError(w, http.StatusBadRequest, "offset must be a non-negative number")
		return
	}

	filter := storage.EntryFilter{
		Month:    r.URL.Query().Get("month"),
		Employee: r.URL.Query().Get("employee"),
		Limit:    limit,
		Offset:   offset,
	}
	if projectID, err := queryInt(r, "project_id", 0); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	} else if projectID > 0 {
		filter.ProjectID = int64(projectID)
	}

	entries, err := s.imports.ListTimeEntries(r.Context(), filter)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
