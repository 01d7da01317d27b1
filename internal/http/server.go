// Package http serves the JSON API and the dashboard page.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"bonustracker/internal/cache"
	"bonustracker/internal/config"
	"bonustracker/internal/log"
	"bonustracker/internal/services"
	appweb "bonustracker/web"
)

const (
	reportCacheSize = 64
	reportCacheTTL  = time.Minute
)

type Server struct {
	http.Server

	projects *services.ProjectService
	imports  *services.ImportService
	reports  *services.ReportService

	templates   *template.Template
	rateLimiter *rateLimiter
	reportCache *cache.LRU[any]
	cacheStop   chan struct{}
	corsOrigins []string
	logger      *log.Logger

	shutdownOnce sync.Once
}

// NewServer wires routes, templates and middleware into a ready-to-run
// server listening on the configured port.
func NewServer(cfg *config.Config, projects *services.ProjectService, imports *services.ImportService, reports *services.ReportService, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		projects:    projects,
		imports:     imports,
		reports:     reports,
		rateLimiter: newRateLimiter(),
		reportCache: cache.NewLRU[any](reportCacheSize, reportCacheTTL),
		cacheStop:   make(chan struct{}),
		corsOrigins: cfg.CORSOrigins,
		logger:      logger,
	}
	go s.cleanCacheLoop()

	s.templates = template.Must(template.New("").Funcs(pageFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html"))

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		logger.Warn("failed to mount embedded static assets", log.FieldError, err)
	}

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("PUT /api/projects/bulk/status", s.handleBulkUpdateStatus)
	mux.HandleFunc("DELETE /api/projects/bulk", s.handleBulkDelete)
	mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	mux.HandleFunc("PUT /api/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)

	mux.HandleFunc("POST /api/imports/upload", s.handleUploadCSV)
	mux.HandleFunc("GET /api/imports", s.handleListImports)
	mux.HandleFunc("GET /api/time-entries", s.handleListTimeEntries)

	mux.HandleFunc("GET /api/reports/dashboard", s.handleDashboardReport)
	mux.HandleFunc("GET /api/reports/finance", s.handleFinanceReport)
	mux.HandleFunc("GET /api/reports/revenue", s.handleRevenueReport)
	mux.HandleFunc("GET /api/reports/employees", s.handleEmployeeReport)
	mux.HandleFunc("GET /api/reports/project/{id}", s.handleProjectReport)
	mux.HandleFunc("GET /api/reports/customer/{id}", s.handleCustomerReport)
	mux.HandleFunc("POST /api/reports/customer/{id}/notes", s.handleUpsertNote)

	mux.HandleFunc("GET /api/exports/finance", s.handleExportFinance)
	mux.HandleFunc("GET /api/exports/customer/{id}", s.handleExportCustomer)

	handler := log.RequestLogger(logger)(s.withCORS(s.withSecurityHeaders(mux)))

	s.Server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the server and its background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		close(s.cacheStop)
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) cleanCacheLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.reportCache.CleanExpired()
		case <-s.cacheStop:
			return
		}
	}
}

// invalidateReports drops cached report payloads after any write that
// changes the underlying aggregates.
func (s *Server) invalidateReports() {
	s.reportCache.Purge()
}

func (s *Server) withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
