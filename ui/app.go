package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goabtest/app"
	"goabtest/domain/core"
	"goabtest/domain/stats"
	"goabtest/internal"
	apperrors "goabtest/internal/errors"
	"goabtest/internal/report"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// App serves the stored pipeline runs as HTML reports
type App struct {
	router    *chi.Mux
	service   *app.ABTestService
	templates *template.Template
	logger    *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Port string
}

// NewApp creates a new UI application
func NewApp(service *app.ABTestService, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		templates: templates,
		logger:    logger.With("App"),
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleLatest)
	a.router.Get("/reports", a.handleReports)
	a.router.Get("/reports/{id}", a.handleReport)
}

// ServeHTTP lets the app be mounted or tested directly
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Start starts the HTTP server
func (a *App) Start(config Config) error {
	addr := ":" + config.Port
	a.logger.Info("Starting A/B test report UI on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// handleLatest renders the most recent run, running the pipeline when none is stored
func (a *App) handleLatest(w http.ResponseWriter, r *http.Request) {
	reports, err := a.service.ListReports(r.Context(), 1)
	if err != nil {
		a.renderError(w, err)
		return
	}

	var latest *stats.PipelineReport
	if len(reports) > 0 {
		latest = reports[0]
	} else {
		latest, err = a.service.Run(r.Context())
		if err != nil {
			a.renderError(w, err)
			return
		}
	}
	a.renderReport(w, latest)
}

func (a *App) handleReports(w http.ResponseWriter, r *http.Request) {
	reports, err := a.service.ListReports(r.Context(), 50)
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.renderTemplate(w, "reports.html", map[string]interface{}{"Reports": reports})
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		a.renderError(w, apperrors.InvalidInput(err.Error()))
		return
	}

	rep, err := a.service.GetReport(r.Context(), id)
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.renderReport(w, rep)
}

func (a *App) renderReport(w http.ResponseWriter, rep *stats.PipelineReport) {
	a.renderTemplate(w, "report.html", map[string]interface{}{
		"Title": fmt.Sprintf("A/B Test Report %s", rep.ID),
		"Body":  template.HTML(report.RenderHTML(rep)),
	})
}

// renderTemplate buffers the page; a template error answers 500 with no partial body
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		a.logger.Error("Template error for %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("Error writing template response: %v", err)
	}
}

func (a *App) renderError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("Request failed: %v", err)
	}
	http.Error(w, err.Error(), status)
}
