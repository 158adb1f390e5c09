package ui

import (
	"fmt"
	"net/http"
	"strconv"

	"goabtest/app"
	"goabtest/domain/core"
	"goabtest/internal"
	apperrors "goabtest/internal/errors"
	"goabtest/ports"
	"goabtest/ui/middleware"

	"github.com/gin-gonic/gin"
)

// Server is the JSON API over the dashboard aggregates and the test pipeline
type Server struct {
	router   *gin.Engine
	service  *app.ABTestService
	accessor ports.DatasetAccessor
	options  ServerOptions
	logger   *internal.Logger
}

// ServerOptions tunes the dashboard endpoints
type ServerOptions struct {
	PreviewRows int
	TopTotalAds int
}

// NewServer creates the API server and registers its routes
func NewServer(service *app.ABTestService, accessor ports.DatasetAccessor, options ServerOptions, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if options.PreviewRows <= 0 {
		options.PreviewRows = 5
	}
	if options.TopTotalAds <= 0 {
		options.TopTotalAds = 20
	}

	s := &Server{
		router:   gin.New(),
		service:  service,
		accessor: accessor,
		options:  options,
		logger:   logger.With("Server"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestLogger(s.logger))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	// Dashboard aggregates, all filterable by ?group=
	dashboard := s.router.Group("/api", middleware.LoadDataset(s.accessor))
	dashboard.GET("/profile", s.handleProfile)
	dashboard.GET("/conversion", s.handleConversion)
	dashboard.GET("/total-ads", s.handleTotalAds)
	dashboard.GET("/exposure/day", s.handleExposureByDay)
	dashboard.GET("/exposure/hour", s.handleExposureByHour)
	dashboard.GET("/insight", s.handleInsight)

	// Hypothesis test pipeline
	s.router.POST("/api/tests", s.handleRunTests)
	s.router.GET("/api/reports", s.handleListReports)
	s.router.GET("/api/reports/:id", s.handleGetReport)
	s.router.GET("/api/reports/:id/xlsx", s.handleExportReport)
}

// Handler exposes the router for embedding and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting A/B test API on http://%s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleRunTests(c *gin.Context) {
	report, err := s.service.Run(c.Request.Context(), c.QueryArray("group")...)
	if err != nil {
		s.logger.Warn("Pipeline run failed: %v", err)
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (s *Server) handleListReports(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		middleware.AbortWithError(c, apperrors.InvalidInput(fmt.Sprintf("invalid limit %q", c.Query("limit"))))
		return
	}

	reports, err := s.service.ListReports(c.Request.Context(), limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

func (s *Server) handleGetReport(c *gin.Context) {
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		middleware.AbortWithError(c, apperrors.Wrap(apperrors.InvalidInput(err.Error()), "invalid report id"))
		return
	}

	report, err := s.service.GetReport(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
