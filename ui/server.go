package ui

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"formprobe/adapters/excel"
	"formprobe/adapters/registry"
	"formprobe/app"
	"formprobe/domain/core"
)

// Server is the HTTP surface over the test pipeline
type Server struct {
	router    *gin.Engine
	executor  *app.Executor
	synth     *app.Synthesizer
	analytics *app.Aggregator
	registry  *registry.MemoryRegistry
	exporter  *excel.Exporter
}

// NewServer wires the API routes over the pipeline components.
func NewServer(executor *app.Executor, synth *app.Synthesizer, analytics *app.Aggregator, reg *registry.MemoryRegistry) *Server {
	s := &Server{
		router:    gin.Default(),
		executor:  executor,
		synth:     synth,
		analytics: analytics,
		registry:  reg,
		exporter:  excel.NewExporter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/forms", s.handleRegisterForm)
		api.GET("/forms", s.handleListForms)
		api.GET("/forms/:id", s.handleGetForm)

		api.POST("/generate", s.handleGenerate)

		api.POST("/runs", s.handleSubmitRuns)
		api.GET("/runs/:id", s.handleGetRun)
		api.POST("/runs/:id/cancel", s.handleCancelRun)

		api.GET("/analytics", s.handleAnalytics)
		api.GET("/analytics/report", s.handleReport)
		api.GET("/analytics/export", s.handleExport)
	}
}

// Router exposes the configured engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	log.Printf("[Server] listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps domain errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case core.IsOverloadedError(err):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
