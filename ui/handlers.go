package ui

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"formprobe/app"
	"formprobe/domain/core"
	"formprobe/domain/form"
	"formprobe/domain/gen"
)

// submitRunsRequest creates runs for a form. Metadata comes either inline or
// by reference to a registered form; inline metadata wins when both are set.
type submitRunsRequest struct {
	FormID    string             `json:"form_id"`
	Metadata  *form.FormMetadata `json:"metadata"`
	Scenarios []string           `json:"scenarios"`
	Seed      int64              `json:"seed"`
}

type generateRequest struct {
	FormID   string             `json:"form_id"`
	Metadata *form.FormMetadata `json:"metadata"`
	Scenario string             `json:"scenario" binding:"required"`
	Seed     int64              `json:"seed"`
}

func (s *Server) handleRegisterForm(c *gin.Context) {
	var meta form.FormMetadata
	if err := c.ShouldBindJSON(&meta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form metadata: " + err.Error()})
		return
	}
	registered, err := s.registry.Register(meta)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, registered)
}

func (s *Server) handleListForms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"forms": s.registry.List()})
}

func (s *Server) handleGetForm(c *gin.Context) {
	meta, err := s.registry.FormByID(c.Request.Context(), core.FormID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

// resolveMetadata picks inline metadata over a registered form reference.
func (s *Server) resolveMetadata(c *gin.Context, inline *form.FormMetadata, formID string) (*form.FormMetadata, bool) {
	if inline != nil {
		if err := inline.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		return inline, true
	}
	if formID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either metadata or form_id is required"})
		return nil, false
	}
	meta, err := s.registry.FormByID(c.Request.Context(), core.FormID(formID))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return meta, true
}

func (s *Server) handleSubmitRuns(c *gin.Context) {
	var req submitRunsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	meta, ok := s.resolveMetadata(c, req.Metadata, req.FormID)
	if !ok {
		return
	}

	scenarios := make([]gen.Scenario, 0, len(req.Scenarios))
	for _, raw := range req.Scenarios {
		scenario, err := gen.ParseScenario(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		scenarios = append(scenarios, scenario)
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	runs, err := s.executor.SubmitRun(*meta, scenarios, seed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"runs": runs, "seed": seed})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, err := s.executor.GetRun(core.RunID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) handleCancelRun(c *gin.Context) {
	if err := s.executor.CancelRun(core.RunID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "cancellation requested"})
}

// handleGenerate synthesizes values without executing a run, for previewing
// what a scenario would feed the form.
func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	meta, ok := s.resolveMetadata(c, req.Metadata, req.FormID)
	if !ok {
		return
	}
	scenario, err := gen.ParseScenario(req.Scenario)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	out, err := s.synth.Synthesize(c.Request.Context(), *meta, scenario, seed)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"values": out.Values, "audit": out.Audit, "seed": seed})
}

func (s *Server) handleAnalytics(c *gin.Context) {
	c.JSON(http.StatusOK, s.analytics.Snapshot())
}

func (s *Server) handleReport(c *gin.Context) {
	md := app.BuildReport(s.analytics.Snapshot())

	if c.Query("format") == "md" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
		return
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.CompletePage})
	out := markdown.ToHTML([]byte(md), p, renderer)
	c.Data(http.StatusOK, "text/html; charset=utf-8", out)
}

func (s *Server) handleExport(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="formprobe-analytics.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := s.exporter.Write(c.Writer, s.analytics.Snapshot()); err != nil {
		respondError(c, err)
	}
}
