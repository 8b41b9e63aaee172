package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"skimr/extractor"
	"skimr/types"

	"github.com/gin-gonic/gin"
)

type extractRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

type captureRequest struct {
	URL string `json:"url"`
}

// RegisterContentRoutes registers the server-side extraction routes.
func (s *Server) RegisterContentRoutes(g *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	g.POST("/extract", requireAuth, s.handleExtract)
	g.POST("/capture", requireAuth, s.handleCapture)
}

// handleExtract extracts a snapshot the client already holds.
func (s *Server) handleExtract(c *gin.Context) {
	var req extractRequest
	if !bindJSON(c, &req, "URL and HTML are required") {
		return
	}
	if strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.HTML) == "" {
		abortWithError(c, http.StatusBadRequest, "URL and HTML are required", "missing_fields")
		return
	}
	src, err := extractor.NewStaticSource(req.URL, req.HTML)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, types.ExtractionFailure{Success: false, Error: err.Error()})
		return
	}
	content, ok := s.extract(c, src)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, content)
}

// handleCapture fetches the page server side, extracts it and submits the
// result for summarization.
func (s *Server) handleCapture(c *gin.Context) {
	var req captureRequest
	if !bindJSON(c, &req, "URL is required") {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		abortWithError(c, http.StatusBadRequest, "URL is required", "missing_fields")
		return
	}
	content, ok := s.extract(c, s.newSource(strings.TrimSpace(req.URL)))
	if !ok {
		return
	}
	s.submit(c, types.SummaryRequest{Title: content.Title, URL: content.URL, Text: content.Text})
}

// extract runs the extractor and writes a 422 on failure.
func (s *Server) extract(c *gin.Context, src extractor.Source) (*types.ExtractedContent, bool) {
	content, err := s.extractor.Extract(c.Request.Context(), src)
	if err != nil {
		failure := types.ExtractionFailure{Success: false, Error: err.Error()}
		var extErr *extractor.ExtractionError
		if errors.As(err, &extErr) {
			failure = extErr.Failure()
		}
		slog.Info("[API] extraction failed", "url", src.URL(), "reason", failure.Error)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, failure)
		return nil, false
	}
	return content, true
}
