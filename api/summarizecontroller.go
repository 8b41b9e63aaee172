package api

import (
	"errors"
	"log/slog"
	"net/http"

	"skimr/auth"
	"skimr/gateway"
	"skimr/summarizer"
	"skimr/types"

	"github.com/gin-gonic/gin"
)

const missingSubmitFields = "Title, URL, and text are required"

// RegisterSummarizeRoutes registers the summary submission route.
func (s *Server) RegisterSummarizeRoutes(g *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	g.POST("/summarize", requireAuth, s.handleSummarize)
}

func (s *Server) handleSummarize(c *gin.Context) {
	var req types.SummaryRequest
	if !bindJSON(c, &req, missingSubmitFields) {
		return
	}
	s.submit(c, req)
}

// submit runs the gateway for the caller and writes the response.
func (s *Server) submit(c *gin.Context, req types.SummaryRequest) {
	userID := auth.UserID(c)
	res, err := s.gateway.Submit(c.Request.Context(), userID, req)
	if err != nil {
		writeSubmitError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"summary":     res.Summary,
		"summaryHtml": renderSummary(res.Summary),
		"item": gin.H{
			"id":        res.Item.ID,
			"title":     res.Item.Title,
			"url":       res.Item.URL,
			"createdAt": res.Item.CreatedAt,
		},
	})
}

func writeSubmitError(c *gin.Context, userID string, err error) {
	var upstream *summarizer.UpstreamError
	switch {
	case errors.Is(err, gateway.ErrMissingFields):
		abortWithError(c, http.StatusBadRequest, missingSubmitFields, "missing_fields")
	case errors.Is(err, summarizer.ErrNoSummary):
		slog.Warn("[API] summarizer returned no summary", "user_id", userID)
		abortWithError(c, http.StatusInternalServerError, "No summary returned", "no_summary")
	case errors.As(err, &upstream):
		status := upstream.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		slog.Error("[API] summarization failed", "user_id", userID, "upstream_status", upstream.StatusCode, "error", err)
		abortWithError(c, status, "Summarization failed", "upstream_error")
	default:
		slog.Error("[API] summarization failed", "user_id", userID, "error", err)
		abortWithError(c, http.StatusInternalServerError, "Summarization failed", "internal")
	}
}
