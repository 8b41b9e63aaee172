package summaryservice

import (
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// scrapeRequest uses pointers so absent fields can be told apart from empty ones.
type scrapeRequest struct {
	Title *string `json:"title"`
	URL   *string `json:"url"`
	Text  *string `json:"text"`
}

type Service struct {
	backend Backend
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// NewRouter constructs the microservice engine. Any origin may call it.
func NewRouter(s *Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	s.RegisterRoutes(r)
	return r
}

func (s *Service) RegisterRoutes(r *gin.Engine) {
	r.POST("/scrape", s.handleScrape)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "backend": s.backend.Name()})
	})
}

func (s *Service) handleScrape(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == nil || req.URL == nil || req.Text == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing text/title/url"})
		return
	}

	raw, err := s.backend.Complete(c.Request.Context(), BuildPrompt(*req.Text))
	if err != nil {
		slog.Error("[SummaryService] completion failed", "backend", s.backend.Name(), "url", *req.URL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Summary failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": ExtractBullets(raw),
		"meta": gin.H{
			"title":  *req.Title,
			"url":    *req.URL,
			"length": utf8.RuneCountInString(*req.Text),
		},
	})
}
