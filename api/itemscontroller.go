package api

import (
	"log/slog"
	"net/http"

	"skimr/auth"

	"github.com/gin-gonic/gin"
)

// RegisterItemRoutes registers the item readers.
func (s *Server) RegisterItemRoutes(g *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	g.GET("/feed", requireAuth, s.handleFeed)
	g.GET("/items", requireAuth, s.handleOwnItems)
	g.GET("/users/:id/items", requireAuth, s.handleUserItems)
}

func (s *Server) handleFeed(c *gin.Context) {
	items, err := s.store.ListFeed(c.Request.Context(), auth.UserID(c))
	if err != nil {
		slog.Error("[Items] failed to load feed", "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}
	c.JSON(http.StatusOK, feedViews(items))
}

func (s *Server) handleOwnItems(c *gin.Context) {
	items, err := s.store.ListItemsByUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		slog.Error("[Items] failed to load items", "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}
	c.JSON(http.StatusOK, itemViews(items))
}

// handleUserItems lists another user's items without the owner id.
func (s *Server) handleUserItems(c *gin.Context) {
	items, err := s.store.ListItemsByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("[Items] failed to load user items", "user_id", c.Param("id"), "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}
	views := itemViews(items)
	for i := range views {
		views[i].UserID = ""
	}
	c.JSON(http.StatusOK, views)
}
