package api

import (
	"errors"
	"log/slog"
	"net/http"

	"skimr/auth"
	"skimr/storage"

	"github.com/gin-gonic/gin"
)

// RegisterFollowRoutes registers the follow graph routes. All require auth.
func (s *Server) RegisterFollowRoutes(g *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	f := g.Group("/follow", requireAuth)
	f.POST("/:userId", s.handleFollow)
	f.DELETE("/:userId", s.handleUnfollow)
	f.GET("/followers", s.handleFollowers)
	f.GET("/following", s.handleFollowing)
}

func (s *Server) handleFollow(c *gin.Context) {
	ctx := c.Request.Context()
	followerID := auth.UserID(c)
	targetID := c.Param("userId")

	if targetID == followerID {
		abortWithError(c, http.StatusBadRequest, "You can't follow yourself", "self_follow")
		return
	}
	if _, err := s.store.GetUserByID(ctx, targetID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "User not found", "not_found")
			return
		}
		slog.Error("[Follow] failed to load user", "user_id", targetID, "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}

	follow, err := s.store.CreateFollow(ctx, followerID, targetID)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			abortWithError(c, http.StatusConflict, "Already following this user", "already_following")
			return
		}
		slog.Error("[Follow] failed to create follow", "follower_id", followerID, "following_id", targetID, "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Followed successfully", "follow": follow})
}

func (s *Server) handleUnfollow(c *gin.Context) {
	followerID := auth.UserID(c)
	targetID := c.Param("userId")

	removed, err := s.store.DeleteFollow(c.Request.Context(), followerID, targetID)
	if err != nil {
		slog.Error("[Follow] failed to delete follow", "follower_id", followerID, "following_id", targetID, "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}
	if removed == 0 {
		abortWithError(c, http.StatusNotFound, "Follow relationship not found", "not_found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed successfully"})
}

func (s *Server) handleFollowers(c *gin.Context) {
	edges, err := s.store.ListFollowers(c.Request.Context(), auth.UserID(c))
	if err != nil {
		slog.Error("[Follow] failed to list followers", "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}
	c.JSON(http.StatusOK, followerViews(edges))
}

func (s *Server) handleFollowing(c *gin.Context) {
	edges, err := s.store.ListFollowing(c.Request.Context(), auth.UserID(c))
	if err != nil {
		slog.Error("[Follow] failed to list following", "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}
	c.JSON(http.StatusOK, followingViews(edges))
}
