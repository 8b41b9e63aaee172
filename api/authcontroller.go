package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"skimr/auth"
	"skimr/storage"
	"skimr/types"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterAuthRoutes registers account routes under /auth.
func (s *Server) RegisterAuthRoutes(g *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	a := g.Group("/auth")
	a.POST("/register", s.handleRegister)
	a.POST("/login", s.handleLogin)
	a.GET("/me", requireAuth, s.handleMe)
}

func (s *Server) handleRegister(c *gin.Context) {
	const missing = "Name, email, and password are required"
	var req registerRequest
	if !bindJSON(c, &req, missing) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		abortWithError(c, http.StatusBadRequest, missing, "missing_fields")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("[Auth] failed to hash password", "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}
	user := &types.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := s.store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			abortWithError(c, http.StatusConflict, "User already exists", "user_exists")
			return
		}
		slog.Error("[Auth] failed to create user", "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		slog.Error("[Auth] failed to issue token", "user_id", user.ID, "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}
	slog.Info("[Auth] user registered", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully!", "token": token})
}

func (s *Server) handleLogin(c *gin.Context) {
	const missing = "Email and password are required"
	var req loginRequest
	if !bindJSON(c, &req, missing) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		abortWithError(c, http.StatusBadRequest, missing, "missing_fields")
		return
	}

	user, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		slog.Error("[Auth] failed to load user", "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		abortWithError(c, http.StatusUnauthorized, "Invalid credentials", "invalid_credentials")
		return
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		slog.Error("[Auth] failed to issue token", "user_id", user.ID, "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token, "user": user.Public()})
}

func (s *Server) handleMe(c *gin.Context) {
	user, err := s.store.GetUserByID(c.Request.Context(), auth.UserID(c))
	if errors.Is(err, storage.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "User not found", "not_found")
		return
	}
	if err != nil {
		slog.Error("[Auth] failed to load user", "error", err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error", "internal")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Public()})
}
