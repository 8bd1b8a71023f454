package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postline/postline/backend/go-services/internal/sessions"
	"github.com/postline/postline/backend/go-services/internal/users"
	"github.com/postline/postline/backend/go-services/pkg/logger"
	"github.com/postline/postline/backend/go-services/pkg/metrics"
	"github.com/postline/postline/backend/go-services/pkg/middleware"
)

// SignupRequest mirrors the account creation payload.
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=4,max=20"`
	Email    string `json:"email" binding:"required,email,min=6,max=25"`
	Password string `json:"password" binding:"required,min=4,max=30"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries a partial profile update; absent fields are
// left unchanged.
type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=4,max=20"`
	Email    *string `json:"email" binding:"omitempty,email,min=6,max=25"`
}

// AuthHandler exposes the authentication and profile endpoints.
type AuthHandler struct {
	sessionsSvc *sessions.Service
	usersRepo   users.Repository
}

func NewAuthHandler(s *sessions.Service, repo users.Repository) *AuthHandler {
	return &AuthHandler{sessionsSvc: s, usersRepo: repo}
}

// Register mounts the auth routes on the given group.
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/logout", h.Logout)
	rg.POST("/logout_all", h.LogoutAll)
	rg.GET("/users/me", h.Me)
	rg.PATCH("/users/me", h.UpdateProfile)
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hash, err := users.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}
	u, err := h.usersRepo.Create(c.Request.Context(), &users.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, users.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "username or email already in use"})
			return
		}
		logger.Errorf("signup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user created", "user": u.View()})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pair, _, err := h.sessionsSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, sessions.ErrInvalidCredentials) {
			metrics.Logins.WithLabelValues("failure").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username or password"})
			return
		}
		logger.Errorf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	metrics.Logins.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	raw := middleware.BearerToken(c)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	pair, err := h.sessionsSvc.Refresh(c.Request.Context(), raw)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		h.sessionError(c, err, "refresh failed")
		return
	}
	metrics.TokenRefreshes.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	raw := middleware.BearerToken(c)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	if err := h.sessionsSvc.Logout(c.Request.Context(), raw); err != nil {
		h.sessionError(c, err, "logout failed")
		return
	}
	metrics.TokensRevoked.WithLabelValues("logout").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) LogoutAll(c *gin.Context) {
	raw := middleware.BearerToken(c)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	if err := h.sessionsSvc.LogoutAll(c.Request.Context(), raw); err != nil {
		h.sessionError(c, err, "logout failed")
		return
	}
	metrics.TokensRevoked.WithLabelValues("logout_all").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "logged out from all devices"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	raw := middleware.BearerToken(c)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	u, err := h.sessionsSvc.CurrentUser(c.Request.Context(), raw)
	if err != nil {
		h.sessionError(c, err, "user lookup failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.View()})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	raw := middleware.BearerToken(c)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, pair, err := h.sessionsSvc.UpdateProfile(c.Request.Context(), raw, sessions.ProfilePatch{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, users.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "username or email already in use"})
			return
		}
		h.sessionError(c, err, "profile update failed")
		return
	}
	metrics.TokensRevoked.WithLabelValues("profile_update").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message":       "profile updated, please use the new tokens",
		"user":          u.View(),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// sessionError maps session error kinds to distinct HTTP outcomes; nothing is
// downgraded to a generic failure unless it is genuinely unexpected.
func (h *AuthHandler) sessionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, sessions.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
	case errors.Is(err, sessions.ErrTokenInvalid):
		c.JSON(http.StatusForbidden, gin.H{"error": "could not validate credentials"})
	case errors.Is(err, sessions.ErrSessionNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session not found, please log in again"})
	case errors.Is(err, sessions.ErrRefreshRotationFailed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session rotation failed, please log in again"})
	case errors.Is(err, sessions.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		logger.Errorf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
