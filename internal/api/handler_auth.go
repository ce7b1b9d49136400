package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"habitz/internal/service/user"
)

type AuthHandler struct {
	users *user.Service
}

func NewAuthHandler(users *user.Service) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.users.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register"})
		return
	}

	c.JSON(http.StatusCreated, u)
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// Me handles GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// UpdateSettings handles PUT /me/settings
func (h *AuthHandler) UpdateSettings(c *gin.Context) {
	var req user.SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u := currentUser(c)
	if err := h.users.UpdateSettings(c.Request.Context(), u, req); err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidTimezone):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown timezone"})
		case errors.Is(err, user.ErrInvalidGoals):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goals"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
		}
		return
	}

	c.JSON(http.StatusOK, u)
}
