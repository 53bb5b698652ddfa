package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/ArowuTest/bridgetunes-raffle/internal/middleware"
	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"github.com/ArowuTest/bridgetunes-raffle/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles the access code login
type AuthHandler struct {
	authService  services.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// Login handles POST /auth/login. The token is returned in the body and set as a session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Access code is required", "code": "missing_fields"})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.AccessCode)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAccessCode) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid access code", "code": "unauthorized"})
			return
		}
		respondError(c, err)
		return
	}

	maxAge := int(time.Until(time.Unix(resp.ExpiresAt, 0)).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, resp.Token, maxAge, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
