package middleware

import (
	"net/http"
	"strings"

	"github.com/ArowuTest/bridgetunes-raffle/internal/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// SessionCookieName is the cookie carrying the operator session token
const SessionCookieName = "draw_session"

// AccessGateMiddleware rejects requests without a valid session token.
// The token is read from a Bearer Authorization header or the session cookie.
// When no access code is configured every request passes.
func AccessGateMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authService.Enabled() {
			c.Next()
			return
		}

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(SessionCookieName)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access code required", "code": "unauthorized"})
			return
		}

		if err := authService.ValidateToken(token); err != nil {
			slog.Warn("Rejected session token", "error", err, "requestID", c.GetString(RequestIDKey))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid", "code": "unauthorized"})
			return
		}

		c.Next()
	}
}

func bearerToken(header string) string {
	const bearerSchema = "Bearer "
	if len(header) <= len(bearerSchema) || !strings.EqualFold(header[:len(bearerSchema)], bearerSchema) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerSchema):])
}
