package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"peysphotos/api/internal/config"
	"peysphotos/api/internal/security"
	"peysphotos/api/internal/service"
)

// Auth validates the bearer token and loads the user. The session lookup
// makes logout effective immediately instead of at token expiry.
func Auth(cfg *config.AppConfig, users service.UserStore, sessions service.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseAccessToken(tokenStr, cfg.Security.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			return
		}

		if _, err := sessions.GetByID(c.Request.Context(), claims.SessionID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "session not found"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "user not found"})
			return
		}

		c.Set("current_user", user)
		c.Set("access_claims", *claims)
		c.Next()
	}
}
