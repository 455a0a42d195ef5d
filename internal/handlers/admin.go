package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"peysphotos/api/internal/jobs"
	"peysphotos/api/internal/models"
	"peysphotos/api/internal/security"
)

// TriggerReconcile enqueues a sweep on the job stream; the consumer picks it
// up like any scheduled run.
func (h HandlerSet) TriggerReconcile(c *gin.Context) {
	if err := h.scheduler.Enqueue(c.Request.Context(), jobs.TaskSweep); err != nil {
		h.log.Error().Err(err).Msg("reconcile enqueue failed")
		respondError(c, http.StatusInternalServerError, "enqueue failed")
		return
	}
	respondOK(c, http.StatusAccepted, gin.H{"enqueued": true})
}

// isAdmin reports whether the request carries a valid admin bearer token.
// Public routes use it to unlock the private variants without requiring auth.
func (h HandlerSet) isAdmin(c *gin.Context) bool {
	if userVal, exists := c.Get("current_user"); exists {
		user, ok := userVal.(models.User)
		return ok && user.Role == models.UserRoleAdmin
	}

	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}
	claims, err := security.ParseAccessToken(strings.TrimPrefix(authHeader, "Bearer "), h.cfg.Security.JWTSecret)
	if err != nil {
		return false
	}
	return claims.Role == string(models.UserRoleAdmin)
}
