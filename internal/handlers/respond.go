package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"peysphotos/api/internal/config"
	"peysphotos/api/internal/repository"
	"peysphotos/api/internal/service"
	"peysphotos/api/internal/storage"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string, details ...string) {
	body := gin.H{"success": false, "error": message}
	if len(details) > 0 {
		body["details"] = details
	}
	c.JSON(status, body)
}

// respondServiceError maps pipeline errors to their HTTP shape. Storage auth
// failures and config gaps read as operator problems, not caller problems.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoFile),
		errors.Is(err, service.ErrMissingTitle),
		errors.Is(err, service.ErrMissingCategory),
		errors.Is(err, service.ErrWrongType),
		errors.Is(err, service.ErrInvalidKey),
		errors.Is(err, service.ErrReservedKey),
		errors.Is(err, service.ErrNestingTooDeep),
		errors.Is(err, service.ErrNotAnImage):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrMediaNotFound),
		errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		respondError(c, http.StatusBadRequest, "already exists")
	case errors.Is(err, config.ErrMisconfigured):
		respondError(c, http.StatusInternalServerError, "server misconfigured")
	case storage.ClassOf(err) == storage.ClassAuth:
		respondError(c, http.StatusInternalServerError, "server misconfigured")
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}
