package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"peysphotos/api/internal/media/sniffer"
	"peysphotos/api/internal/models"
	"peysphotos/api/internal/service"
	"peysphotos/api/internal/storage"
)

// ListMedia serves the category feed. The private and remote-scan variants
// require an admin bearer token; for anonymous callers those flags are
// silently ignored rather than rejected.
func (h HandlerSet) ListMedia(c *gin.Context) {
	admin := h.isAdmin(c)

	feed, err := h.feedService.List(c.Request.Context(), service.FeedInput{
		CategoryID:     c.Query("categoryId"),
		CategoryKey:    c.Query("categoryKey"),
		IncludePrivate: admin && c.Query("includePrivate") == "true",
		IncludeRemote:  admin && c.Query("includeRemote") == "true",
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, feed)
}

func (h HandlerSet) UploadImage(c *gin.Context) {
	h.handleUpload(c, models.MediaKindImage)
}

func (h HandlerSet) UploadVideo(c *gin.Context) {
	h.handleUpload(c, models.MediaKindVideo)
}

func (h HandlerSet) handleUpload(c *gin.Context, kind models.MediaKind) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable file")
		return
	}

	req := service.UploadRequest{
		Data:         data,
		Filename:     header.Filename,
		DeclaredType: sniffer.MimeTypeFromHeader(header.Header),
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		CategoryID:   c.PostForm("categoryId"),
		Kind:         kind,
	}
	if kind == models.MediaKindVideo {
		req.Duration = formFloat(c, "duration")
		req.Width = formInt(c, "width")
		req.Height = formInt(c, "height")
		req.Bitrate = formInt(c, "bitrate")
		req.FrameRate = formFloat(c, "frameRate")
	}

	item, err := h.uploadService.Upload(c.Request.Context(), req)
	if err != nil {
		h.log.Warn().Err(err).
			Str("category_id", req.CategoryID).
			Str("kind", string(kind)).
			Msg("upload rejected")
		respondUploadError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, item)
}

// respondUploadError maps intake failures. An unknown category is a bad
// submission here, not a missing resource, and anything past the remote
// upload (including a duplicate row) is a server-side failure since the
// compensator has already run.
func respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusBadRequest, "category not found")
	case errors.Is(err, service.ErrNoFile),
		errors.Is(err, service.ErrMissingTitle),
		errors.Is(err, service.ErrMissingCategory),
		errors.Is(err, service.ErrWrongType):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTooLarge):
		respondError(c, http.StatusRequestEntityTooLarge, err.Error())
	case storage.ClassOf(err) == storage.ClassAuth:
		respondError(c, http.StatusInternalServerError, "server misconfigured")
	default:
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

type editMediaRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Featured    *bool   `json:"featured"`
}

func (h HandlerSet) EditMedia(c *gin.Context) {
	var req editMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	item, err := h.mediaService.Edit(c.Request.Context(), c.Param("id"), service.EditInput{
		Title:       req.Title,
		Description: req.Description,
		Featured:    req.Featured,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, item)
}

type reorderRequest struct {
	CategoryID string   `json:"categoryId" binding:"required"`
	OrderedIDs []string `json:"orderedIds" binding:"required"`
}

func (h HandlerSet) ReorderMedia(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := h.mediaService.Reorder(c.Request.Context(), req.CategoryID, req.OrderedIDs); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"reordered": len(req.OrderedIDs)})
}

func (h HandlerSet) DeleteMedia(c *gin.Context) {
	if err := h.mediaService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}

func formFloat(c *gin.Context, field string) *float64 {
	raw := c.PostForm(field)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func formInt(c *gin.Context, field string) *int {
	raw := c.PostForm(field)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}
