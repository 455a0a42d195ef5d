package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peysphotos/api/internal/service"
)

type createCategoryRequest struct {
	Key         string  `json:"key" binding:"required"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parentId"`
	Private     bool    `json:"private"`
}

func (h HandlerSet) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), service.CreateCategoryInput{
		Key:         req.Key,
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		Private:     req.Private,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, category)
}

type updateCategoryRequest struct {
	Key         *string `json:"key"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ParentID    *string `json:"parentId"`
	ClearParent bool    `json:"clearParent"`
	Private     *bool   `json:"private"`
}

func (h HandlerSet) UpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), c.Param("id"), service.UpdateCategoryInput{
		Key:         req.Key,
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
		Private:     req.Private,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, category)
}

func (h HandlerSet) DeleteCategory(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}

// ListCategories is the public navigation listing. Admin callers see private
// categories too.
func (h HandlerSet) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context(), h.isAdmin(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"categories": categories})
}

// CategoryDetail resolves a category by key and returns it with its visible
// subcategories and item counts via the feed service.
func (h HandlerSet) CategoryDetail(c *gin.Context) {
	feed, err := h.feedService.List(c.Request.Context(), service.FeedInput{
		CategoryKey:    c.Param("key"),
		IncludePrivate: h.isAdmin(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"category":      feed.Category,
		"subcategories": feed.Subcategories,
		"counts":        feed.Counts,
	})
}
