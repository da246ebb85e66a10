package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Dhanush032/Smart-Shopping/internal/http/response"
	"github.com/Dhanush032/Smart-Shopping/internal/repository"
	"github.com/Dhanush032/Smart-Shopping/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryRequest carries the writable category fields.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

func (r CategoryRequest) toInput() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}
}

// GetAdminCategories lists all categories, inactive ones included.
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CategoryService.List(repository.CategoryListFilter{
		Search: strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch categories", err)
		return
	}

	response.Success(c, categories)
}

// CreateCategory adds a category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	category, err := h.CategoryService.Create(req.toInput())
	if err != nil {
		respondCategoryWriteError(c, err, "failed to create category")
		return
	}

	response.Success(c, category)
}

// UpdateCategory edits a category.
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid category id", nil)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	category, err := h.CategoryService.Update(uint(id), req.toInput())
	if err != nil {
		respondCategoryWriteError(c, err, "failed to update category")
		return
	}

	response.Success(c, category)
}

// DeleteCategory removes a category that has no products.
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid category id", nil)
		return
	}

	if err := h.CategoryService.Delete(uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryInUse):
			respondError(c, response.CodeBadRequest, "category still has products", nil)
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeNotFound, "category not found", nil)
		default:
			respondError(c, response.CodeInternal, "failed to delete category", err)
		}
		return
	}

	response.Success(c, nil)
}

func respondCategoryWriteError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, response.CodeNotFound, "category not found", nil)
	case errors.Is(err, service.ErrCategoryInvalid):
		respondError(c, response.CodeBadRequest, "name and slug are required", nil)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, response.CodeBadRequest, "slug already in use", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}
