package handler

import (
	"net/http"

	. "shopcatalog/internal/adapter/http/helper"
	. "shopcatalog/internal/adapter/http/validation"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/model/request"
	"shopcatalog/internal/core/model/response"
	"shopcatalog/internal/core/port"
	"shopcatalog/internal/core/util"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	svc port.CategoryService
}

func NewCategoryHandler(svc port.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		svc: svc,
	}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.CategoryFilter{
		NameContains: c.Query("name"),
		Limit:        queryInt(c, "limit", 50),
		Offset:       queryInt(c, "offset", 0),
	}

	categories, err := h.svc.List(ctx, filter, includeDeleted(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewCategoryListResponse(categories))
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)

	if err != nil {
		SendBadRequestError(c, "id", "Invalid category id")
		return
	}

	category, err := h.svc.Get(ctx, id, includeDeleted(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewCategoryResponse(category))
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.CategoryRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	category := domain.Category{
		Name: params.Name,
		Slug: params.Slug,
	}

	if category.Slug == "" {
		category.Slug = domain.Slugify(category.Name)
	}

	category, err = h.svc.Create(ctx, actorID(c), category)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, response.NewCategoryResponse(category))
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)

	if err != nil {
		SendBadRequestError(c, "id", "Invalid category id")
		return
	}

	params, err := util.ParamsToMap[request.CategoryUpdateRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	patch := domain.CategoryPatch{
		Name: params.Name,
		Slug: params.Slug,
	}

	category, err := h.svc.Update(ctx, actorID(c), id, patch, params.ExpectedVersion)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewCategoryResponse(category))
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)

	if err != nil {
		SendBadRequestError(c, "id", "Invalid category id")
		return
	}

	if err := h.svc.SoftDelete(ctx, actorID(c), id); err != nil {
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}

func (h *CategoryHandler) RestoreCategory(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)

	if err != nil {
		SendBadRequestError(c, "id", "Invalid category id")
		return
	}

	if err := h.svc.Restore(ctx, actorID(c), id); err != nil {
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category restored successfully",
	})
}
