package handler

import (
	"net/http"
	"strconv"

	. "shopcatalog/internal/adapter/http/helper"
	. "shopcatalog/internal/adapter/http/validation"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/model/request"
	"shopcatalog/internal/core/model/response"
	"shopcatalog/internal/core/port"
	"shopcatalog/internal/core/util"
	"shopcatalog/pkg/config"
	. "shopcatalog/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ProductHandler struct {
	svc    port.ProductService
	Logger *config.AppLogger
}

func NewProductHandler(svc port.ProductService, logger *config.AppLogger) *ProductHandler {
	return &ProductHandler{
		svc:    svc,
		Logger: logger,
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.product.ListProducts", []attribute.KeyValue{
		attribute.String("handler.operation", "ListProducts"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	filter := domain.ProductFilter{
		NameContains: c.Query("name"),
		Limit:        queryInt(c, "limit", 20),
		Offset:       queryInt(c, "offset", 0),
	}

	if categoryID, err := strconv.ParseInt(c.Query("category_id"), 10, 64); err == nil {
		filter.CategoryID = categoryID
	}

	withDeleted := includeDeleted(c)

	span.SetAttributes(
		attribute.Int64("actor.id", actorID(c)),
		attribute.Int("product.limit", filter.Limit),
		attribute.Bool("product.include_deleted", withDeleted),
	)

	products, err := h.svc.List(ctx, filter, withDeleted)

	if err != nil {
		AddSpanError(span, err)

		h.Logger.Logger.Ctx(ctx).Error("Failed to list products",
			zap.Error(err),
			zap.Int64("actor_id", actorID(c)),
		)

		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewProductListResponse(products))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)

	if err != nil {
		SendBadRequestError(c, "id", "Invalid product id")
		return
	}

	product, err := h.svc.Get(ctx, id, includeDeleted(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewProductResponse(product))
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.ProductRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	product := domain.Product{
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		SKU:         params.SKU,
		CategoryID:  params.CategoryID,
	}

	product, err = h.svc.Create(ctx, actorID(c), product)

	if err != nil {
		h.Logger.Logger.Ctx(ctx).Error("Failed to create product", zap.Error(err))

		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, response.NewProductResponse(product))
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)

	if err != nil {
		SendBadRequestError(c, "id", "Invalid product id")
		return
	}

	params, err := util.ParamsToMap[request.ProductUpdateRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	patch := domain.ProductPatch{
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		SKU:         params.SKU,
		CategoryID:  params.CategoryID,
	}

	product, err := h.svc.Update(ctx, actorID(c), id, patch, params.ExpectedVersion)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewProductResponse(product))
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)

	if err != nil {
		SendBadRequestError(c, "id", "Invalid product id")
		return
	}

	if err := h.svc.SoftDelete(ctx, actorID(c), id); err != nil {
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

func (h *ProductHandler) RestoreProduct(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)

	if err != nil {
		SendBadRequestError(c, "id", "Invalid product id")
		return
	}

	if err := h.svc.Restore(ctx, actorID(c), id); err != nil {
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product restored successfully",
	})
}
