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
	"shopcatalog/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	svc    port.OrderService
	Logger *config.AppLogger
}

func NewOrderHandler(svc port.OrderService, logger *config.AppLogger) *OrderHandler {
	return &OrderHandler{
		svc:    svc,
		Logger: logger,
	}
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()

	filter := domain.OrderFilter{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}

	// Customers only ever see their own orders.
	if !isAdmin(c) {
		filter.UserID = actorID(c)
	}

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			SendBadRequestError(c, "status", err.Error())
			return
		}
		filter.Status = &status
	}

	orders, err := h.svc.List(ctx, filter, includeDeleted(c))

	if err != nil {
		h.Logger.Logger.Ctx(ctx).Error("Failed to list orders",
			zap.Error(err),
			zap.Int64("actor_id", actorID(c)),
		)

		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewOrderListResponse(orders))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)

	if err != nil {
		SendBadRequestError(c, "id", "Invalid order id")
		return
	}

	order, err := h.svc.Get(ctx, id, includeDeleted(c))

	if err != nil {
		SendDomainError(c, err)
		return
	}

	if !isAdmin(c) && order.UserID != actorID(c) {
		SendNotFoundError(c, "Resource not found")
		return
	}

	SendSuccess(c, http.StatusOK, response.NewOrderResponse(order))
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.ParamsToMap[request.OrderRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	items := make([]domain.OrderItem, 0, len(params.Items))
	for _, item := range params.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order := domain.Order{
		UserID: actorID(c),
		Status: domain.OrderStatusPending,
		Items:  items,
	}

	order, err = h.svc.Create(ctx, actorID(c), order)

	if err != nil {
		h.Logger.Logger.Ctx(ctx).Error("Failed to create order", zap.Error(err))

		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusCreated, response.NewOrderResponse(order))
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)

	if err != nil {
		SendBadRequestError(c, "id", "Invalid order id")
		return
	}

	params, err := util.ParamsToMap[request.OrderUpdateRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	status, err := domain.ParseOrderStatus(params.Status)

	if err != nil {
		SendBadRequestError(c, "status", err.Error())
		return
	}

	patch := domain.OrderPatch{
		Status: &status,
	}

	order, err := h.svc.Update(ctx, actorID(c), id, patch, params.ExpectedVersion)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, response.NewOrderResponse(order))
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)

	if err != nil {
		SendBadRequestError(c, "id", "Invalid order id")
		return
	}

	order, err := h.svc.Get(ctx, id, false)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	if !isAdmin(c) && order.UserID != actorID(c) {
		SendNotFoundError(c, "Resource not found")
		return
	}

	if err := h.svc.SoftDelete(ctx, actorID(c), id); err != nil {
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
	})
}

func (h *OrderHandler) RestoreOrder(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := pathID(c)

	if err != nil {
		SendBadRequestError(c, "id", "Invalid order id")
		return
	}

	if err := h.svc.Restore(ctx, actorID(c), id); err != nil {
		SendDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order restored successfully",
	})
}
