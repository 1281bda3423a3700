package service

import (
	"context"
	"fmt"
	"log/slog"

	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
	tel "shopcatalog/internal/core/telemetry"
)

const orderEntity = "order"

type OrderService struct {
	repo      port.OrderRepository
	products  port.ProductRepository
	cache     port.Cache
	ttls      CacheTTLs
	telemetry port.Telemetry
}

func NewOrderService(repo port.OrderRepository, products port.ProductRepository, cache port.Cache, ttls CacheTTLs, telemetry port.Telemetry) *OrderService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &OrderService{
		repo:      repo,
		products:  products,
		cache:     cache,
		ttls:      ttls,
		telemetry: telemetry,
	}
}

// Create prices each line item from the current product record when the
// caller did not supply a unit price, then persists the order.
func (os *OrderService) Create(ctx context.Context, actorID int64, order domain.Order) (domain.Order, error) {
	ctx, span := os.telemetry.StartServiceSpan(ctx, orderEntity, "Create", map[string]interface{}{
		"actor.id":    actorID,
		"order.user":  order.UserID,
		"order.items": len(order.Items),
	})
	defer span.End()

	for i, item := range order.Items {
		if item.UnitPrice > 0 {
			continue
		}

		product, err := os.products.Get(ctx, item.ProductID, false)

		if err != nil {
			span.SetStatus("error", err.Error())
			span.RecordError(err)
			return domain.Order{}, fmt.Errorf("line item %d: %w", i, err)
		}

		order.Items[i].UnitPrice = product.Price
	}

	created, err := os.repo.Create(ctx, order)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		slog.Error("Repository create failed", "error", err, "user_id", order.UserID)
		return domain.Order{}, err
	}

	invalidate(ctx, os.cache, os.telemetry, orderEntity, created.ID)

	os.telemetry.RecordBusinessEvent(ctx, "created", orderEntity, created.UUID.String(), actorID, map[string]interface{}{
		"total": created.Total(),
		"items": len(created.Items),
	})

	span.SetStatus("ok", "")

	return created, nil
}

func (os *OrderService) Get(ctx context.Context, id int64, includeDeleted bool) (domain.Order, error) {
	if includeDeleted {
		return os.repo.Get(ctx, id, true)
	}

	return fetchThrough(ctx, os.cache, os.telemetry, orderEntity, entityKey(orderEntity, id), os.ttls.Entity,
		func(ctx context.Context) (domain.Order, error) {
			return os.repo.Get(ctx, id, false)
		})
}

func (os *OrderService) List(ctx context.Context, filter domain.OrderFilter, includeDeleted bool) ([]domain.Order, error) {
	if includeDeleted {
		return os.repo.List(ctx, filter, true)
	}

	return fetchThrough(ctx, os.cache, os.telemetry, orderEntity, listKey(orderEntity, filter), os.ttls.List,
		func(ctx context.Context) ([]domain.Order, error) {
			return os.repo.List(ctx, filter, false)
		})
}

func (os *OrderService) Update(ctx context.Context, actorID int64, id int64, patch domain.OrderPatch, expectedVersion int64) (domain.Order, error) {
	updated, err := os.repo.Update(ctx, id, patch, expectedVersion)

	if err != nil {
		return domain.Order{}, err
	}

	invalidate(ctx, os.cache, os.telemetry, orderEntity, id)

	os.telemetry.RecordBusinessEvent(ctx, "updated", orderEntity, updated.UUID.String(), actorID, map[string]interface{}{
		"status":  updated.Status.String(),
		"version": updated.Version,
	})

	return updated, nil
}

func (os *OrderService) SoftDelete(ctx context.Context, actorID int64, id int64) error {
	if err := os.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	invalidate(ctx, os.cache, os.telemetry, orderEntity, id)

	os.telemetry.RecordBusinessEvent(ctx, "deleted", orderEntity, fmt.Sprintf("%d", id), actorID, nil)

	return nil
}

func (os *OrderService) Restore(ctx context.Context, actorID int64, id int64) error {
	if err := os.repo.Restore(ctx, id); err != nil {
		return err
	}

	invalidate(ctx, os.cache, os.telemetry, orderEntity, id)

	os.telemetry.RecordBusinessEvent(ctx, "restored", orderEntity, fmt.Sprintf("%d", id), actorID, nil)

	return nil
}

var _ port.OrderService = (*OrderService)(nil)
