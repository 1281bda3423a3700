package service

import (
	"context"
	"fmt"
	"log/slog"

	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
	tel "shopcatalog/internal/core/telemetry"
)

const productEntity = "product"

// ProductService is the cache-aside facade over the product repository:
// read-through get/list, invalidate-on-write, repository always the source
// of truth.
type ProductService struct {
	repo      port.ProductRepository
	cache     port.Cache
	ttls      CacheTTLs
	telemetry port.Telemetry
}

func NewProductService(repo port.ProductRepository, cache port.Cache, ttls CacheTTLs, telemetry port.Telemetry) *ProductService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &ProductService{
		repo:      repo,
		cache:     cache,
		ttls:      ttls,
		telemetry: telemetry,
	}
}

func (ps *ProductService) Create(ctx context.Context, actorID int64, product domain.Product) (domain.Product, error) {
	ctx, span := ps.telemetry.StartServiceSpan(ctx, productEntity, "Create", map[string]interface{}{
		"actor.id":     actorID,
		"product.name": product.Name,
	})
	defer span.End()

	created, err := ps.repo.Create(ctx, product)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		slog.Error("Repository create failed", "error", err, "name", product.Name)
		return domain.Product{}, err
	}

	invalidate(ctx, ps.cache, ps.telemetry, productEntity, created.ID)

	ps.telemetry.RecordBusinessEvent(ctx, "created", productEntity, created.UUID.String(), actorID, map[string]interface{}{
		"name":  created.Name,
		"price": created.Price,
	})

	span.SetStatus("ok", "")

	return created, nil
}

func (ps *ProductService) Get(ctx context.Context, id int64, includeDeleted bool) (domain.Product, error) {
	// Admin reads that want deleted rows go straight to the repository;
	// caching them would double the key space for a rare path.
	if includeDeleted {
		return ps.repo.Get(ctx, id, true)
	}

	return fetchThrough(ctx, ps.cache, ps.telemetry, productEntity, entityKey(productEntity, id), ps.ttls.Entity,
		func(ctx context.Context) (domain.Product, error) {
			return ps.repo.Get(ctx, id, false)
		})
}

func (ps *ProductService) List(ctx context.Context, filter domain.ProductFilter, includeDeleted bool) ([]domain.Product, error) {
	if includeDeleted {
		return ps.repo.List(ctx, filter, true)
	}

	return fetchThrough(ctx, ps.cache, ps.telemetry, productEntity, listKey(productEntity, filter), ps.ttls.List,
		func(ctx context.Context) ([]domain.Product, error) {
			return ps.repo.List(ctx, filter, false)
		})
}

func (ps *ProductService) Update(ctx context.Context, actorID int64, id int64, patch domain.ProductPatch, expectedVersion int64) (domain.Product, error) {
	ctx, span := ps.telemetry.StartServiceSpan(ctx, productEntity, "Update", map[string]interface{}{
		"actor.id":         actorID,
		"product.id":       id,
		"expected_version": expectedVersion,
	})
	defer span.End()

	updated, err := ps.repo.Update(ctx, id, patch, expectedVersion)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.Product{}, err
	}

	invalidate(ctx, ps.cache, ps.telemetry, productEntity, id)

	ps.telemetry.RecordBusinessEvent(ctx, "updated", productEntity, updated.UUID.String(), actorID, map[string]interface{}{
		"version": updated.Version,
	})

	span.SetStatus("ok", "")

	return updated, nil
}

func (ps *ProductService) SoftDelete(ctx context.Context, actorID int64, id int64) error {
	if err := ps.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	invalidate(ctx, ps.cache, ps.telemetry, productEntity, id)

	ps.telemetry.RecordBusinessEvent(ctx, "deleted", productEntity, fmt.Sprintf("%d", id), actorID, nil)

	return nil
}

func (ps *ProductService) Restore(ctx context.Context, actorID int64, id int64) error {
	if err := ps.repo.Restore(ctx, id); err != nil {
		return err
	}

	invalidate(ctx, ps.cache, ps.telemetry, productEntity, id)

	ps.telemetry.RecordBusinessEvent(ctx, "restored", productEntity, fmt.Sprintf("%d", id), actorID, nil)

	return nil
}

// WarmUp pre-populates the list cache for a filter; bootstrap can call it
// so the landing page does not pay the first-miss cost.
func (ps *ProductService) WarmUp(ctx context.Context, filter domain.ProductFilter) error {
	products, err := ps.repo.List(ctx, filter, false)

	if err != nil {
		return err
	}

	if err := ps.cache.Set(ctx, listKey(productEntity, filter), products, ps.ttls.List); err != nil {
		ps.telemetry.RecordCacheDegraded(ctx, productEntity, err)
	}

	return nil
}

var _ port.ProductService = (*ProductService)(nil)
