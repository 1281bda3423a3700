package service

import (
	"context"
	"fmt"

	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
	tel "shopcatalog/internal/core/telemetry"
)

const categoryEntity = "category"

type CategoryService struct {
	repo      port.CategoryRepository
	cache     port.Cache
	ttls      CacheTTLs
	telemetry port.Telemetry
}

func NewCategoryService(repo port.CategoryRepository, cache port.Cache, ttls CacheTTLs, telemetry port.Telemetry) *CategoryService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &CategoryService{
		repo:      repo,
		cache:     cache,
		ttls:      ttls,
		telemetry: telemetry,
	}
}

func (cs *CategoryService) Create(ctx context.Context, actorID int64, category domain.Category) (domain.Category, error) {
	created, err := cs.repo.Create(ctx, category)

	if err != nil {
		return domain.Category{}, err
	}

	invalidate(ctx, cs.cache, cs.telemetry, categoryEntity, created.ID)

	cs.telemetry.RecordBusinessEvent(ctx, "created", categoryEntity, fmt.Sprintf("%d", created.ID), actorID, map[string]interface{}{
		"name": created.Name,
	})

	return created, nil
}

func (cs *CategoryService) Get(ctx context.Context, id int64, includeDeleted bool) (domain.Category, error) {
	if includeDeleted {
		return cs.repo.Get(ctx, id, true)
	}

	return fetchThrough(ctx, cs.cache, cs.telemetry, categoryEntity, entityKey(categoryEntity, id), cs.ttls.Entity,
		func(ctx context.Context) (domain.Category, error) {
			return cs.repo.Get(ctx, id, false)
		})
}

func (cs *CategoryService) List(ctx context.Context, filter domain.CategoryFilter, includeDeleted bool) ([]domain.Category, error) {
	if includeDeleted {
		return cs.repo.List(ctx, filter, true)
	}

	return fetchThrough(ctx, cs.cache, cs.telemetry, categoryEntity, listKey(categoryEntity, filter), cs.ttls.List,
		func(ctx context.Context) ([]domain.Category, error) {
			return cs.repo.List(ctx, filter, false)
		})
}

func (cs *CategoryService) Update(ctx context.Context, actorID int64, id int64, patch domain.CategoryPatch, expectedVersion int64) (domain.Category, error) {
	updated, err := cs.repo.Update(ctx, id, patch, expectedVersion)

	if err != nil {
		return domain.Category{}, err
	}

	invalidate(ctx, cs.cache, cs.telemetry, categoryEntity, id)

	cs.telemetry.RecordBusinessEvent(ctx, "updated", categoryEntity, fmt.Sprintf("%d", id), actorID, map[string]interface{}{
		"version": updated.Version,
	})

	return updated, nil
}

func (cs *CategoryService) SoftDelete(ctx context.Context, actorID int64, id int64) error {
	if err := cs.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	invalidate(ctx, cs.cache, cs.telemetry, categoryEntity, id)

	cs.telemetry.RecordBusinessEvent(ctx, "deleted", categoryEntity, fmt.Sprintf("%d", id), actorID, nil)

	return nil
}

func (cs *CategoryService) Restore(ctx context.Context, actorID int64, id int64) error {
	if err := cs.repo.Restore(ctx, id); err != nil {
		return err
	}

	invalidate(ctx, cs.cache, cs.telemetry, categoryEntity, id)

	cs.telemetry.RecordBusinessEvent(ctx, "restored", categoryEntity, fmt.Sprintf("%d", id), actorID, nil)

	return nil
}

var _ port.CategoryService = (*CategoryService)(nil)
