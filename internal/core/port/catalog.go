package port

import (
	"context"

	"shopcatalog/internal/core/domain"
)

// ProductRepository owns persistence and soft-delete semantics for products.
// Reads exclude soft-deleted rows unless includeDeleted is set. Update takes
// the version the caller last observed; a mismatch yields domain.ErrConflict.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	Get(ctx context.Context, id int64, includeDeleted bool) (domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter, includeDeleted bool) ([]domain.Product, error)
	Update(ctx context.Context, id int64, patch domain.ProductPatch, expectedVersion int64) (domain.Product, error)
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	Get(ctx context.Context, id int64, includeDeleted bool) (domain.Category, error)
	List(ctx context.Context, filter domain.CategoryFilter, includeDeleted bool) ([]domain.Category, error)
	Update(ctx context.Context, id int64, patch domain.CategoryPatch, expectedVersion int64) (domain.Category, error)
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
}

type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	Get(ctx context.Context, id int64, includeDeleted bool) (domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter, includeDeleted bool) ([]domain.Order, error)
	Update(ctx context.Context, id int64, patch domain.OrderPatch, expectedVersion int64) (domain.Order, error)
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
}

// ProductService is the cache-aside facade the delivery layer talks to.
// actorID identifies the authenticated caller for audit events only.
type ProductService interface {
	Create(ctx context.Context, actorID int64, product domain.Product) (domain.Product, error)
	Get(ctx context.Context, id int64, includeDeleted bool) (domain.Product, error)
	List(ctx context.Context, filter domain.ProductFilter, includeDeleted bool) ([]domain.Product, error)
	Update(ctx context.Context, actorID int64, id int64, patch domain.ProductPatch, expectedVersion int64) (domain.Product, error)
	SoftDelete(ctx context.Context, actorID int64, id int64) error
	Restore(ctx context.Context, actorID int64, id int64) error
}

type CategoryService interface {
	Create(ctx context.Context, actorID int64, category domain.Category) (domain.Category, error)
	Get(ctx context.Context, id int64, includeDeleted bool) (domain.Category, error)
	List(ctx context.Context, filter domain.CategoryFilter, includeDeleted bool) ([]domain.Category, error)
	Update(ctx context.Context, actorID int64, id int64, patch domain.CategoryPatch, expectedVersion int64) (domain.Category, error)
	SoftDelete(ctx context.Context, actorID int64, id int64) error
	Restore(ctx context.Context, actorID int64, id int64) error
}

type OrderService interface {
	Create(ctx context.Context, actorID int64, order domain.Order) (domain.Order, error)
	Get(ctx context.Context, id int64, includeDeleted bool) (domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter, includeDeleted bool) ([]domain.Order, error)
	Update(ctx context.Context, actorID int64, id int64, patch domain.OrderPatch, expectedVersion int64) (domain.Order, error)
	SoftDelete(ctx context.Context, actorID int64, id int64) error
	Restore(ctx context.Context, actorID int64, id int64) error
}
