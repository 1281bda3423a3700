package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shopcatalog/internal/adapter/database/postgres"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
)

const productColumns = "id, uuid, name, description, price, sku, category_id, version, created_at, updated_at, deleted_at"

type ProductRepository struct {
	db *postgres.DB
}

func NewProductRepository(db *postgres.DB) port.ProductRepository {
	return &ProductRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		product   domain.Product
		rawUUID   string
		deletedAt *time.Time
	)

	err := row.Scan(
		&product.ID,
		&rawUUID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.SKU,
		&product.CategoryID,
		&product.Version,
		&product.CreatedAt,
		&product.UpdatedAt,
		&deletedAt,
	)

	if err != nil {
		return domain.Product{}, err
	}

	product.UUID, _ = uuid.Parse(rawUUID)
	product.DeletedAt = deletedAt

	return product, nil
}

func (pr *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	if product.UUID == uuid.Nil {
		product.UUID = uuid.New()
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.Version = 1
	product.DeletedAt = nil

	query, args, err := pr.db.QueryBuilder.Insert("products").
		Columns("uuid", "name", "description", "price", "sku", "category_id", "version", "created_at", "updated_at").
		Values(product.UUID.String(), product.Name, product.Description, product.Price, product.SKU, product.CategoryID, product.Version, product.CreatedAt, product.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.Product{}, domain.WrapStorage(err)
	}

	var id int64

	if err := pr.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		slog.Error("Insert failed", "error", err, "name", product.Name)
		return domain.Product{}, domain.WrapStorage(err)
	}

	return pr.Get(ctx, id, false)
}

func (pr *ProductRepository) Get(ctx context.Context, id int64, includeDeleted bool) (domain.Product, error) {
	query := pr.db.QueryBuilder.Select(productColumns).
		From("products").
		Where(sq.Eq{"id": id}).
		Limit(1)

	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return domain.Product{}, domain.WrapStorage(err)
	}

	product, err := scanProduct(pr.db.QueryRow(ctx, sqlStr, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Product{}, domain.WrapStorage(err)
	}

	return product, nil
}

func (pr *ProductRepository) List(ctx context.Context, filter domain.ProductFilter, includeDeleted bool) ([]domain.Product, error) {
	query := pr.db.QueryBuilder.Select(productColumns).
		From("products").
		OrderBy("id ASC")

	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}

	if filter.CategoryID > 0 {
		query = query.Where(sq.Eq{"category_id": filter.CategoryID})
	}

	if filter.NameContains != "" {
		query = query.Where(sq.ILike{"name": "%" + filter.NameContains + "%"})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return nil, domain.WrapStorage(err)
	}

	rows, err := pr.db.Query(ctx, sqlStr, args...)

	if err != nil {
		return nil, domain.WrapStorage(err)
	}

	defer rows.Close()

	products := []domain.Product{}

	for rows.Next() {
		product, err := scanProduct(rows)

		if err != nil {
			return nil, domain.WrapStorage(err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.WrapStorage(err)
	}

	return products, nil
}

func (pr *ProductRepository) Update(ctx context.Context, id int64, patch domain.ProductPatch, expectedVersion int64) (domain.Product, error) {
	if err := patch.Validate(); err != nil {
		return domain.Product{}, err
	}

	update := pr.db.QueryBuilder.Update("products").
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"version": expectedVersion}).
		Where("deleted_at IS NULL")

	if patch.Name != nil {
		update = update.Set("name", *patch.Name)
	}

	if patch.Description != nil {
		update = update.Set("description", *patch.Description)
	}

	if patch.Price != nil {
		update = update.Set("price", *patch.Price)
	}

	if patch.SKU != nil {
		update = update.Set("sku", *patch.SKU)
	}

	if patch.CategoryID != nil {
		update = update.Set("category_id", *patch.CategoryID)
	}

	query, args, err := update.ToSql()

	if err != nil {
		return domain.Product{}, domain.WrapStorage(err)
	}

	tag, err := pr.db.Exec(ctx, query, args...)

	if err != nil {
		return domain.Product{}, domain.WrapStorage(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.Product{}, pr.resolveWriteConflict(ctx, id)
	}

	return pr.Get(ctx, id, false)
}

func (pr *ProductRepository) resolveWriteConflict(ctx context.Context, id int64) error {
	current, err := pr.Get(ctx, id, true)

	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound
	}

	if err != nil {
		return err
	}

	if current.IsDeleted() {
		return domain.ErrNotFound
	}

	return domain.ErrConflict
}

func (pr *ProductRepository) SoftDelete(ctx context.Context, id int64) error {
	return pr.markDeleted(ctx, id, true)
}

func (pr *ProductRepository) Restore(ctx context.Context, id int64) error {
	return pr.markDeleted(ctx, id, false)
}

func (pr *ProductRepository) markDeleted(ctx context.Context, id int64, deleted bool) error {
	guard := "deleted_at IS NULL"

	var deletedAt any = time.Now().UTC()

	if !deleted {
		guard = "deleted_at IS NOT NULL"
		deletedAt = nil
	}

	query, args, err := pr.db.QueryBuilder.Update("products").
		Set("deleted_at", deletedAt).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(guard).
		ToSql()

	if err != nil {
		return domain.WrapStorage(err)
	}

	tag, err := pr.db.Exec(ctx, query, args...)

	if err != nil {
		return domain.WrapStorage(err)
	}

	if tag.RowsAffected() == 0 {
		_, err := pr.Get(ctx, id, true)

		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}

		if err != nil {
			return err
		}

		return domain.ErrConflict
	}

	return nil
}
