package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"shopcatalog/internal/adapter/database/sqlite"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
	tel "shopcatalog/internal/core/telemetry"
)

const productColumns = "id, uuid, name, description, price, sku, category_id, version, created_at, updated_at, deleted_at"

type ProductRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewProductRepository(db *sqlite.DB, telemetry port.Telemetry) port.ProductRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &ProductRepository{
		db:        db,
		telemetry: telemetry,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		product   domain.Product
		rawUUID   string
		deletedAt sql.NullTime
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

	if deletedAt.Valid {
		t := deletedAt.Time
		product.DeletedAt = &t
	}

	return product, nil
}

func (pr *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, span := pr.telemetry.StartRepositorySpan(ctx, "Create", "product", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     "products",
		"db.operation": "INSERT",
		"product.name": product.Name,
	})
	defer span.End()

	startTime := time.Now()

	if err := product.Validate(); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
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
		ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.Product{}, domain.WrapStorage(err)
	}

	pr.telemetry.RecordRepositoryQuery(ctx, "Create", "product", query, args)

	result, err := pr.db.ExecContext(ctx, query, args...)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		pr.telemetry.RecordRepositoryOperation(ctx, "Create", "product", time.Since(startTime), err)
		slog.Error("Insert failed", "error", err, "name", product.Name)
		return domain.Product{}, domain.WrapStorage(err)
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.Product{}, domain.WrapStorage(err)
	}

	saved, err := pr.Get(ctx, id, false)

	if err != nil {
		return domain.Product{}, err
	}

	span.SetStatus("ok", "")
	pr.telemetry.RecordRepositoryOperation(ctx, "Create", "product", time.Since(startTime), nil)

	return saved, nil
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

	row := pr.db.QueryRowContext(ctx, sqlStr, args...)
	product, err := scanProduct(row)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Product{}, domain.WrapStorage(err)
	}

	return product, nil
}

func (pr *ProductRepository) List(ctx context.Context, filter domain.ProductFilter, includeDeleted bool) ([]domain.Product, error) {
	ctx, span := pr.telemetry.StartRepositorySpan(ctx, "List", "product", map[string]interface{}{
		"db.system":       "sqlite",
		"db.table":        "products",
		"include_deleted": includeDeleted,
	})
	defer span.End()

	startTime := time.Now()

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
		query = query.Where(sq.Like{"name": "%" + filter.NameContains + "%"})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return nil, domain.WrapStorage(err)
	}

	pr.telemetry.RecordRepositoryQuery(ctx, "List", "product", sqlStr, args)

	rows, err := pr.db.QueryContext(ctx, sqlStr, args...)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		pr.telemetry.RecordRepositoryOperation(ctx, "List", "product", time.Since(startTime), err)
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

	span.SetAttributes(map[string]interface{}{
		"db.rows_returned": len(products),
	})
	span.SetStatus("ok", "")
	pr.telemetry.RecordRepositoryOperation(ctx, "List", "product", time.Since(startTime), nil)

	return products, nil
}

func (pr *ProductRepository) Update(ctx context.Context, id int64, patch domain.ProductPatch, expectedVersion int64) (domain.Product, error) {
	ctx, span := pr.telemetry.StartRepositorySpan(ctx, "Update", "product", map[string]interface{}{
		"db.system":        "sqlite",
		"db.table":         "products",
		"db.operation":     "UPDATE",
		"product.id":       id,
		"expected_version": expectedVersion,
	})
	defer span.End()

	startTime := time.Now()

	if err := patch.Validate(); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
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
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.Product{}, domain.WrapStorage(err)
	}

	pr.telemetry.RecordRepositoryQuery(ctx, "Update", "product", query, args)

	result, err := pr.db.ExecContext(ctx, query, args...)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		pr.telemetry.RecordRepositoryOperation(ctx, "Update", "product", time.Since(startTime), err)
		return domain.Product{}, domain.WrapStorage(err)
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		err := pr.resolveWriteConflict(ctx, id)
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		pr.telemetry.RecordRepositoryOperation(ctx, "Update", "product", time.Since(startTime), err)
		return domain.Product{}, err
	}

	updated, err := pr.Get(ctx, id, false)

	if err != nil {
		return domain.Product{}, err
	}

	span.SetStatus("ok", "")
	pr.telemetry.RecordRepositoryOperation(ctx, "Update", "product", time.Since(startTime), nil)

	return updated, nil
}

// resolveWriteConflict disambiguates a zero-row CAS update: a missing or
// soft-deleted row means not found, an existing active row means the caller
// lost the version race.
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
	operation := "SoftDelete"
	guard := "deleted_at IS NULL"

	var deletedAt any = time.Now().UTC()

	if !deleted {
		operation = "Restore"
		guard = "deleted_at IS NOT NULL"
		deletedAt = nil
	}

	ctx, span := pr.telemetry.StartRepositorySpan(ctx, operation, "product", map[string]interface{}{
		"db.system":  "sqlite",
		"db.table":   "products",
		"product.id": id,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := pr.db.QueryBuilder.Update("products").
		Set("deleted_at", deletedAt).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(guard).
		ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.WrapStorage(err)
	}

	result, err := pr.db.ExecContext(ctx, query, args...)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		pr.telemetry.RecordRepositoryOperation(ctx, operation, "product", time.Since(startTime), err)
		return domain.WrapStorage(err)
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		_, err := pr.Get(ctx, id, true)

		if errors.Is(err, domain.ErrNotFound) {
			span.SetStatus("error", "not found")
			return domain.ErrNotFound
		}

		if err != nil {
			return err
		}

		// The row exists but is already in the requested state.
		span.SetStatus("error", "conflicting state")
		return domain.ErrConflict
	}

	span.SetStatus("ok", "")
	pr.telemetry.RecordRepositoryOperation(ctx, operation, "product", time.Since(startTime), nil)

	return nil
}
