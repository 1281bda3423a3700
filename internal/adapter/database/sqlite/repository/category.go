package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"shopcatalog/internal/adapter/database/sqlite"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
	tel "shopcatalog/internal/core/telemetry"
)

const categoryColumns = "id, name, slug, version, created_at, updated_at, deleted_at"

type CategoryRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewCategoryRepository(db *sqlite.DB, telemetry port.Telemetry) port.CategoryRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &CategoryRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var (
		category  domain.Category
		deletedAt sql.NullTime
	)

	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Version,
		&category.CreatedAt,
		&category.UpdatedAt,
		&deletedAt,
	)

	if err != nil {
		return domain.Category{}, err
	}

	if deletedAt.Valid {
		t := deletedAt.Time
		category.DeletedAt = &t
	}

	return category, nil
}

func (cr *CategoryRepository) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	if category.Slug == "" {
		category.Slug = domain.Slugify(category.Name)
	}

	if err := category.Validate(); err != nil {
		return domain.Category{}, err
	}

	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
	category.Version = 1
	category.DeletedAt = nil

	query, args, err := cr.db.QueryBuilder.Insert("categories").
		Columns("name", "slug", "version", "created_at", "updated_at").
		Values(category.Name, category.Slug, category.Version, category.CreatedAt, category.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.Category{}, domain.WrapStorage(err)
	}

	cr.telemetry.RecordRepositoryQuery(ctx, "Create", "category", query, args)

	result, err := cr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.Category{}, domain.WrapStorage(err)
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.Category{}, domain.WrapStorage(err)
	}

	return cr.Get(ctx, id, false)
}

func (cr *CategoryRepository) Get(ctx context.Context, id int64, includeDeleted bool) (domain.Category, error) {
	query := cr.db.QueryBuilder.Select(categoryColumns).
		From("categories").
		Where(sq.Eq{"id": id}).
		Limit(1)

	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return domain.Category{}, domain.WrapStorage(err)
	}

	row := cr.db.QueryRowContext(ctx, sqlStr, args...)
	category, err := scanCategory(row)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Category{}, domain.WrapStorage(err)
	}

	return category, nil
}

func (cr *CategoryRepository) List(ctx context.Context, filter domain.CategoryFilter, includeDeleted bool) ([]domain.Category, error) {
	query := cr.db.QueryBuilder.Select(categoryColumns).
		From("categories").
		OrderBy("id ASC")

	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
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
		return nil, domain.WrapStorage(err)
	}

	rows, err := cr.db.QueryContext(ctx, sqlStr, args...)

	if err != nil {
		return nil, domain.WrapStorage(err)
	}

	defer rows.Close()

	categories := []domain.Category{}

	for rows.Next() {
		category, err := scanCategory(rows)

		if err != nil {
			return nil, domain.WrapStorage(err)
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.WrapStorage(err)
	}

	return categories, nil
}

func (cr *CategoryRepository) Update(ctx context.Context, id int64, patch domain.CategoryPatch, expectedVersion int64) (domain.Category, error) {
	ctx, span := cr.telemetry.StartRepositorySpan(ctx, "Update", "category", map[string]interface{}{
		"db.system":        "sqlite",
		"db.table":         "categories",
		"category.id":      id,
		"expected_version": expectedVersion,
	})
	defer span.End()

	startTime := time.Now()

	if err := patch.Validate(); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.Category{}, err
	}

	update := cr.db.QueryBuilder.Update("categories").
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"version": expectedVersion}).
		Where("deleted_at IS NULL")

	if patch.Name != nil {
		update = update.Set("name", *patch.Name)
	}

	if patch.Slug != nil {
		update = update.Set("slug", *patch.Slug)
	}

	query, args, err := update.ToSql()

	if err != nil {
		return domain.Category{}, domain.WrapStorage(err)
	}

	result, err := cr.db.ExecContext(ctx, query, args...)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		cr.telemetry.RecordRepositoryOperation(ctx, "Update", "category", time.Since(startTime), err)
		return domain.Category{}, domain.WrapStorage(err)
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		err := cr.resolveWriteConflict(ctx, id)
		span.SetStatus("error", err.Error())
		cr.telemetry.RecordRepositoryOperation(ctx, "Update", "category", time.Since(startTime), err)
		return domain.Category{}, err
	}

	span.SetStatus("ok", "")
	cr.telemetry.RecordRepositoryOperation(ctx, "Update", "category", time.Since(startTime), nil)

	return cr.Get(ctx, id, false)
}

func (cr *CategoryRepository) resolveWriteConflict(ctx context.Context, id int64) error {
	current, err := cr.Get(ctx, id, true)

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

func (cr *CategoryRepository) SoftDelete(ctx context.Context, id int64) error {
	return cr.markDeleted(ctx, id, true)
}

func (cr *CategoryRepository) Restore(ctx context.Context, id int64) error {
	return cr.markDeleted(ctx, id, false)
}

func (cr *CategoryRepository) markDeleted(ctx context.Context, id int64, deleted bool) error {
	guard := "deleted_at IS NULL"

	var deletedAt any = time.Now().UTC()

	if !deleted {
		guard = "deleted_at IS NOT NULL"
		deletedAt = nil
	}

	query, args, err := cr.db.QueryBuilder.Update("categories").
		Set("deleted_at", deletedAt).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(guard).
		ToSql()

	if err != nil {
		return domain.WrapStorage(err)
	}

	result, err := cr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.WrapStorage(err)
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		_, err := cr.Get(ctx, id, true)

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
