package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"shopcatalog/internal/adapter/database/postgres"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
)

const categoryColumns = "id, name, slug, version, created_at, updated_at, deleted_at"

type CategoryRepository struct {
	db *postgres.DB
}

func NewCategoryRepository(db *postgres.DB) port.CategoryRepository {
	return &CategoryRepository{db: db}
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var (
		category  domain.Category
		deletedAt *time.Time
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

	category.DeletedAt = deletedAt

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
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.Category{}, domain.WrapStorage(err)
	}

	var id int64

	if err := cr.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
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

	category, err := scanCategory(cr.db.QueryRow(ctx, sqlStr, args...))

	if errors.Is(err, pgx.ErrNoRows) {
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

	rows, err := cr.db.Query(ctx, sqlStr, args...)

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
	if err := patch.Validate(); err != nil {
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

	tag, err := cr.db.Exec(ctx, query, args...)

	if err != nil {
		return domain.Category{}, domain.WrapStorage(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.Category{}, cr.resolveWriteConflict(ctx, id)
	}

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

	tag, err := cr.db.Exec(ctx, query, args...)

	if err != nil {
		return domain.WrapStorage(err)
	}

	if tag.RowsAffected() == 0 {
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
