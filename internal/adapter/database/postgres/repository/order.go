package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shopcatalog/internal/adapter/database/postgres"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
)

const orderColumns = "id, uuid, user_id, status, version, created_at, updated_at, deleted_at"

type OrderRepository struct {
	db *postgres.DB
}

func NewOrderRepository(db *postgres.DB) port.OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order     domain.Order
		rawUUID   string
		deletedAt *time.Time
	)

	err := row.Scan(
		&order.ID,
		&rawUUID,
		&order.UserID,
		&order.Status,
		&order.Version,
		&order.CreatedAt,
		&order.UpdatedAt,
		&deletedAt,
	)

	if err != nil {
		return domain.Order{}, err
	}

	order.UUID, _ = uuid.Parse(rawUUID)
	order.DeletedAt = deletedAt

	return order, nil
}

func (or *OrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	if err := order.Validate(); err != nil {
		return domain.Order{}, err
	}

	if order.UUID == uuid.Nil {
		order.UUID = uuid.New()
	}

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Version = 1
	order.DeletedAt = nil

	tx, err := or.db.Begin(ctx)

	if err != nil {
		return domain.Order{}, domain.WrapStorage(err)
	}

	defer tx.Rollback(ctx)

	query, args, err := or.db.QueryBuilder.Insert("orders").
		Columns("uuid", "user_id", "status", "version", "created_at", "updated_at").
		Values(order.UUID.String(), order.UserID, int(order.Status), order.Version, order.CreatedAt, order.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.Order{}, domain.WrapStorage(err)
	}

	var orderID int64

	if err := tx.QueryRow(ctx, query, args...).Scan(&orderID); err != nil {
		return domain.Order{}, domain.WrapStorage(err)
	}

	itemInsert := or.db.QueryBuilder.Insert("order_items").
		Columns("order_id", "product_id", "quantity", "unit_price")

	for _, item := range order.Items {
		itemInsert = itemInsert.Values(orderID, item.ProductID, item.Quantity, item.UnitPrice)
	}

	query, args, err = itemInsert.ToSql()

	if err != nil {
		return domain.Order{}, domain.WrapStorage(err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return domain.Order{}, domain.WrapStorage(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Order{}, domain.WrapStorage(err)
	}

	return or.Get(ctx, orderID, false)
}

func (or *OrderRepository) Get(ctx context.Context, id int64, includeDeleted bool) (domain.Order, error) {
	query := or.db.QueryBuilder.Select(orderColumns).
		From("orders").
		Where(sq.Eq{"id": id}).
		Limit(1)

	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}

	sqlStr, args, err := query.ToSql()

	if err != nil {
		return domain.Order{}, domain.WrapStorage(err)
	}

	order, err := scanOrder(or.db.QueryRow(ctx, sqlStr, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.Order{}, domain.WrapStorage(err)
	}

	items, err := or.loadItems(ctx, []int64{order.ID})

	if err != nil {
		return domain.Order{}, err
	}

	order.Items = items[order.ID]

	return order, nil
}

func (or *OrderRepository) List(ctx context.Context, filter domain.OrderFilter, includeDeleted bool) ([]domain.Order, error) {
	query := or.db.QueryBuilder.Select(orderColumns).
		From("orders").
		OrderBy("id ASC")

	if !includeDeleted {
		query = query.Where("deleted_at IS NULL")
	}

	if filter.UserID > 0 {
		query = query.Where(sq.Eq{"user_id": filter.UserID})
	}

	if filter.Status != nil {
		query = query.Where(sq.Eq{"status": int(*filter.Status)})
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

	rows, err := or.db.Query(ctx, sqlStr, args...)

	if err != nil {
		return nil, domain.WrapStorage(err)
	}

	defer rows.Close()

	orders := []domain.Order{}
	ids := []int64{}

	for rows.Next() {
		order, err := scanOrder(rows)

		if err != nil {
			return nil, domain.WrapStorage(err)
		}

		orders = append(orders, order)
		ids = append(ids, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.WrapStorage(err)
	}

	if len(ids) == 0 {
		return orders, nil
	}

	items, err := or.loadItems(ctx, ids)

	if err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

func (or *OrderRepository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	sqlStr, args, err := or.db.QueryBuilder.Select("id, order_id, product_id, quantity, unit_price").
		From("order_items").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, domain.WrapStorage(err)
	}

	rows, err := or.db.Query(ctx, sqlStr, args...)

	if err != nil {
		return nil, domain.WrapStorage(err)
	}

	defer rows.Close()

	items := map[int64][]domain.OrderItem{}

	for rows.Next() {
		var item domain.OrderItem

		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, domain.WrapStorage(err)
		}

		items[item.OrderID] = append(items[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.WrapStorage(err)
	}

	return items, nil
}

func (or *OrderRepository) Update(ctx context.Context, id int64, patch domain.OrderPatch, expectedVersion int64) (domain.Order, error) {
	if err := patch.Validate(); err != nil {
		return domain.Order{}, err
	}

	update := or.db.QueryBuilder.Update("orders").
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"version": expectedVersion}).
		Where("deleted_at IS NULL")

	if patch.Status != nil {
		update = update.Set("status", int(*patch.Status))
	}

	query, args, err := update.ToSql()

	if err != nil {
		return domain.Order{}, domain.WrapStorage(err)
	}

	tag, err := or.db.Exec(ctx, query, args...)

	if err != nil {
		return domain.Order{}, domain.WrapStorage(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.Order{}, or.resolveWriteConflict(ctx, id)
	}

	return or.Get(ctx, id, false)
}

func (or *OrderRepository) resolveWriteConflict(ctx context.Context, id int64) error {
	current, err := or.Get(ctx, id, true)

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

func (or *OrderRepository) SoftDelete(ctx context.Context, id int64) error {
	return or.markDeleted(ctx, id, true)
}

func (or *OrderRepository) Restore(ctx context.Context, id int64) error {
	return or.markDeleted(ctx, id, false)
}

func (or *OrderRepository) markDeleted(ctx context.Context, id int64, deleted bool) error {
	guard := "deleted_at IS NULL"

	var deletedAt any = time.Now().UTC()

	if !deleted {
		guard = "deleted_at IS NOT NULL"
		deletedAt = nil
	}

	query, args, err := or.db.QueryBuilder.Update("orders").
		Set("deleted_at", deletedAt).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(guard).
		ToSql()

	if err != nil {
		return domain.WrapStorage(err)
	}

	tag, err := or.db.Exec(ctx, query, args...)

	if err != nil {
		return domain.WrapStorage(err)
	}

	if tag.RowsAffected() == 0 {
		_, err := or.Get(ctx, id, true)

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
