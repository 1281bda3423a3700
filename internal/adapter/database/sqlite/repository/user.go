package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"shopcatalog/internal/adapter/database/sqlite"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
)

const userColumns = "id, uuid, name, email, encrypted_password, role, created_at, updated_at"

type UserRepository struct {
	db *sqlite.DB
}

func NewUserRepository(db *sqlite.DB) port.UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user    domain.User
		rawUUID string
		role    string
	)

	err := row.Scan(
		&user.ID,
		&rawUUID,
		&user.Name,
		&user.Email,
		&user.EncryptedPassword,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return domain.User{}, err
	}

	user.UUID, _ = uuid.Parse(rawUUID)
	user.Role = domain.UserRole(role)

	return user, nil
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if err := user.Validate(); err != nil {
		return domain.User{}, err
	}

	if user.UUID == uuid.Nil {
		user.UUID = uuid.New()
	}

	if user.Role == "" {
		user.Role = domain.RoleCustomer
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := ur.db.QueryBuilder.Insert("users").
		Columns("uuid", "name", "email", "encrypted_password", "role", "created_at", "updated_at").
		Values(user.UUID.String(), user.Name, user.Email, user.EncryptedPassword, string(user.Role), user.CreatedAt, user.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.User{}, domain.WrapStorage(err)
	}

	result, err := ur.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.User{}, domain.WrapStorage(err)
	}

	id, err := result.LastInsertId()

	if err != nil {
		return domain.User{}, domain.WrapStorage(err)
	}

	return ur.GetByID(ctx, id)
}

func (ur *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return ur.getBy(ctx, sq.Eq{"id": id})
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return ur.getBy(ctx, sq.Eq{"email": email})
}

func (ur *UserRepository) getBy(ctx context.Context, cond sq.Eq) (domain.User, error) {
	sqlStr, args, err := ur.db.QueryBuilder.Select(userColumns).
		From("users").
		Where(cond).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, domain.WrapStorage(err)
	}

	row := ur.db.QueryRowContext(ctx, sqlStr, args...)
	user, err := scanUser(row)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}

	if err != nil {
		return domain.User{}, domain.WrapStorage(err)
	}

	return user, nil
}
