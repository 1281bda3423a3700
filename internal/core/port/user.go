package port

import (
	"context"

	"shopcatalog/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (domain.User, error)
	Authenticate(ctx context.Context, email, password string) (domain.User, string, error)
}
