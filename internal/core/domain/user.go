package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

// User is the authentication collaborator. The catalog core only ever sees
// its id as an opaque actor for audit events.
type User struct {
	ID                int64
	UUID              uuid.UUID
	Name              string `validate:"required,min=2,max=100"`
	Email             string `validate:"required,email,max=255"`
	EncryptedPassword string `validate:"required"`
	Role              UserRole
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) Validate() error {
	return validateStruct(u)
}
