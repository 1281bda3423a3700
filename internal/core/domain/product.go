package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID          int64
	UUID        uuid.UUID
	Name        string  `validate:"required,min=2,max=255"`
	Description string  `validate:"max=1024"`
	Price       float64 `validate:"gte=0"`
	SKU         string  `validate:"max=64"`
	CategoryID  int64   `validate:"required,gt=0"`
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// ProductPatch carries the fields an update may change. Nil means
// "leave untouched".
type ProductPatch struct {
	Name        *string  `validate:"omitempty,min=2,max=255"`
	Description *string  `validate:"omitempty,max=1024"`
	Price       *float64 `validate:"omitempty,gte=0"`
	SKU         *string  `validate:"omitempty,max=64"`
	CategoryID  *int64   `validate:"omitempty,gt=0"`
}

// ProductFilter narrows List results. Zero values match everything.
type ProductFilter struct {
	CategoryID   int64
	NameContains string
	Limit        int
	Offset       int
}

func (p *Product) IsDeleted() bool {
	return p.DeletedAt != nil
}

func (p *Product) Validate() error {
	return validateStruct(p)
}

func (p *ProductPatch) Validate() error {
	return validateStruct(p)
}

// Apply copies the non-nil patch fields onto the product.
func (p *ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}

	if p.Description != nil {
		product.Description = *p.Description
	}

	if p.Price != nil {
		product.Price = *p.Price
	}

	if p.SKU != nil {
		product.SKU = *p.SKU
	}

	if p.CategoryID != nil {
		product.CategoryID = *p.CategoryID
	}
}
