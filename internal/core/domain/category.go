package domain

import (
	"strings"
	"time"
)

type Category struct {
	ID        int64
	Name      string `validate:"required,min=2,max=255"`
	Slug      string `validate:"max=255"`
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type CategoryPatch struct {
	Name *string `validate:"omitempty,min=2,max=255"`
	Slug *string `validate:"omitempty,max=255"`
}

type CategoryFilter struct {
	NameContains string
	Limit        int
	Offset       int
}

func (c *Category) IsDeleted() bool {
	return c.DeletedAt != nil
}

func (c *Category) Validate() error {
	return validateStruct(c)
}

func (c *CategoryPatch) Validate() error {
	return validateStruct(c)
}

func (c *CategoryPatch) Apply(category *Category) {
	if c.Name != nil {
		category.Name = *c.Name
	}

	if c.Slug != nil {
		category.Slug = *c.Slug
	}
}

// Slugify derives a URL-safe slug from a category name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")

	return slug
}
