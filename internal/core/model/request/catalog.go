package request

type ProductRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	SKU         string  `json:"sku" validate:"required,max=64"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
}

type ProductUpdateRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price           *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	SKU             *string  `json:"sku,omitempty" validate:"omitempty,max=64"`
	CategoryID      *int64   `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	ExpectedVersion int64    `json:"expected_version" validate:"required,gt=0"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
	Slug string `json:"slug" validate:"max=255"`
}

type CategoryUpdateRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Slug            *string `json:"slug,omitempty" validate:"omitempty,max=255"`
	ExpectedVersion int64   `json:"expected_version" validate:"required,gt=0"`
}

type OrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type OrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderUpdateRequest struct {
	Status          string `json:"status" validate:"required"`
	ExpectedVersion int64  `json:"expected_version" validate:"required,gt=0"`
}
