package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderStatus int

const (
	OrderStatusPending OrderStatus = iota
	OrderStatusPaid
	OrderStatusShipped
	OrderStatusDelivered
	OrderStatusCancelled
)

func (s OrderStatus) String() string {
	names := []string{"pending", "paid", "shipped", "delivered", "cancelled"}

	if int(s) < 0 || int(s) >= len(names) {
		return "unknown"
	}

	return names[int(s)]
}

// ParseOrderStatus maps the wire representation back to the enum.
func ParseOrderStatus(status string) (OrderStatus, error) {
	switch status {
	case "pending", "":
		return OrderStatusPending, nil
	case "paid":
		return OrderStatusPaid, nil
	case "shipped":
		return OrderStatusShipped, nil
	case "delivered":
		return OrderStatusDelivered, nil
	case "cancelled":
		return OrderStatusCancelled, nil
	default:
		return -1, fmt.Errorf("invalid order status: %s", status)
	}
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64   `validate:"required,gt=0"`
	Quantity  int     `validate:"required,gt=0"`
	UnitPrice float64 `validate:"gte=0"`
}

type Order struct {
	ID        int64
	UUID      uuid.UUID
	UserID    int64       `validate:"required,gt=0"`
	Status    OrderStatus `validate:"gte=0,lte=4"`
	Items     []OrderItem `validate:"required,min=1,dive"`
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// OrderPatch only allows the status to move; line items are immutable
// once the order exists.
type OrderPatch struct {
	Status *OrderStatus `validate:"omitempty,gte=0,lte=4"`
}

type OrderFilter struct {
	UserID int64
	Status *OrderStatus
	Limit  int
	Offset int
}

func (o *Order) IsDeleted() bool {
	return o.DeletedAt != nil
}

func (o *Order) Total() float64 {
	var total float64

	for _, item := range o.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}

	return total
}

func (o *Order) Validate() error {
	return validateStruct(o)
}

func (o *OrderPatch) Validate() error {
	return validateStruct(o)
}

func (o *OrderPatch) Apply(order *Order) {
	if o.Status != nil {
		order.Status = *o.Status
	}
}
