package domain

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
)

func TestProductValidate(t *testing.T) {
	RegisterTestingT(t)

	product := Product{Name: "Keyboard", Price: 10, CategoryID: 1}
	Expect(product.Validate()).To(Succeed())

	invalid := Product{Name: "K", Price: -1}
	err := invalid.Validate()

	Expect(IsValidation(err)).To(BeTrue())

	var ve *ValidationError
	errors.As(err, &ve)
	Expect(len(ve.Fields)).To(BeNumerically(">=", 2))
}

func TestProductPatchApply(t *testing.T) {
	RegisterTestingT(t)

	product := Product{Name: "Keyboard", Price: 10, SKU: "SKU-1", CategoryID: 1}

	name := "Mechanical Keyboard"
	price := 49.0
	patch := ProductPatch{Name: &name, Price: &price}
	patch.Apply(&product)

	Expect(product.Name).To(Equal("Mechanical Keyboard"))
	Expect(product.Price).To(Equal(49.0))
	Expect(product.SKU).To(Equal("SKU-1"))
}

func TestSlugify(t *testing.T) {
	RegisterTestingT(t)

	Expect(Slugify("Home Office")).To(Equal("home-office"))
	Expect(Slugify("  Gaming   Gear  ")).To(Equal("gaming-gear"))
}

func TestParseOrderStatus(t *testing.T) {
	RegisterTestingT(t)

	status, err := ParseOrderStatus("paid")
	Expect(err).To(BeNil())
	Expect(status).To(Equal(OrderStatusPaid))

	// Empty means pending for new orders.
	status, err = ParseOrderStatus("")
	Expect(err).To(BeNil())
	Expect(status).To(Equal(OrderStatusPending))

	_, err = ParseOrderStatus("teleported")
	Expect(err).NotTo(BeNil())
}

func TestOrderTotal(t *testing.T) {
	RegisterTestingT(t)

	order := Order{Items: []OrderItem{
		{Quantity: 2, UnitPrice: 10},
		{Quantity: 1, UnitPrice: 5.5},
	}}

	Expect(order.Total()).To(BeNumerically("~", 25.5, 0.001))
}

func TestValidationErrorMessage(t *testing.T) {
	RegisterTestingT(t)

	err := &ValidationError{Fields: []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "price", Message: "must be positive"},
	}}

	Expect(err.Error()).To(ContainSubstring("name: is required"))
	Expect(err.Error()).To(ContainSubstring("price: must be positive"))
}

func TestWrapStorage(t *testing.T) {
	RegisterTestingT(t)

	wrapped := WrapStorage(errors.New("disk on fire"))

	Expect(errors.Is(wrapped, ErrStorage)).To(BeTrue())
	Expect(WrapStorage(nil)).To(BeNil())
}
