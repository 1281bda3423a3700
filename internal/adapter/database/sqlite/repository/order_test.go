package repository_test

import (
	"context"
	"errors"
	"testing"

	"shopcatalog/internal/adapter/database/sqlite"
	"shopcatalog/internal/adapter/database/sqlite/repository"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/port"
	"shopcatalog/pkg/test"
	"shopcatalog/pkg/test/factory"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type OrderRepositoryTestSuite struct {
	suite.Suite
	OrderRepo   port.OrderRepository
	ProductRepo port.ProductRepository
	UserRepo    port.UserRepository

	user    domain.User
	product domain.Product
}

func (s *OrderRepositoryTestSuite) SetupTest() {
	db := sqlite.NewWithDB(test.InitTestDB())

	s.OrderRepo = repository.NewOrderRepository(db, nil)
	s.ProductRepo = repository.NewProductRepository(db, nil)
	s.UserRepo = repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db, nil)

	user, err := s.UserRepo.Create(context.Background(), factory.NewUser[domain.User](map[string]any{
		"ID":    int64(0),
		"Name":  "Buyer",
		"Email": "buyer@example.com",
		"Role":  domain.RoleCustomer,
	}))
	s.Require().NoError(err)
	s.user = user

	category, err := categoryRepo.Create(context.Background(), domain.Category{
		Name: "Electronics",
		Slug: "electronics",
	})
	s.Require().NoError(err)

	product, err := s.ProductRepo.Create(context.Background(), domain.Product{
		Name:       "Keyboard",
		Price:      49.90,
		SKU:        "SKU-KB",
		CategoryID: category.ID,
	})
	s.Require().NoError(err)
	s.product = product
}

func TestOrderRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(OrderRepositoryTestSuite))
}

func (s *OrderRepositoryTestSuite) createOrder() domain.Order {
	order, err := s.OrderRepo.Create(context.Background(), domain.Order{
		UserID: s.user.ID,
		Status: domain.OrderStatusPending,
		Items: []domain.OrderItem{
			{ProductID: s.product.ID, Quantity: 2, UnitPrice: 49.90},
		},
	})

	s.Require().NoError(err)
	return order
}

func (s *OrderRepositoryTestSuite) TestRepository_CreateOrder_PersistsItems() {
	order := s.createOrder()

	Expect(order.Version).To(Equal(int64(1)))
	Expect(order.Items).To(HaveLen(1))
	Expect(order.Items[0].ProductID).To(Equal(s.product.ID))
	Expect(order.Total()).To(BeNumerically("~", 99.80, 0.001))
}

func (s *OrderRepositoryTestSuite) TestRepository_CreateOrder_WithoutItemsFails() {
	_, err := s.OrderRepo.Create(context.Background(), domain.Order{
		UserID: s.user.ID,
		Status: domain.OrderStatusPending,
	})

	Expect(domain.IsValidation(err)).To(BeTrue())
}

func (s *OrderRepositoryTestSuite) TestRepository_UpdateStatus_CAS() {
	order := s.createOrder()

	paid := domain.OrderStatusPaid
	updated, err := s.OrderRepo.Update(context.Background(), order.ID, domain.OrderPatch{Status: &paid}, order.Version)

	Expect(err).To(BeNil())
	Expect(updated.Status).To(Equal(domain.OrderStatusPaid))
	Expect(updated.Version).To(Equal(int64(2)))
	Expect(updated.Items).To(HaveLen(1))

	shipped := domain.OrderStatusShipped
	_, err = s.OrderRepo.Update(context.Background(), order.ID, domain.OrderPatch{Status: &shipped}, order.Version)

	Expect(errors.Is(err, domain.ErrConflict)).To(BeTrue())
}

func (s *OrderRepositoryTestSuite) TestRepository_SoftDeleteAndRestore() {
	order := s.createOrder()

	s.Require().NoError(s.OrderRepo.SoftDelete(context.Background(), order.ID))

	_, err := s.OrderRepo.Get(context.Background(), order.ID, false)
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())

	deleted, err := s.OrderRepo.Get(context.Background(), order.ID, true)
	Expect(err).To(BeNil())
	Expect(deleted.Items).To(HaveLen(1))

	s.Require().NoError(s.OrderRepo.Restore(context.Background(), order.ID))

	restored, err := s.OrderRepo.Get(context.Background(), order.ID, false)
	Expect(err).To(BeNil())
	Expect(restored.Version).To(Equal(int64(3)))
}

func (s *OrderRepositoryTestSuite) TestRepository_List_FiltersByUserAndStatus() {
	first := s.createOrder()
	second := s.createOrder()

	paid := domain.OrderStatusPaid
	_, err := s.OrderRepo.Update(context.Background(), second.ID, domain.OrderPatch{Status: &paid}, second.Version)
	s.Require().NoError(err)

	mine, err := s.OrderRepo.List(context.Background(), domain.OrderFilter{UserID: s.user.ID}, false)

	Expect(err).To(BeNil())
	Expect(mine).To(HaveLen(2))
	Expect(mine[0].ID).To(Equal(first.ID))
	Expect(mine[0].Items).To(HaveLen(1))

	paidOnly, err := s.OrderRepo.List(context.Background(), domain.OrderFilter{UserID: s.user.ID, Status: &paid}, false)

	Expect(err).To(BeNil())
	Expect(paidOnly).To(HaveLen(1))
	Expect(paidOnly[0].ID).To(Equal(second.ID))
}
