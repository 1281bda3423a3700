package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "shopcatalog/internal/adapter/http"
	"shopcatalog/internal/adapter/cache/memory"
	"shopcatalog/internal/adapter/database/sqlite"
	"shopcatalog/internal/adapter/database/sqlite/repository"
	"shopcatalog/internal/adapter/http/routes"
	"shopcatalog/internal/core/domain"
	"shopcatalog/internal/core/service"
	"shopcatalog/internal/core/util"
	"shopcatalog/pkg/auth"
	"shopcatalog/pkg/config"
	"shopcatalog/pkg/test"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine

	adminToken    string
	ownerToken    string
	intruderToken string
	product       domain.Product
}

func (s *OrderHandlerTestSuite) SetupTest() {
	s.T().Setenv("JWT_SECRET", "handler-test-secret")

	db := sqlite.NewWithDB(test.InitTestDB())

	repos := httpadapter.Repositories{
		Users:      repository.NewUserRepository(db),
		Products:   repository.NewProductRepository(db, nil),
		Categories: repository.NewCategoryRepository(db, nil),
		Orders:     repository.NewOrderRepository(db, nil),
	}

	logger, err := config.NewAppLogger("shopcatalog-test")
	s.Require().NoError(err)

	container := httpadapter.NewContainer(repos, memory.New(), service.DefaultCacheTTLs(), nil, logger)

	s.router = routes.SetupRouterForTests(routes.HandlersConfig{
		AuthHandler:     container.AuthHandler,
		ProductHandler:  container.ProductHandler,
		CategoryHandler: container.CategoryHandler,
		OrderHandler:    container.OrderHandler,
	})

	encrypted, err := util.GenerateEncrypt("12345678")
	s.Require().NoError(err)

	s.adminToken = s.createUserToken(repos, "Admin", "admin@example.com", encrypted, domain.RoleAdmin)
	s.ownerToken = s.createUserToken(repos, "Owner", "owner@example.com", encrypted, domain.RoleCustomer)
	s.intruderToken = s.createUserToken(repos, "Intruder", "intruder@example.com", encrypted, domain.RoleCustomer)

	category, err := repos.Categories.Create(context.Background(), domain.Category{
		Name: "Electronics",
		Slug: "electronics",
	})
	s.Require().NoError(err)

	product, err := repos.Products.Create(context.Background(), domain.Product{
		Name:       "Keyboard",
		Price:      49.0,
		SKU:        "SKU-KB",
		CategoryID: category.ID,
	})
	s.Require().NoError(err)
	s.product = product
}

func (s *OrderHandlerTestSuite) createUserToken(repos httpadapter.Repositories, name, email, encrypted string, role domain.UserRole) string {
	user, err := repos.Users.Create(context.Background(), domain.User{
		Name:              name,
		Email:             email,
		EncryptedPassword: encrypted,
		Role:              role,
	})
	s.Require().NoError(err)

	token, err := auth.CreateJwtTokenForUser(user.ID, string(user.Role))
	s.Require().NoError(err)

	return token
}

func TestOrderHandlerTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader

	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)

	return recorder
}

func (s *OrderHandlerTestSuite) placeOrder(token string) int64 {
	recorder := s.request(http.MethodPost, "/orders", token, map[string]any{
		"items": []map[string]any{
			{"product_id": s.product.ID, "quantity": 2},
		},
	})

	s.Require().Equal(http.StatusCreated, recorder.Code, recorder.Body.String())

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &envelope))

	return int64(envelope.Data["id"].(float64))
}

func (s *OrderHandlerTestSuite) TestHandler_DeleteOrder_OtherCustomerCannotCancel() {
	id := s.placeOrder(s.ownerToken)
	path := fmt.Sprintf("/orders/%d", id)

	recorder := s.request(http.MethodDelete, path, s.intruderToken, nil)
	Expect(recorder.Code).To(Equal(http.StatusNotFound))

	// The order is untouched for its owner.
	recorder = s.request(http.MethodGet, path, s.ownerToken, nil)
	Expect(recorder.Code).To(Equal(http.StatusOK))
}

func (s *OrderHandlerTestSuite) TestHandler_DeleteOrder_OwnerCanCancel() {
	id := s.placeOrder(s.ownerToken)
	path := fmt.Sprintf("/orders/%d", id)

	recorder := s.request(http.MethodDelete, path, s.ownerToken, nil)
	Expect(recorder.Code).To(Equal(http.StatusOK))

	recorder = s.request(http.MethodGet, path, s.ownerToken, nil)
	Expect(recorder.Code).To(Equal(http.StatusNotFound))
}

func (s *OrderHandlerTestSuite) TestHandler_DeleteOrder_AdminCanCancelAny() {
	id := s.placeOrder(s.ownerToken)
	path := fmt.Sprintf("/orders/%d", id)

	recorder := s.request(http.MethodDelete, path, s.adminToken, nil)
	Expect(recorder.Code).To(Equal(http.StatusOK))
}

func (s *OrderHandlerTestSuite) TestHandler_GetOrder_OtherCustomerSeesNotFound() {
	id := s.placeOrder(s.ownerToken)

	recorder := s.request(http.MethodGet, fmt.Sprintf("/orders/%d", id), s.intruderToken, nil)

	Expect(recorder.Code).To(Equal(http.StatusNotFound))
}

func (s *OrderHandlerTestSuite) TestHandler_ListOrders_ScopedToActor() {
	s.placeOrder(s.ownerToken)

	recorder := s.request(http.MethodGet, "/orders", s.intruderToken, nil)

	Expect(recorder.Code).To(Equal(http.StatusOK))

	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &envelope))
	Expect(envelope.Data).To(BeEmpty())
}
