package http

import (
	"shopcatalog/internal/adapter/http/handler"
	"shopcatalog/internal/core/port"
	"shopcatalog/internal/core/service"
	"shopcatalog/pkg/config"
)

// Repositories groups the persistence ports one database backend provides.
type Repositories struct {
	Users      port.UserRepository
	Products   port.ProductRepository
	Categories port.CategoryRepository
	Orders     port.OrderRepository
}

type Container struct {
	ProductService  port.ProductService
	CategoryService port.CategoryService
	OrderService    port.OrderService
	AuthService     port.AuthService

	AuthHandler     *handler.AuthHandler
	ProductHandler  *handler.ProductHandler
	CategoryHandler *handler.CategoryHandler
	OrderHandler    *handler.OrderHandler
}

func NewContainer(repos Repositories, cache port.Cache, ttls service.CacheTTLs, probe port.Telemetry, logger *config.AppLogger) *Container {
	productSvc := service.NewProductService(repos.Products, cache, ttls, probe)
	categorySvc := service.NewCategoryService(repos.Categories, cache, ttls, probe)
	orderSvc := service.NewOrderService(repos.Orders, repos.Products, cache, ttls, probe)
	authSvc := service.NewAuthService(repos.Users)

	return &Container{
		ProductService:  productSvc,
		CategoryService: categorySvc,
		OrderService:    orderSvc,
		AuthService:     authSvc,

		AuthHandler:     handler.NewAuthHandler(authSvc),
		ProductHandler:  handler.NewProductHandler(productSvc, logger),
		CategoryHandler: handler.NewCategoryHandler(categorySvc),
		OrderHandler:    handler.NewOrderHandler(orderSvc, logger),
	}
}
