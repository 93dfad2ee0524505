// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"basket/internal/delivery/api/middleware"
	"basket/internal/delivery/api/router/handler"
	"basket/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler      *handler.AuthHandler
	AddressHandler   *handler.AddressHandler
	CategoryHandler  *handler.CategoryHandler
	ProductHandler   *handler.ProductHandler
	CartHandler      *handler.CartHandler
	PromotionHandler *handler.PromotionHandler
	OrderHandler     *handler.OrderHandler
	UserHandler      *handler.UserHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler      *handler.AuthHandler
	addressHandler   *handler.AddressHandler
	categoryHandler  *handler.CategoryHandler
	productHandler   *handler.ProductHandler
	cartHandler      *handler.CartHandler
	promotionHandler *handler.PromotionHandler
	orderHandler     *handler.OrderHandler
	userHandler      *handler.UserHandler
	authMiddleware   *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:      params.AuthHandler,
		addressHandler:   params.AddressHandler,
		categoryHandler:  params.CategoryHandler,
		productHandler:   params.ProductHandler,
		cartHandler:      params.CartHandler,
		promotionHandler: params.PromotionHandler,
		orderHandler:     params.OrderHandler,
		userHandler:      params.UserHandler,
		authMiddleware:   params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	apiV1 := e.Group("/api/v1")

	// Public routes
	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
	}

	apiV1.GET("/categories", r.categoryHandler.List)

	productsGroup := apiV1.Group("/products")
	{
		productsGroup.GET("", r.productHandler.List)
		productsGroup.GET("/:id", r.productHandler.Get)
	}

	// Customer routes
	customer := apiV1.Group("")
	customer.Use(r.authMiddleware.Authenticate)
	customer.Use(r.authMiddleware.RequireRole(entity.RoleCustomer))

	meGroup := customer.Group("/me")
	{
		meGroup.GET("", r.authHandler.Profile)
		meGroup.GET("/addresses", r.addressHandler.List)
		meGroup.POST("/addresses", r.addressHandler.Add)
		meGroup.PUT("/addresses/:id", r.addressHandler.Update)
		meGroup.DELETE("/addresses/:id", r.addressHandler.Delete)
		meGroup.PUT("/addresses/:id/default", r.addressHandler.SetDefault)
	}

	cartGroup := customer.Group("/cart")
	{
		cartGroup.GET("", r.cartHandler.Get)
		cartGroup.DELETE("", r.cartHandler.Clear)
		cartGroup.POST("/validate", r.cartHandler.Validate)
		cartGroup.POST("/lines", r.cartHandler.AddLine)
		cartGroup.PUT("/lines/:lineId", r.cartHandler.UpdateLine)
		cartGroup.DELETE("/lines/:lineId", r.cartHandler.RemoveLine)
		cartGroup.POST("/lines/:lineId/accept-price", r.cartHandler.AcceptPrice)
		cartGroup.POST("/lines/:lineId/accept-stock", r.cartHandler.AcceptStock)
		cartGroup.POST("/lines/:lineId/accept-all", r.cartHandler.AcceptAll)
	}

	customer.GET("/promotions/eligible", r.promotionHandler.Eligible)

	ordersGroup := customer.Group("/orders")
	{
		ordersGroup.POST("", r.orderHandler.Place)
		ordersGroup.GET("", r.orderHandler.List)
		ordersGroup.GET("/:id", r.orderHandler.Get)
		ordersGroup.GET("/:id/qr", r.orderHandler.DeliveryQR)
	}

	// Delivery staff routes
	deliveryGroup := apiV1.Group("/delivery")
	deliveryGroup.Use(r.authMiddleware.Authenticate)
	deliveryGroup.Use(r.authMiddleware.RequireRole(entity.RoleDelivery, entity.RoleAdmin))
	{
		deliveryGroup.GET("/orders", r.orderHandler.OutForDelivery)
		deliveryGroup.POST("/orders/confirm", r.orderHandler.ConfirmDelivery)
	}

	// Admin routes
	adminGroup := apiV1.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.GET("/categories", r.categoryHandler.AdminList)
		adminGroup.POST("/categories", r.categoryHandler.Create)
		adminGroup.PUT("/categories/:id", r.categoryHandler.Update)
		adminGroup.PUT("/categories/:id/active", r.categoryHandler.SetActive)

		adminGroup.GET("/products", r.productHandler.AdminList)
		adminGroup.POST("/products", r.productHandler.Create)
		adminGroup.PUT("/products/:id", r.productHandler.Update)
		adminGroup.PUT("/products/:id/availability", r.productHandler.SetAvailability)
		adminGroup.PUT("/products/:id/promotion-eligibility", r.productHandler.SetPromotionEligibility)

		adminGroup.GET("/promotions", r.promotionHandler.List)
		adminGroup.POST("/promotions", r.promotionHandler.Create)
		adminGroup.PUT("/promotions/:id", r.promotionHandler.Update)
		adminGroup.PUT("/promotions/:id/active", r.promotionHandler.SetActive)

		adminGroup.GET("/orders", r.orderHandler.AdminList)
		adminGroup.PUT("/orders/:id/status", r.orderHandler.UpdateStatus)

		adminGroup.GET("/users", r.userHandler.List)
		adminGroup.POST("/users", r.userHandler.CreateStaff)
	}
}
