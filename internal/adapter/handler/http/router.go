package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/zishop/zishop/internal/adapter/config"
	"github.com/zishop/zishop/internal/adapter/metrics"
	"github.com/zishop/zishop/internal/core/domain"
	"github.com/zishop/zishop/internal/core/port"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	serverMetrics *metrics.ServerMetrics,
	orderHandler *OrderHandler,
	userHandler *UserHandler) (*Router, error) {

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(serverMetrics.Middleware())

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		user := api.Group("/user")
		{
			user.POST("/register", userHandler.RegisterUser)
			user.POST("/login", userHandler.LoginUser)
		}

		orders := api.Group("/orders")
		{
			orders.Use(authCheck(tokenService))
			orders.POST("", requireRole(domain.RoleClient), orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:number", orderHandler.GetOrder)
			orders.PATCH("/:number/status", orderHandler.UpdateStatus)
			orders.PATCH("/:number/estimate", requireRole(domain.RoleMerchant), orderHandler.UpdateEstimate)
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
