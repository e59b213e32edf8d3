package main

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "storefront/docs"
	"storefront/internal/auth"
	"storefront/internal/httpx"
	"storefront/internal/order"
	"storefront/internal/product"
	"storefront/internal/user"
)

func newRouter(tokens *auth.TokenService, users user.Repository, orders order.Repository, products product.Repository) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World!")
	})
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	guard := auth.Required(tokens)

	// account
	r.POST("/signup", signUpHandler(users, tokens))
	r.POST("/signin", signInHandler(users, tokens))
	r.POST("/users", guard, createUserHandler(users))
	r.GET("/users", guard, listUsersHandler(users))
	r.GET("/users/:id", guard, showUserHandler(users))
	r.PUT("/users/:id", guard, updateUserHandler(users))
	r.DELETE("/users/:id", guard, deleteUserHandler(users))

	// orders
	r.GET("/orders", guard, listOrdersHandler(orders))
	r.POST("/orders", guard, createOrderHandler(orders))
	r.GET("/orders/:id", guard, getOrderHandler(orders))
	r.PUT("/orders/:id", guard, updateOrderHandler(orders))
	r.DELETE("/orders/:id", guard, deleteOrderHandler(orders))
	r.POST("/orders/:id/products", guard, addOrderProductHandler(orders))
	r.GET("/orders/:id/products", guard, showOrderProductHandler(orders))
	r.DELETE("/orders/:id/products", guard, deleteOrderProductHandler(orders))

	// catalog
	r.GET("/products", listProductsHandler(products))
	r.GET("/products/:id", getProductHandler(products))
	r.GET("/top_products", topProductsHandler(products))
	r.POST("/products", guard, createProductHandler(products))
	r.PUT("/products/:id", guard, updateProductHandler(products))
	r.DELETE("/products/:id", guard, deleteProductHandler(products))

	return r
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}
