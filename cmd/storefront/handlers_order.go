package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/httpx"
	"storefront/internal/order"
)

// createOrderHandler godoc
// @Summary Create an order for the authenticated user
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} order.Order
// @Failure 400 {object} httpx.HTTPError
// @Router /orders [post]
func createOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&in); err != nil || in.Status == "" {
			httpx.Error(c, http.StatusBadRequest, "Order not created")
			return
		}
		// the owner is always the verified token identity, never the body
		ident, ok := auth.FromContext(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "Order not created")
			return
		}
		o, err := orders.Create(c.Request.Context(), in.Status, ident.ID)
		if err != nil {
			log.Printf("[order] create: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Order not created")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func listOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := orders.Index(c.Request.Context())
		if err != nil {
			log.Printf("[order] index: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Orders not found")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// getOrderHandler godoc
// @Summary Retrieve an order by id
// @Tags orders
// @Produce json
// @Param id path int true "order id"
// @Security BearerAuth
// @Success 200 {object} order.Order
// @Failure 400 {object} httpx.HTTPError
// @Router /orders/{id} [get]
func getOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "Order not found")
			return
		}
		o, err := orders.Show(c.Request.Context(), id)
		if err != nil {
			log.Printf("[order] show: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Order not found")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func updateOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "Order not updated")
			return
		}
		var in struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&in); err != nil || in.Status == "" {
			httpx.Error(c, http.StatusBadRequest, "Order not updated")
			return
		}
		o, err := orders.Update(c.Request.Context(), id, in.Status)
		if err != nil {
			log.Printf("[order] update: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Order not updated")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func deleteOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "Order not deleted")
			return
		}
		o, err := orders.Delete(c.Request.Context(), id)
		if err != nil {
			log.Printf("[order] delete: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Order not deleted")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// addOrderProductHandler godoc
// @Summary Attach a quantity of a product to an order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "order id"
// @Security BearerAuth
// @Success 200 {object} order.LineItem
// @Failure 400 {object} httpx.HTTPError
// @Router /orders/{id}/products [post]
func addOrderProductHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := pathID(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "Product not added to order")
			return
		}
		var in struct {
			ProductID int64 `json:"productId"`
			Quantity  int   `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, http.StatusBadRequest, "Product not added to order")
			return
		}
		it, err := orders.AddLineItem(c.Request.Context(), order.LineItem{
			OrderID:   orderID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
		})
		if err != nil {
			log.Printf("[order] add product: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Product not added to order")
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

// The :id of the two handlers below is the line-item id. The store operates
// on line items by their own id even though the route is order-scoped.
func showOrderProductHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "Order not found")
			return
		}
		it, err := orders.LineItem(c.Request.Context(), id)
		if err != nil {
			log.Printf("[order] show detail: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Order not found")
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

func deleteOrderProductHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "Product not deleted from order")
			return
		}
		it, err := orders.DeleteLineItem(c.Request.Context(), id)
		if err != nil {
			log.Printf("[order] delete detail: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Product not deleted from order")
			return
		}
		c.JSON(http.StatusOK, it)
	}
}
