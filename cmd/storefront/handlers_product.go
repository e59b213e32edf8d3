package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/httpx"
	"storefront/internal/product"
)

func listProductsHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := products.Index(c.Request.Context())
		if err != nil {
			log.Printf("[product] index: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Products not found")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func getProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "Product not found")
			return
		}
		p, err := products.Show(c.Request.Context(), id)
		if err != nil {
			log.Printf("[product] show: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Product not found")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// createProductHandler godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param product body product.CreateProduct true "new product"
// @Security BearerAuth
// @Success 200 {object} product.Product
// @Failure 400 {object} httpx.HTTPError
// @Router /products [post]
func createProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in product.CreateProduct
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, http.StatusBadRequest, "Product not created")
			return
		}
		if in.Name == "" || in.Price == "" {
			httpx.Error(c, http.StatusBadRequest, "Product not created")
			return
		}
		p, err := products.Create(c.Request.Context(), in)
		if err != nil {
			log.Printf("[product] create: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Product not created")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func updateProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "Product not updated")
			return
		}
		var in product.UpdateProduct
		if err := c.ShouldBindJSON(&in); err != nil {
			httpx.Error(c, http.StatusBadRequest, "Product not updated")
			return
		}
		in.ID = id
		p, err := products.Update(c.Request.Context(), in)
		if err != nil {
			log.Printf("[product] update: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Product not updated")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			httpx.Error(c, http.StatusBadRequest, "Product not deleted")
			return
		}
		p, err := products.Delete(c.Request.Context(), id)
		if err != nil {
			log.Printf("[product] delete: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Product not deleted")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// topProductsHandler godoc
// @Summary Top five products by total quantity sold
// @Tags products
// @Produce json
// @Success 200 {array} product.TopProduct
// @Failure 400 {object} httpx.HTTPError
// @Router /top_products [get]
func topProductsHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := products.TopProducts(c.Request.Context())
		if err != nil {
			log.Printf("[product] top: %v", err)
			httpx.Error(c, http.StatusBadRequest, "Products not found")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
