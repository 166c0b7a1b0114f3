package routes

import (
	"github.com/Kariqs/mebel-api/controllers"
	"github.com/Kariqs/mebel-api/middlewares"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	server.GET("/product/:productId", h.GetProduct)

	products := server.Group("/products")
	{
		products.GET("", h.GetProducts)
		products.GET("/attributes", h.GetAttributes)
		products.GET("/attributes/subcategory/:subcategoryId", h.GetAttributesBySubcategory)
		products.GET("/:subcategoryId", h.GetProductsBySubcategory)

		admin := products.Group("", requireAuth, middlewares.RequireAdmin())
		admin.POST("/add", h.CreateProduct)
		admin.PUT("/edit/:productId", h.EditProduct)
		admin.DELETE("/:productId", h.DeleteProduct)
	}
}
