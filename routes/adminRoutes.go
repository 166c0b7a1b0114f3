package routes

import (
	"github.com/Kariqs/mebel-api/controllers"
	"github.com/Kariqs/mebel-api/middlewares"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(server *gin.Engine, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	admin := server.Group("/admin", requireAuth, middlewares.RequireAdmin())
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUser)
		admin.PUT("/users/:id", h.UpdateUser)
		admin.DELETE("/users/:id", h.DeleteUser)

		admin.GET("/orders", h.GetOrders)
		admin.PUT("/orders/:id/status", h.UpdateOrderStatus)
		admin.GET("/orders/ws", h.OrdersFeed)

		admin.POST("/categories", h.CreateCategory)
		admin.POST("/subcategories", h.CreateSubcategory)
		admin.POST("/attributes", h.CreateAttribute)
		admin.GET("/products/export", h.ExportProducts)
	}
}
