package routes

import (
	"github.com/Kariqs/mebel-api/controllers"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	orders := server.Group("/orders", requireAuth)
	{
		orders.POST("/create", h.CreateOrder)
		orders.GET("/my", h.GetMyOrders)
		orders.GET("/order/:id", h.GetOrderById)
	}
}
