package routes

import (
	"github.com/Kariqs/mebel-api/controllers"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	cart := server.Group("/cart", requireAuth)
	{
		cart.POST("/add", h.AddToCart)
		cart.GET("/:userId", h.GetCart)
		cart.DELETE("/remove/:itemId", h.RemoveFromCart)
		cart.DELETE("/clear", h.ClearCart)
		cart.PUT("/update/:itemId", h.UpdateCartItem)
	}
}
