package routes

import (
	"github.com/Kariqs/mebel-api/controllers"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	auth := server.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", requireAuth, h.Me)
		auth.POST("/verify-email/:code", h.VerifyEmail)
	}
}
