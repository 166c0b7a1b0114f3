package routes

import (
	"github.com/Kariqs/mebel-api/controllers"
	"github.com/gin-gonic/gin"
)

func UserRoutes(server *gin.Engine, h *controllers.Handler, requireAuth gin.HandlerFunc) {
	profile := server.Group("/user/profile", requireAuth)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("/address", h.UpdateAddress)
		profile.PUT("/phone", h.UpdatePhone)
	}
}
