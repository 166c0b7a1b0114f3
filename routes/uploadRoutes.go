package routes

import (
	"github.com/Kariqs/mebel-api/controllers"
	"github.com/gin-gonic/gin"
)

func UploadRoutes(server *gin.Engine, h *controllers.Handler, requireAuth gin.HandlerFunc, uploadDir string) {
	server.POST("/upload", requireAuth, h.UploadImages)
	if uploadDir != "" {
		server.Static("/uploads", uploadDir)
	}
}
