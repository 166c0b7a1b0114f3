package routes

import (
	"github.com/Kariqs/mebel-api/controllers"
	"github.com/gin-gonic/gin"
)

func CategoryRoutes(server *gin.Engine, h *controllers.Handler) {
	server.GET("/category/", h.GetCategories)
	server.GET("/subcategory/", h.GetSubcategories)
	server.GET("/subcategory/:categoryId/subcategories", h.GetSubcategoriesByCategory)
}
