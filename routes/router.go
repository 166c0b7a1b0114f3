package routes

import (
	"time"

	"github.com/Kariqs/mebel-api/controllers"
	"github.com/Kariqs/mebel-api/middlewares"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Options struct {
	CORSOrigins []string
	// UploadDir is served under /uploads when images are stored locally.
	UploadDir string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// NewServer builds the gin engine with every route group registered.
func NewServer(h *controllers.Handler, opts Options) *gin.Engine {
	server := gin.Default()
	server.Use(cors.New(corsConfig(opts.CORSOrigins)))

	requireAuth := middlewares.RequireAuth(h.Auth)

	DefaultRoutes(server)
	AuthRoutes(server, h, requireAuth)
	ProductRoutes(server, h, requireAuth)
	CategoryRoutes(server, h)
	CartRoutes(server, h, requireAuth)
	OrderRoutes(server, h, requireAuth)
	UserRoutes(server, h, requireAuth)
	AdminRoutes(server, h, requireAuth)
	UploadRoutes(server, h, requireAuth, opts.UploadDir)
	return server
}
