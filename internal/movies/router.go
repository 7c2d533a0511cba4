package movies

import (
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{controller: controller, config: cfg}
}

func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	public := rg.Group("/movies")
	{
		public.GET("", r.controller.ListMovies)
		public.GET("/:id", r.controller.GetMovie)
	}

	admin := rg.Group("/admin/movies")
	admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
	{
		admin.POST("", r.controller.CreateMovie)
		admin.PUT("/:id", r.controller.UpdateMovie)
		admin.DELETE("/:id", r.controller.DeleteMovie)
	}
}
