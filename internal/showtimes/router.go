package showtimes

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
	public := rg.Group("/showtimes")
	public.Use(middleware.OptionalAuthWithConfig(r.config))
	{
		public.GET("", r.controller.ListShowtimes)
		public.GET("/:id", r.controller.GetShowtime)
	}

	admin := rg.Group("/admin/showtimes")
	admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
	{
		admin.POST("", r.controller.CreateShowtime)
		admin.PUT("/:id", r.controller.UpdateShowtime)
		admin.DELETE("/:id", r.controller.DeleteShowtime)
	}
}
