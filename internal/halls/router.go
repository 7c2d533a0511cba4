package halls

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
	admin := rg.Group("/admin/halls")
	admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
	{
		admin.POST("", r.controller.CreateHall)
		admin.GET("", r.controller.ListHalls)
		admin.GET("/:id", r.controller.GetHall)
		admin.DELETE("/:id", r.controller.DeleteHall)
	}
}
