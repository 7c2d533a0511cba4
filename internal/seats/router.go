package seats

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
	rg.GET("/showtimes/:id/seats", r.controller.GetShowtimeSeats)

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
	{
		admin.GET("/halls/:id/seats", r.controller.GetHallSeats)
		admin.PUT("/seats/:id", r.controller.UpdateSeatType)
	}
}
