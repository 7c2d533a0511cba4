package analytics

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
	reports := rg.Group("/admin/reports")
	reports.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
	{
		reports.GET("/summary", r.controller.GetRevenueSummary)
		reports.GET("/movies", r.controller.GetMovieRevenue)
		reports.GET("/daily", r.controller.GetDailyBookingStats)
	}
}
