package bookings

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
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(r.config))
	{
		bookings.POST("", r.controller.CreateBooking)
		bookings.GET("", r.controller.ListMyBookings)
		bookings.GET("/:id", r.controller.GetBooking)
		bookings.GET("/:id/qr", r.controller.GetTicketQR)
	}

	admin := rg.Group("/admin/bookings")
	admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
	{
		admin.GET("", r.controller.ListBookings)
	}
}
