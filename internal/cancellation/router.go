package cancellation

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
		bookings.POST("/:id/cancel", r.controller.CancelBooking)
		bookings.GET("/:id/refund-quote", r.controller.GetRefundQuote)
		bookings.GET("/:id/cancellation", r.controller.GetCancellation)
	}
}
