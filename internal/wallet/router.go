package wallet

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
	rg.GET("/wallet", middleware.JWTAuthWithConfig(r.config), r.controller.GetWallet)

	admin := rg.Group("/admin/users")
	admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
	{
		admin.POST("/:id/wallet/top-up", r.controller.TopUp)
	}
}
