package users

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
	me := rg.Group("/users")
	me.Use(middleware.JWTAuthWithConfig(r.config))
	{
		me.GET("/me", r.controller.GetMe)
		me.PUT("/me", r.controller.UpdateMe)
	}

	admin := rg.Group("/admin/users")
	admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
	{
		admin.GET("", r.controller.ListUsers)
	}
}
