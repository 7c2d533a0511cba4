// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"cinebook/docs"
	"cinebook/internal/analytics"
	"cinebook/internal/auth"
	"cinebook/internal/bookings"
	"cinebook/internal/cancellation"
	"cinebook/internal/halls"
	"cinebook/internal/movies"
	"cinebook/internal/seats"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/showtimes"
	"cinebook/internal/users"
	"cinebook/internal/wallet"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	services *Services
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, services *Services) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		services: services,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	r.setupDocsRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAccountRoutes(api)
		r.setupCatalogRoutes(api)
		r.setupBookingRoutes(api)
		analytics.NewRouter(analytics.NewController(r.services.Analytics), r.config).SetupRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinebook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinebook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

func (r *Router) setupDocsRoutes(engine *gin.Engine) {
	docs.SwaggerInfo.Version = r.config.APIVersion
	docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// setupAccountRoutes covers sign-up, login, profile and wallet
func (r *Router) setupAccountRoutes(rg *gin.RouterGroup) {
	auth.NewRouter(auth.NewController(r.services.Auth), r.config).SetupRoutes(rg)
	users.NewRouter(users.NewController(r.services.Users), r.config).SetupRoutes(rg)
	wallet.NewRouter(wallet.NewController(r.services.Wallet), r.config).SetupRoutes(rg)
}

// setupCatalogRoutes covers movies, halls, seats and showtimes
func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	movies.NewRouter(movies.NewController(r.services.Movies), r.config).SetupRoutes(rg)
	halls.NewRouter(halls.NewController(r.services.Halls), r.config).SetupRoutes(rg)
	showtimes.NewRouter(showtimes.NewController(r.services.Showtimes), r.config).SetupRoutes(rg)
	seats.NewRouter(seats.NewController(r.services.Seats), r.config).SetupRoutes(rg)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookings.NewRouter(bookings.NewController(r.services.Bookings), r.config).SetupRoutes(rg)
	cancellation.NewRouter(cancellation.NewController(r.services.Cancellation), r.config).SetupRoutes(rg)
}
