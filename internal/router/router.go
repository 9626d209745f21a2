package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/habitloop-dev/habitloop/internal/handlers"
	"github.com/habitloop-dev/habitloop/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		// Content hierarchy, read-only
		api.GET("/categories", handlers.ListCategories)
		api.GET("/goals", handlers.ListGoals)
		api.GET("/actions", handlers.ListActions)

		users := api.Group("/users/:user_id")
		{
			users.GET("/feed", handlers.Feed)

			users.POST("/actions", handlers.SelectAction)
			users.GET("/actions", handlers.ListUserActions)
			users.POST("/actions/:useraction_id/complete", handlers.CompleteUserAction)

			users.GET("/actions/:useraction_id/trigger", handlers.GetTrigger)
			users.PUT("/actions/:useraction_id/trigger", handlers.UpdateTrigger)
			users.DELETE("/actions/:useraction_id/trigger", handlers.DeleteTrigger)
		}
	}

	return r
}
