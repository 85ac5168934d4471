package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dawat-dev/dawat/internal/handlers"
	"github.com/dawat-dev/dawat/internal/middleware"
	"github.com/dawat-dev/dawat/internal/store"
	"github.com/dawat-dev/dawat/internal/types"
)

// New wires the route table around the injected database handle, store and
// websocket hub.
func New(conn *gorm.DB, dataStore *store.Store, hub *handlers.Hub) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handlers.NewAuthHandler(conn)
	blockHandler := handlers.NewBlockHandler(dataStore, hub)
	contactHandler := handlers.NewContactHandler(dataStore, hub)
	visitHandler := handlers.NewVisitHandler(dataStore, hub)

	requireAuth := middleware.Auth(conn)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", requireAuth, hub.Serve)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/me", requireAuth, authHandler.Me)
			authGroup.PATCH("/me", requireAuth, authHandler.UpdateProfile)
			authGroup.DELETE("/me", requireAuth, authHandler.DeleteAccount)
		}

		blocks := api.Group("/blocks", requireAuth)
		{
			blocks.GET("", blockHandler.List)
			blocks.POST("", blockHandler.Create)
			blocks.GET("/:block_id", blockHandler.Get)
			blocks.PATCH("/:block_id", blockHandler.Update)
			blocks.DELETE("/:block_id", blockHandler.Delete)
			blocks.GET("/:block_id/stats", blockHandler.Stats)
		}

		contacts := api.Group("/contacts", requireAuth)
		{
			contacts.GET("", contactHandler.List)
			contacts.POST("", contactHandler.Create)
			contacts.GET("/stats", contactHandler.Stats)
			contacts.GET("/:contact_id", contactHandler.Get)
			contacts.PATCH("/:contact_id", contactHandler.Update)
			contacts.DELETE("/:contact_id", contactHandler.Delete)
		}

		visits := api.Group("/visits", requireAuth)
		{
			visits.GET("", visitHandler.List)
			visits.POST("", visitHandler.Create)
			visits.GET("/follow-ups", visitHandler.FollowUps)
			visits.GET("/recent", visitHandler.Recent)
			visits.GET("/:visit_id", visitHandler.Get)
			visits.PATCH("/:visit_id", visitHandler.Update)
			visits.DELETE("/:visit_id", visitHandler.Delete)
		}
	}

	return r
}
