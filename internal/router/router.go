package router

import (
	"time"

	"github.com/campforge-dev/campforge/internal/auth"
	"github.com/campforge-dev/campforge/internal/handlers"
	"github.com/campforge-dev/campforge/internal/middleware"
	"github.com/campforge-dev/campforge/internal/types"
	"github.com/campforge-dev/campforge/internal/ws"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(hub *ws.Hub, verifier auth.Verifier) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := handlers.New(hub, verifier)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.POST("/auth/google", h.GoogleLogin)
		api.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		api.POST("/logout", handlers.Logout)

		api.GET("/ws", middleware.AuthMiddleware(), h.WebSocket)

		campaigns := api.Group("/campaigns", middleware.AuthMiddleware())
		{
			campaigns.GET("", h.ListCampaigns)
			campaigns.POST("", h.CreateCampaign)
			campaigns.POST("/join", h.JoinCampaign)

			campaigns.GET("/:campaign_id/messages", h.ListMessages)
			campaigns.POST("/:campaign_id/messages", h.CreateMessage)
			campaigns.POST("/:campaign_id/roll", h.Roll)

			campaigns.GET("/:campaign_id/characters", h.ListCharacters)
			campaigns.POST("/:campaign_id/characters", h.CreateCharacter)

			campaigns.GET("/:campaign_id/settings", h.GetSettings)
			campaigns.PUT("/:campaign_id/settings", h.UpdateSettings)
			campaigns.POST("/:campaign_id/invite/regenerate", h.RegenerateInvite)
		}

		characters := api.Group("/characters", middleware.AuthMiddleware())
		{
			characters.GET("/:character_id", h.GetCharacter)
			characters.PUT("/:character_id", h.UpdateCharacter)
		}

		ooc := api.Group("/ooc", middleware.AuthMiddleware())
		{
			ooc.GET("/messages", h.ListOOCMessages)
			ooc.POST("/messages", h.CreateOOCMessage)
		}
	}

	return r
}
