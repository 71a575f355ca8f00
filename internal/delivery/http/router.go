package http

import (
	"github.com/gin-gonic/gin"

	"github.com/milanapp/milan-backend/internal/delivery/http/handler"
	"github.com/milanapp/milan-backend/internal/delivery/http/middleware"
	"github.com/milanapp/milan-backend/internal/infrastructure/realtime"
)

type Router struct {
	authHandler      *handler.AuthHandler
	profileHandler   *handler.ProfileHandler
	discoveryHandler *handler.DiscoveryHandler
	matchHandler     *handler.MatchHandler
	chatHandler      *handler.ChatHandler
	configHandler    *handler.ConfigHandler
	authMiddleware   *middleware.AuthMiddleware
	socketServer     *realtime.Server
}

func NewRouter(
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	discoveryHandler *handler.DiscoveryHandler,
	matchHandler *handler.MatchHandler,
	chatHandler *handler.ChatHandler,
	configHandler *handler.ConfigHandler,
	authMiddleware *middleware.AuthMiddleware,
	socketServer *realtime.Server,
) *Router {
	return &Router{
		authHandler:      authHandler,
		profileHandler:   profileHandler,
		discoveryHandler: discoveryHandler,
		matchHandler:     matchHandler,
		chatHandler:      chatHandler,
		configHandler:    configHandler,
		authMiddleware:   authMiddleware,
		socketServer:     socketServer,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// Socket.io transport for realtime chat and match events
	router.GET("/socket.io/*any", gin.WrapH(r.socketServer.IO()))
	router.POST("/socket.io/*any", gin.WrapH(r.socketServer.IO()))

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/request-otp", r.authHandler.RequestOTP)
			auth.POST("/verify-otp", r.authHandler.VerifyOTP)
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/check-user", r.authHandler.CheckUser)
		}

		// App bootstrap config (public)
		v1.GET("/config/init", r.configHandler.Init)

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Profile routes
			profile := protected.Group("/profile")
			{
				profile.GET("/me", r.profileHandler.GetMe)
				profile.PUT("/me", r.profileHandler.UpdateMe)
				profile.DELETE("/me", r.profileHandler.Delete)
				profile.POST("/premium", r.profileHandler.UpgradePremium)
				profile.POST("/push-token", r.profileHandler.UpdatePushToken)
			}

			// Discovery routes
			discovery := protected.Group("/discovery")
			{
				discovery.GET("", r.discoveryHandler.Discover)
				discovery.POST("/search", r.discoveryHandler.Search)
			}

			// Match routes
			matches := protected.Group("/matches")
			{
				matches.GET("", r.matchHandler.GetMatches)
				matches.POST("/like", r.matchHandler.Like)
				matches.POST("/reject", r.matchHandler.Reject)
				matches.GET("/likes", r.matchHandler.GetPendingLikes)
				matches.GET("/sent", r.matchHandler.GetSentLikes)
			}

			// Chat routes
			chat := protected.Group("/chat")
			{
				chat.GET("/conversations", r.chatHandler.ListConversations)
				chat.GET("/with/:user_id", r.chatHandler.GetConversation)
				chat.GET("/history/:interaction_id", r.chatHandler.GetMessages)
				chat.POST("/send", r.chatHandler.SendMessage)
				chat.POST("/read/:user_id", r.chatHandler.MarkRead)
			}
		}
	}

	return router
}
