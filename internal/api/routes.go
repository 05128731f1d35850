package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relay_chat/internal/api/handlers"
	"relay_chat/internal/middleware"
	"relay_chat/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services, historyLimit int) {
	authHandler := handlers.NewAuthHandler(services.User)
	messageHandler := handlers.NewMessageHandler(services.Message, historyLimit)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocket)

	api := r.Group("/api")

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
		})
	})

	// Public routes
	{
		api.POST("/signup", authHandler.Signup)
		api.POST("/login", authHandler.Login)

		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})
	}

	// Authenticated REST routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware())
	{
		authorized.GET("/messages", messageHandler.Recent)
	}

	// The websocket handshake carries its own token; the session manager
	// rejects unauthenticated connections itself.
	r.GET("/ws", wsHandler.HandleWebSocket)
}
