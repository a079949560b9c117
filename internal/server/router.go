package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/noteable-backend/internal/handlers"
	"github.com/yungbote/noteable-backend/internal/middleware"
)

type RouterConfig struct {
	NoteHandler       *handlers.NoteHandler
	LinkHandler       *handlers.LinkHandler
	ChatHandler       *handlers.ChatHandler
	TranscribeHandler *handlers.TranscribeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware("noteable-backend"))

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:19006",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/notes", cfg.NoteHandler.List)
		api.POST("/notes", cfg.NoteHandler.Create)
		api.POST("/notes/search", cfg.NoteHandler.Search)
		api.GET("/notes/:id", cfg.NoteHandler.Get)
		api.PUT("/notes/:id", cfg.NoteHandler.Update)
		api.DELETE("/notes/:id", cfg.NoteHandler.Delete)
		api.GET("/notes/:id/links", cfg.LinkHandler.GetForNote)
		api.POST("/links/refresh", cfg.LinkHandler.Refresh)
		api.POST("/chat", cfg.ChatHandler.Send)
		api.GET("/chat/history", cfg.ChatHandler.History)
		api.POST("/transcribe", cfg.TranscribeHandler.Transcribe)
	}

	return router
}
