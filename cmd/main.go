package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/noteable-backend/internal/clients/calendar"
	"github.com/yungbote/noteable-backend/internal/clients/openai"
	"github.com/yungbote/noteable-backend/internal/clients/speech"
	"github.com/yungbote/noteable-backend/internal/db"
	"github.com/yungbote/noteable-backend/internal/extract"
	"github.com/yungbote/noteable-backend/internal/handlers"
	"github.com/yungbote/noteable-backend/internal/localstore"
	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/observability"
	"github.com/yungbote/noteable-backend/internal/rag"
	"github.com/yungbote/noteable-backend/internal/repos"
	"github.com/yungbote/noteable-backend/internal/server"
	"github.com/yungbote/noteable-backend/internal/services"
	"github.com/yungbote/noteable-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "noteable-backend",
		Environment: logMode,
	})
	defer func() { _ = shutdownOtel(context.Background()) }()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Warn("Postgres init failed, running on local store only", "error", err)
	}
	if postgresService != nil {
		if err := postgresService.AutoMigrateAll(); err != nil {
			log.Warn("Postgres auto migration failed", "error", err)
		}
	}

	// Local fallback store
	localPath := utils.GetEnv("LOCAL_STORE_PATH", "noteable_local.db", log)
	localStore, err := localstore.New(log, localPath)
	if err != nil {
		log.Error("Could not init local store", "error", err)
		os.Exit(1)
	}

	// Repos
	log.Info("Setting up repos from main...")
	var noteRepo repos.NoteRepo
	if postgresService != nil {
		noteRepo = repos.NewNoteRepo(postgresService.DB(), log)
	} else {
		noteRepo = repos.NewUnavailableNoteRepo()
	}

	// Extraction
	extractCfg, err := extract.LoadConfig(os.Getenv("EXTRACT_CONFIG_PATH"))
	if err != nil {
		log.Error("Could not load extraction config", "error", err)
		os.Exit(1)
	}
	extractor, err := extract.NewRuleExtractor(log, extractCfg)
	if err != nil {
		log.Error("Could not init extractor", "error", err)
		os.Exit(1)
	}
	searcher := rag.NewSearcher(log)

	// Clients
	log.Info("Setting up clients from main...")
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAIClient", "error", err)
		os.Exit(1)
	}
	var googleTranscriber speech.Transcriber
	if os.Getenv("GOOGLE_SPEECH_ENABLED") == "true" {
		googleTranscriber, err = speech.NewGoogleTranscriber(log)
		if err != nil {
			log.Warn("Could not init Google transcriber, whisper only", "error", err)
		}
	}
	var calendarClient calendar.Client
	if os.Getenv("CALENDAR_API_URL") != "" {
		calendarClient, err = calendar.NewFromEnv(log)
		if err != nil {
			log.Warn("Could not init calendar client, reminders stay in-app", "error", err)
		}
	}

	// Link cache: shared via redis when available, per-process otherwise.
	var linkCache services.LinkCache
	if os.Getenv("REDIS_ADDR") != "" {
		linkCache, err = services.NewRedisLinkCache(log)
		if err != nil {
			log.Warn("Could not init redis link cache, using memory", "error", err)
		}
	}
	if linkCache == nil {
		linkCache = services.NewMemoryLinkCache()
	}

	// Services
	log.Info("Setting up services from main...")
	noteService := services.NewNoteService(log, noteRepo, localStore, extractor, searcher, calendarClient)
	linkService := services.NewEntityLinkService(log, openaiClient, linkCache)
	chatService := services.NewChatService(log, openaiClient, noteService, searcher)
	transcriptionService := services.NewTranscriptionService(log, openaiClient, googleTranscriber)

	// Handlers
	log.Info("Setting up handlers from main...")
	noteHandler := handlers.NewNoteHandler(log, noteService)
	linkHandler := handlers.NewLinkHandler(log, noteService, linkService)
	chatHandler := handlers.NewChatHandler(log, chatService)
	transcribeHandler := handlers.NewTranscribeHandler(log, transcriptionService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		NoteHandler:       noteHandler,
		LinkHandler:       linkHandler,
		ChatHandler:       chatHandler,
		TranscribeHandler: transcribeHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
