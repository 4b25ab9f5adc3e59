package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"doctutor/internal/adapter"
	"doctutor/internal/adapter/embedding"
	"doctutor/internal/adapter/textgen"
	"doctutor/internal/config"
	"doctutor/internal/domain"
	"doctutor/internal/extract"
	"doctutor/internal/handler"
	"doctutor/internal/index"
	"doctutor/internal/logger"
	"doctutor/internal/middleware"
	"doctutor/internal/repository"
	"doctutor/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Embedding service per configured provider
	var embeddingService domain.EmbeddingService
	switch cfg.Embedding.Source {
	case "ollama":
		appLogger.Info("Initializing Ollama Embedding Service",
			zap.String("server_url", cfg.Embedding.Ollama.ServerURL),
			zap.String("model", cfg.Embedding.Ollama.Model))
		embeddingService, err = embedding.NewOllamaEmbeddingService(cfg.Embedding.Ollama.ServerURL, cfg.Embedding.Ollama.Model)
	case "openai":
		appLogger.Info("Initializing OpenAI Embedding Service",
			zap.String("model", cfg.Embedding.OpenAI.Model))
		embeddingService, err = embedding.NewOpenAIEmbeddingService(cfg.Embedding.OpenAI.APIKey, cfg.Embedding.OpenAI.Model)
	}
	if err != nil {
		appLogger.Fatal("Failed to create embedding service", zap.Error(err))
	}

	// Optional Redis-backed embedding cache
	if cfg.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
		cached, err := embedding.NewCachedEmbeddingService(
			embeddingService, cacheAdapter, cfg.Embedding.Source, cfg.CacheTTLs.Embedding)
		if err != nil {
			appLogger.Fatal("Failed to create cached embedding service", zap.Error(err))
		}
		embeddingService = cached
		appLogger.Info("Embedding cache enabled", zap.String("redis", cfg.Redis.Address))
	}

	// Text-generation service per configured provider
	var generator domain.TextGenerator
	switch cfg.LLM.Source {
	case "ollama":
		appLogger.Info("Initializing Ollama text generator",
			zap.String("server_url", cfg.LLM.Ollama.ServerURL),
			zap.String("model", cfg.LLM.Ollama.Model))
		generator, err = textgen.NewOllamaGenerator(cfg.LLM.Ollama.ServerURL, cfg.LLM.Ollama.Model, cfg.LLM.Timeout)
	case "openai":
		appLogger.Info("Initializing OpenAI text generator",
			zap.String("model", cfg.LLM.OpenAI.Model))
		generator, err = textgen.NewOpenAIGenerator(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model, cfg.LLM.Timeout)
	}
	if err != nil {
		appLogger.Fatal("Failed to create text generator", zap.Error(err))
	}

	// Stores and index manager
	documentStore, err := repository.NewDocumentStore(cfg.Storage.UploadDir, cfg.Storage.OutputDir)
	if err != nil {
		appLogger.Fatal("Failed to create document store", zap.Error(err))
	}
	quizStore, err := repository.NewQuizStore(cfg.Storage.OutputDir)
	if err != nil {
		appLogger.Fatal("Failed to create quiz store", zap.Error(err))
	}
	indexManager, err := index.NewManager(cfg.Storage.OutputDir, embeddingService, index.NewChunker(5, 1))
	if err != nil {
		appLogger.Fatal("Failed to create index manager", zap.Error(err))
	}

	// Services
	documentService := service.NewDocumentService(documentStore, extract.NewExtractor(), indexManager)
	answerService := service.NewAnswerService(indexManager, generator)
	quizService := service.NewQuizService(documentStore, quizStore, generator)
	explanationService := service.NewExplanationService(generator)

	// Handlers
	documentHandler := handler.NewDocumentHandler(documentService)
	qaHandler := handler.NewQAHandler(answerService, explanationService)
	quizHandler := handler.NewQuizHandler(quizService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
		BodyLimit:    50 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestLogger())

	api := app.Group("/api")

	docs := api.Group("/documents")
	docs.Post("/upload", documentHandler.Upload)
	docs.Get("/", documentHandler.List)
	docs.Get("/:id", documentHandler.Get)
	docs.Delete("/:id", documentHandler.Delete)
	docs.Get("/:id/quizzes", quizHandler.ListForDocument)

	qa := api.Group("/qa")
	qa.Post("/ask", qaHandler.Ask)
	qa.Post("/chat", qaHandler.Chat)

	api.Post("/explanation/concept", qaHandler.ExplainConcept)

	quiz := api.Group("/quiz")
	quiz.Post("/generate", quizHandler.Generate)
	quiz.Get("/:id", quizHandler.Get)
	quiz.Post("/:id/submit", quizHandler.Submit)

	api.Get("/quizzes", quizHandler.ListAll)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		appLogger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			appLogger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	appLogger.Info("Starting server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		appLogger.Fatal("Server stopped unexpectedly", zap.Error(err))
	}
}
