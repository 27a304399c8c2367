package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"valuator/internal/config"
	"valuator/internal/dialogue"
	"valuator/internal/handler"
	"valuator/internal/rates"
	"valuator/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("Collateral Valuation Assistant")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Load the rate-table snapshot
	var provider rates.Provider
	switch cfg.Rates.Source {
	case "postgres":
		provider, err = rates.NewPostgresProvider(
			cfg.GetRatesDSN(),
			cfg.Rates.MaxConnections,
			cfg.Rates.MaxIdleConnections,
		)
		if err != nil {
			log.Fatalf("Failed to load rate tables from PostgreSQL: %v", err)
		}
		log.Println("✅ Rate tables loaded from PostgreSQL")
	case "static":
		provider, err = rates.NewStaticProvider()
		if err != nil {
			log.Fatalf("Failed to load embedded rate tables: %v", err)
		}
		log.Println("✅ Rate tables loaded from embedded snapshot")
	default:
		log.Fatalf("Unknown RATES_SOURCE %q (expected static or postgres)", cfg.Rates.Source)
	}

	// Initialize the optional slot extractor
	var extractor *service.ExtractorClient
	if cfg.OpenAI.Enabled {
		extractor = service.NewExtractorClient(&cfg.OpenAI)
		log.Printf("✅ Slot extractor initialized")
		log.Printf("   - API Base: %s", cfg.OpenAI.APIBase)
		log.Printf("   - Chat model: %s", cfg.OpenAI.ChatModel)
	} else {
		log.Println("⚠️  Slot extractor is disabled - only structured answers are understood")
		log.Println("   Set OPENAI_API_KEY environment variable to enable it")
	}

	// Initialize services
	machine := dialogue.NewMachine(provider)
	sessionService := service.NewSessionService(machine, extractor)

	log.Println("✅ Services initialized")

	// Initialize handlers
	sessionHandler := handler.NewSessionHandler(sessionService)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "collateral-valuation-assistant",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/sessions", sessionHandler.Create)
		apiV1.POST("/sessions/:id/messages", sessionHandler.PostMessage)
		apiV1.GET("/sessions/:id/transcript", sessionHandler.GetTranscript)
		apiV1.POST("/sessions/:id/reset", sessionHandler.Reset)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API base: http://localhost:%d/api/v1", cfg.Server.Port)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
