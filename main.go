package main

import (
	"log"
	"net/http"

	"kotd-tracker/internal/api"
	"kotd-tracker/internal/config"
	"kotd-tracker/internal/database"
	"kotd-tracker/internal/services"
	"kotd-tracker/internal/snapshot"
	"kotd-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	store := snapshot.NewStore(storage.NewGormStore(db))
	fetcher := services.NewRedditFetcher(cfg.SourcePostURL)
	ingest := services.NewIngestService(fetcher, store)

	hub := api.NewHub()
	ingest.SetNotifier(hub)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Live ingest notifications
	r.GET("/ws", hub.ServeWS)

	// API routes
	apiGroup := r.Group("/api/v1")
	api.SetupRoutes(apiGroup, store, ingest)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
