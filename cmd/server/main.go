package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"land-document-service/internal/audit"
	"land-document-service/internal/config"
	"land-document-service/internal/db"
	"land-document-service/internal/docversion"
	"land-document-service/internal/middleware"
	"land-document-service/internal/review"
	"land-document-service/internal/slot"
	"land-document-service/internal/worker"
	"land-document-service/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Connect to database
	db.ConnectDb()
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	// Initialize Redis
	redis.InitRedis(config.AppConfig.RedisAddress)
	cache := redis.NewCache(redis.RedisClient)

	// Background workers for cache population
	pool := worker.NewPool(config.AppConfig.WorkerCount, 1000)
	defer pool.Shutdown()

	// Initialize repositories
	recorder := audit.NewRecorder()
	versionRepo := docversion.NewRepository(db.AppDb, recorder)
	reviewRepo := review.NewRepository(db.AppDb, recorder)
	auditRepo := audit.NewRepository(db.AppDb)

	// Initialize services
	allocator := slot.NewAllocator(config.AppConfig.TwoSlotDocTypes)
	versionService := docversion.NewService(versionRepo, allocator, cache, pool, config.AppConfig.CacheTTL)
	reviewService := review.NewService(reviewRepo, cache)
	auditService := audit.NewService(auditRepo)

	// Initialize handlers
	versionHandler := docversion.NewHandler(versionService)
	reviewHandler := review.NewHandler(reviewService)
	auditHandler := audit.NewHandler(auditService)

	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Actor-Id", "X-Actor-Role"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	authMiddleware := &middleware.Auth{
		JWTSecret:      config.AppConfig.JWTSecret,
		InternalSecret: config.AppConfig.InternalSecret,
	}
	authed := authMiddleware.AuthMiddleware()

	// Version store routes
	router.GET("/projects/:projectId/documents/:docType/versions", authed, versionHandler.Index)
	router.GET("/projects/:projectId/documents/:docType/summary", authed, versionHandler.ShowSummary)
	router.GET("/projects/:projectId/documents/:docType/slots", authed, versionHandler.ShowOccupiedSlots)
	router.GET("/versions/:id", authed, versionHandler.Show)

	// Review lock routes
	router.POST("/versions/:id/lock", authed, reviewHandler.Lock)
	router.POST("/versions/:id/unlock", authed, reviewHandler.Unlock)
	router.POST("/versions/:id/force-unlock", authed, reviewHandler.ForceUnlock)
	router.POST("/versions/:id/review", authed, reviewHandler.Complete)
	router.POST("/versions/:id/archive", authed, reviewHandler.Archive)

	// Audit trail
	router.GET("/projects/:projectId/audit", authed, auditHandler.Index)

	// internal use routes (upload service)
	internal := authMiddleware.InternalAuthMiddleware()
	router.POST("/internal/projects/:projectId/documents/:docType/versions", internal, versionHandler.Create)
	router.GET("/internal/projects/:projectId/documents/:docType/slots", internal, versionHandler.ShowOccupiedSlots)

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Printf("Server listening on port %s", serverPort)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("Server shutdown error:", err)
	}

	<-ctx.Done()
	log.Println("Server shutdown complete")
}
