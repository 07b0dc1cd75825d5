package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/lumen-app/lumen-backend/internal/config"
	"github.com/lumen-app/lumen-backend/internal/database"
	"github.com/lumen-app/lumen-backend/internal/handlers"
	"github.com/lumen-app/lumen-backend/internal/middleware"
	"github.com/lumen-app/lumen-backend/internal/routes"
	"github.com/lumen-app/lumen-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL (accounts)
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis (sessions, rate limiting, entry feed pub/sub)
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (entries)
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	if err := services.EnsureEntryIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB entry indexes: %v", err)
	} else {
		log.Println("✅ MongoDB entry indexes ensured")
	}

	// Cloudinary is optional; without it photo uploads return 503
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Photo uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Photo uploads will not be available")
	}

	// Shared Redis listener feeding the in-process entry feed hub
	services.StartEntryEventSubscriber(context.Background())

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → SigninRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + sign-in rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r)

	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /api/auth/signup")
	log.Println("  POST /api/auth/signin")
	log.Println("  POST /api/auth/signout")
	log.Println("  GET  /api/auth/me")
	log.Println("  POST /api/entries")
	log.Println("  GET  /api/entries")
	log.Println("  PUT  /api/entries/{id}")
	log.Println("  DELETE /api/entries/{id}")
	log.Println("  POST /api/upload")
	log.Println("  GET  /ws/entries")

	log.Printf("🚀 Lumen backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
