package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"venturelab/api/analytics"
	"venturelab/api/database"
	"venturelab/api/handlers"
	"venturelab/api/middleware"
	"venturelab/api/store"
)

func main() {
	// Load .env file at the very start
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- PostgreSQL (users and projects) ---
	dbClient, err := database.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL database: %v", err)
	}
	defer dbClient.Close()

	// --- ClickHouse (append-only event store) ---
	chClient, err := database.NewClickHouseDB()
	if err != nil {
		log.Fatalf("Failed to initialize ClickHouse database: %v", err)
	}
	defer chClient.Close()

	// --- Stores ---
	userStore := store.NewUserStore(dbClient.DB)
	projectStore := store.NewProjectStore(dbClient.DB)
	eventStore := store.NewEventStore(chClient)

	// --- Analytics engine over the event store ---
	engine := analytics.NewEngine(eventStore)

	// --- Handlers ---
	authHandlers := handlers.NewAuthHandlers(userStore)
	projectHandlers := handlers.NewProjectHandlers(projectStore)
	trackHandlers := handlers.NewTrackHandlers(eventStore, projectStore)
	statsHandlers := handlers.NewStatsHandlers(engine, projectStore)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		// Authentication endpoints (no authentication required)
		api.POST("/signup", authHandlers.Signup)
		api.POST("/login", authHandlers.Login)
		api.POST("/logout", authHandlers.Logout)

		// Protected routes (require a valid JWT token)
		protected := api.Group("/")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/track", trackHandlers.TrackEvents)

			protected.POST("/projects", projectHandlers.CreateProject)
			protected.GET("/projects", projectHandlers.ListProjects)
			protected.GET("/projects/:id", projectHandlers.GetProject)

			stats := protected.Group("/stats")
			{
				stats.GET("/active-users", statsHandlers.GetActiveUsers)
				stats.GET("/users-online", statsHandlers.GetUsersOnline)
				stats.GET("/sessions", statsHandlers.GetSessions)
				stats.GET("/all-time-users", statsHandlers.GetAllTimeUsers)
				stats.GET("/churn-rate", statsHandlers.GetChurnRate)
				stats.GET("/engagement-rate", statsHandlers.GetEngagementRate)
				stats.GET("/growth", statsHandlers.GetGrowth)
				stats.GET("/series", statsHandlers.GetSeries)
				stats.GET("/dashboard", statsHandlers.GetDashboard)
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("Go API server starting on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Go API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
