package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"focusFlowAPI/db"
	"focusFlowAPI/handlers"
	"focusFlowAPI/middleware"
	"focusFlowAPI/services"

	_ "net/http/pprof"
)

var (
	dbPool              *pgxpool.Pool
	notificationService *services.NotificationService
	achievementService  *services.AchievementService
	streakService       *services.StreakService
	sessionService      *services.SessionService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if err := db.RunMigrations(dbURL); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to database")

	notificationService = services.NewNotificationService(dbPool)
	achievementService = services.NewAchievementService(dbPool, notificationService)
	streakService = services.NewStreakService(dbPool, achievementService, notificationService)
	sessionService = services.NewSessionService(dbPool, streakService)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	// Initialize handlers
	streakHandler := handlers.NewStreakHandler(streakService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	achievementHandler := handlers.NewAchievementHandler(achievementService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "focusflow-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 — all routes require a Clerk token
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.ClerkAuthMiddleware)

	api.HandleFunc("/streaks", streakHandler.GetStreaks).Methods("GET")
	api.HandleFunc("/streaks", streakHandler.CreateStreak).Methods("POST")
	api.HandleFunc("/streaks/freeze", streakHandler.GetFreezeStatus).Methods("GET")
	api.HandleFunc("/streaks/freeze", streakHandler.UseFreeze).Methods("POST")
	api.HandleFunc("/streaks/achievements", achievementHandler.GetAchievements).Methods("GET")
	api.HandleFunc("/streaks/calculate", streakHandler.Recalculate).Methods("POST")
	api.HandleFunc("/streaks/{id}", streakHandler.GetStreak).Methods("GET")
	api.HandleFunc("/streaks/{id}", streakHandler.UpdateStreak).Methods("PUT")
	api.HandleFunc("/streaks/{id}", streakHandler.DeleteStreak).Methods("DELETE")
	api.HandleFunc("/streaks/{id}/complete", streakHandler.CompleteToday).Methods("POST")
	api.HandleFunc("/streaks/{id}/reset", streakHandler.ResetStreak).Methods("POST")

	api.HandleFunc("/sessions", sessionHandler.RecordSession).Methods("POST")
	api.HandleFunc("/sessions", sessionHandler.GetSessions).Methods("GET")

	api.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	api.HandleFunc("/notifications/unread-count", notificationHandler.GetUnreadCount).Methods("GET")
	api.HandleFunc("/notifications/read-all", notificationHandler.MarkAllAsRead).Methods("PUT")
	api.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("PUT")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
