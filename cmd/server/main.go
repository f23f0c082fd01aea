package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/restolist/backend/docs"
	"github.com/restolist/backend/internal/auth"
	"github.com/restolist/backend/internal/config"
	"github.com/restolist/backend/internal/handlers"
	"github.com/restolist/backend/internal/logger"
	loggerMiddleware "github.com/restolist/backend/internal/logger/middleware"
	"github.com/restolist/backend/internal/middlewares"
	"github.com/restolist/backend/internal/repositories"
	"github.com/restolist/backend/internal/services"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title RestoList API
// @version 1.0
// @description REST API for browsing and managing restaurant listings with username/password authentication and role assignment

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:5000
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting RestoList API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations (creates tables and seeds the role registry)
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize session token generator
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.TokenExpiry)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	roleRepo := repositories.NewRoleRepository(db)
	restaurantRepo := repositories.NewRestaurantRepository(db, logger.Logger)

	// Initialize services
	authService := services.NewAuthService(userRepo, roleRepo, tokenGenerator, logger.Logger)
	restaurantService := services.NewRestaurantService(restaurantRepo, logger.Logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, logger.Logger)

	// Initialize auth middleware
	authMiddleware := auth.Middleware(tokenGenerator)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(1 * 1024 * 1024)) // 1MB

	// Liveness root
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Restaurant Restful API"))
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api/v1
	r.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authMiddleware)
		// Restaurant routes carry no session enforcement in the current design
		restaurantHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Get the working directory or use migrations folder relative to the binary
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directory if running from cmd
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
