package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"workbench/internal/auth"
	"workbench/internal/config"
	"workbench/internal/handler"
	"workbench/internal/middleware"
	"workbench/internal/repository/postgres"
	serviceAuth "workbench/internal/service/auth"
	"workbench/internal/service/filesystem"
	"workbench/internal/service/tracker"
	"workbench/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Token manager for issuing and verifying bearer tokens
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to create token manager: %v", err)
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names and ensure the schema exists
	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgres.NewUserRepository(repoConfig)
	itemRepo := postgres.NewItemRepository(repoConfig)
	uploadRepo := postgres.NewUploadedFileRepository(repoConfig)
	permRepo := postgres.NewPermissionRepository(repoConfig)
	todoRepo := postgres.NewTodoRepository(repoConfig)
	expenseRepo := postgres.NewExpenseRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Blob storage backend
	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}
	logger.Info("blob storage ready", "backend", cfg.StorageBackend)

	// Extension allow-list
	extensions, err := filesystem.NewExtensionRegistry()
	if err != nil {
		log.Fatalf("Failed to load extension registry: %v", err)
	}

	// Create services
	resolver := filesystem.NewPermissionResolver(itemRepo, permRepo, logger)
	treeService := filesystem.NewTreeService(itemRepo, uploadRepo, txManager, blobs, extensions, logger)
	structureService := filesystem.NewStructureService(itemRepo, uploadRepo, resolver, logger)
	permService := filesystem.NewPermissionService(itemRepo, permRepo, userRepo, logger)
	uploadService := filesystem.NewUploadService(uploadRepo, itemRepo, blobs, extensions, logger)
	authService := serviceAuth.NewAuthService(userRepo, tokens, logger)
	todoService := tracker.NewTodoService(todoRepo, logger)
	expenseService := tracker.NewExpenseService(expenseRepo, logger)

	// Create handlers
	authHandler := handler.NewAuthHandler(authService, logger)
	itemHandler := handler.NewItemHandler(treeService, logger)
	structureHandler := handler.NewStructureHandler(structureService, logger)
	permHandler := handler.NewPermissionHandler(permService, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)
	todoHandler := handler.NewTodoHandler(todoService, logger)
	expenseHandler := handler.NewExpenseHandler(expenseService, logger)
	systemHandler := handler.NewSystemHandler(extensions)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", systemHandler.HealthCheck)
	mux.HandleFunc("GET /api/extensions", systemHandler.Extensions)

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/forgot", authHandler.Forgot)
	mux.HandleFunc("POST /api/auth/reset-password", authHandler.Reset)
	mux.HandleFunc("GET /api/auth/me", authHandler.Profile)

	// Item routes
	mux.HandleFunc("POST /api/items", itemHandler.Create)
	mux.HandleFunc("PATCH /api/items/{id}", itemHandler.Rename)
	mux.HandleFunc("DELETE /api/items/{id}", itemHandler.Delete)

	// Structure routes
	mux.HandleFunc("GET /api/structure", structureHandler.Root)
	mux.HandleFunc("GET /api/structure/{id}", structureHandler.Children)

	// Permission routes
	mux.HandleFunc("PUT /api/items/{id}/permissions", permHandler.Grant)
	mux.HandleFunc("GET /api/items/{id}/permissions", permHandler.List)
	mux.HandleFunc("DELETE /api/items/{id}/permissions/{userId}", permHandler.Revoke)
	mux.HandleFunc("GET /api/users", permHandler.ShareTargets)

	// Upload routes
	mux.HandleFunc("POST /api/uploads", uploadHandler.Upload)
	mux.HandleFunc("GET /api/uploads/{id}", uploadHandler.Download)
	mux.HandleFunc("DELETE /api/uploads/{id}", uploadHandler.Delete)

	// Todo routes
	mux.HandleFunc("GET /api/todos", todoHandler.List)
	mux.HandleFunc("POST /api/todos", todoHandler.Create)
	mux.HandleFunc("PATCH /api/todos/{id}", todoHandler.Update)
	mux.HandleFunc("DELETE /api/todos/{id}", todoHandler.Delete)

	// Expense routes
	mux.HandleFunc("GET /api/expenses", expenseHandler.List)
	mux.HandleFunc("POST /api/expenses", expenseHandler.Create)
	mux.HandleFunc("PATCH /api/expenses/{id}", expenseHandler.Update)
	mux.HandleFunc("DELETE /api/expenses/{id}", expenseHandler.Delete)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.AuthMiddleware(tokens)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newBlobStore picks the storage backend from config.
func newBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	if cfg.StorageBackend == "s3" {
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			KeyPrefix:       cfg.S3KeyPrefix,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		})
	}
	return storage.NewLocalStore(cfg.UploadDir)
}
