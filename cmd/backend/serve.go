package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/hairizuanbinnoorazman/wise-institute/admin"
	"github.com/hairizuanbinnoorazman/wise-institute/cmd/backend/handlers"
	"github.com/hairizuanbinnoorazman/wise-institute/contentful"
	"github.com/hairizuanbinnoorazman/wise-institute/database"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/media"
	"github.com/hairizuanbinnoorazman/wise-institute/session"
	"github.com/hairizuanbinnoorazman/wise-institute/storage"
	"github.com/hairizuanbinnoorazman/wise-institute/thumbnail"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// contentBackend bundles the collaborators selected by content.backend.
// catalog and blobs are nil for remote content stores.
type contentBackend struct {
	store   media.ContentStore
	catalog media.Catalog
	blobs   storage.BlobStorage
}

func newContentBackend(ctx context.Context, cfg *Config, db *gorm.DB, log logger.Logger) (*contentBackend, error) {
	switch cfg.Content.Backend {
	case ContentBackendContentful:
		client, err := contentful.NewClient(cfg.contentfulConfig(), log)
		if err != nil {
			return nil, fmt.Errorf("failed to create contentful client: %w", err)
		}
		return &contentBackend{store: client}, nil

	default:
		blobs, err := storage.New(ctx, cfg.storageConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize blob storage: %w", err)
		}
		store := media.NewGormStore(db, blobs, cfg.Content.AssetBaseURL, log)
		return &contentBackend{store: store, catalog: store, blobs: blobs}, nil
	}
}

// newRouter registers every route served by the backend.
func newRouter(cfg *Config, adminStore admin.Store, content *contentBackend, checks map[string]handlers.HealthCheck, log logger.Logger) *mux.Router {
	codec := session.NewCodec(cfg.Session.CookieName, cfg.Session.SigningSecret)
	cookieOpts := session.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	}

	router := mux.NewRouter()
	router.Use(handlers.RequestID, handlers.Recovery(log))
	if cfg.Metrics.Enabled {
		router.Use(handlers.Metrics)
		router.Handle(cfg.Metrics.Path, handlers.MetricsHandler()).Methods("GET")
	}

	// Health check endpoint (public)
	router.HandleFunc("/health", handlers.NewHealthHandler(checks)).Methods("GET")

	authHandler := handlers.NewAuthHandler(adminStore, codec, cookieOpts, cfg.Session.Duration, log)
	mediaHandler := handlers.NewMediaHandler(content.store, content.catalog, content.blobs, cfg.Content.ExpectedType, log)
	gateway := thumbnail.NewGateway(content.store, cfg.Content.ExpectedType, log)
	thumbnailHandler := handlers.NewThumbnailHandler(gateway, log)

	// Public routes
	router.HandleFunc("/api/admin/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/admin/logout", authHandler.Logout).Methods("POST")
	router.HandleFunc("/api/media", mediaHandler.List).Methods("GET")
	router.HandleFunc("/api/media/{id}", mediaHandler.Get).Methods("GET")
	router.HandleFunc("/assets/{id}/{file}", mediaHandler.ServeAsset).Methods("GET")

	// Admin routes
	adminAuth := handlers.NewAdminAuth(codec, cfg.Session.CookieName, log)
	adminRouter := router.PathPrefix("/api/admin").Subrouter()
	adminRouter.Use(adminAuth.Handler)

	adminRouter.HandleFunc("/session", authHandler.Session).Methods("GET")
	adminRouter.HandleFunc("/media", mediaHandler.Create).Methods("POST")
	adminRouter.HandleFunc("/media/{id}/save-thumbnail", thumbnailHandler.Save).Methods("POST")

	return router
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log := logger.NewLogrusLogger(cfg.Log.Level)
	log.Info(ctx, "starting server", map[string]interface{}{
		"version": Version,
		"commit":  Commit,
		"date":    BuildDate,
	})

	db, err := database.Connect(cfg.databaseConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer sqlDB.Close()

	log.Info(ctx, "database connected", map[string]interface{}{
		"driver":   cfg.Database.Driver,
		"database": cfg.Database.Database,
	})

	if cfg.Database.Driver == database.DriverSQLite {
		if err := database.Migrate(db, cfg.Database.Driver, log); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	content, err := newContentBackend(ctx, cfg, db, log)
	if err != nil {
		return err
	}

	log.Info(ctx, "content store initialized", map[string]interface{}{
		"backend":       cfg.Content.Backend,
		"expected_type": cfg.Content.ExpectedType,
	})

	checks := map[string]handlers.HealthCheck{
		"database": sqlDB.PingContext,
	}
	router := newRouter(cfg, admin.NewMySQLStore(db, log), content, checks, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info(ctx, "server listening", map[string]interface{}{
			"address": addr,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info(ctx, "server stopped", nil)
	return nil
}
