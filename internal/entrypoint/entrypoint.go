package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ebookshelf/internal/auth"
	"ebookshelf/internal/config"
	"ebookshelf/internal/database"
	"ebookshelf/internal/database/books"
	"ebookshelf/internal/database/users"
	http_controllers "ebookshelf/internal/http"
	"ebookshelf/internal/scheduler"
	"ebookshelf/internal/storage"
	"ebookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until an interrupt or termination signal
// arrives, then shuts down gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires every component together and serves the application.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting ebookshelf v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)

	assetStore, err := storage.NewStore(cfg.Storage.CoversDir, cfg.Storage.PDFsDir)
	if err != nil {
		log.Fatalf("Failed to initialize asset storage: %v", err)
	}

	// Authentication and sessions
	authService := auth.NewService(userRepo, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authMiddleware := auth.NewMiddleware(authService, sessionManager)
	authController := auth.NewController(authService, sessionManager, cfg.UI.TemplatesPath)

	// Generate or use configured CSRF secret
	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set SESSION_SECRET to persist)")
	}

	if n, err := userRepo.Count(); err == nil && n == 0 {
		log.Printf("No users found. Run '%s create-admin' to create an administrator account.", os.Args[0])
	}

	// Background task queue and orphan asset sweep
	taskCfg := tasks.Config{
		Workers:           cfg.Tasks.Workers,
		MaxRetries:        cfg.Tasks.MaxRetries,
		RetryDelay:        cfg.Tasks.RetryDelay,
		TaskTimeout:       cfg.Tasks.TaskTimeout,
		ReleaseAfter:      cfg.Tasks.ReleaseAfter,
		CleanupInterval:   cfg.Tasks.CleanupInterval,
		RetentionDuration: cfg.Tasks.RetentionDuration,
	}

	taskClient, err := tasks.NewClient(cfg.Database.Path, taskCfg)
	if err != nil {
		log.Fatalf("Failed to initialize task queue: %v", err)
	}
	defer func() {
		if err := taskClient.Close(); err != nil {
			log.Printf("Error closing task client: %v", err)
		}
	}()

	taskClient.Register(
		tasks.NewCleanupOrphanAssetsQueue(bookRepo, assetStore),
	)

	taskCtx, taskCtxCancel := context.WithCancel(context.Background())
	go taskClient.Start(taskCtx)

	sweepScheduler := scheduler.NewAssetSweepScheduler(taskClient, cfg.Sweep.Schedule, cfg.Sweep.Enabled)
	if err := sweepScheduler.Start(taskCtx); err != nil {
		log.Fatalf("Failed to start asset sweep scheduler: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:        db,
		BookStore:       bookRepo,
		AssetStore:      assetStore,
		BookCounter:     bookRepo,
		UserCounter:     userRepo,
		AuthService:     authService,
		AuthMiddleware:  authMiddleware,
		AuthController:  authController,
		SessionManager:  sessionManager,
		CSRFSecret:      csrfSecret,
		SecureCookies:   cfg.Auth.SecureCookies,
		TemplatesPath:   cfg.UI.TemplatesPath,
		StaticPath:      cfg.UI.StaticPath,
		MaxUploadSizeMB: cfg.Storage.MaxUploadSizeMB,
		Version:         version,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, func(ctx context.Context) {
		sweepScheduler.Stop()
		taskCtxCancel()
		taskClient.Stop(ctx)
	})
}
