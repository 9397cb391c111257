package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"renttracker/internal/caching"
	"renttracker/internal/config"
	"renttracker/internal/handlers"
	"renttracker/internal/jobs"
	"renttracker/internal/jobs/background"
	"renttracker/internal/repositories"
	"renttracker/internal/services"
	"renttracker/pkg/database"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server and the filing reminder",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(pool); err != nil {
			return err
		}
	}

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer cacheSvc.Close()

	var documents services.DocumentStorage
	if cfg.MinioEnabled() {
		documents, err = services.NewMinioDocumentStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.DocumentBucket)
		if err != nil {
			return err
		}
		if err := documents.EnsureBucket(ctx); err != nil {
			return err
		}
	} else {
		slog.Warn("MinIO credentials not set, tenant document uploads are disabled")
	}

	store := repositories.NewStore(pool)
	userRepo := repositories.NewUserRepo(pool)
	permissionRepo := repositories.NewPermissionRepo(pool)
	auditSvc := services.NewAuditLogsService(repositories.NewAuditLogsRepo(pool))

	rbacSvc := services.NewRBACService()
	llcSvc := services.NewLLCService(store, auditSvc)
	authSvc := services.NewAuthService(userRepo, permissionRepo, cacheSvc, services.AuthConfig{
		Secret:          cfg.JWTSecret,
		SessionTTL:      cfg.SessionTTL,
		LoginRateLimit:  cfg.LoginRateLimit,
		LoginRateWindow: cfg.LoginRateWindow,
	})

	checks := map[string]handlers.Pinger{"database": pool, "cache": cacheSvc}
	if documents != nil {
		checks["storage"] = documents
	}

	e := handlers.NewRouter(handlers.Dependencies{
		Auth:         authSvc,
		RBAC:         rbacSvc,
		LLCs:         llcSvc,
		Properties:   services.NewPropertyService(store, auditSvc),
		Tenants:      services.NewTenantService(store, auditSvc, documents),
		Payments:     services.NewPaymentService(store, auditSvc),
		AuditLogs:    auditSvc,
		Health:       handlers.NewHealthHandlers(version, checks),
		Page:         handlers.NewPage(rbacSvc, cfg.TimeZone),
		CookieSecure: cfg.CookieSecure,

		TrustedProxies: cfg.TrustedProxies,
	})

	scheduler, err := background.NewJobScheduler(cfg.TimeZone)
	if err != nil {
		return err
	}
	reminder := jobs.NewFilingReminderService(llcSvc, cfg.TimeZone)
	if err := scheduler.AddDaily("filing-reminder", uint(cfg.FilingReminderHour), reminder); err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			slog.Error("could not stop scheduler", "err", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("RentTracker server starting", "version", version, "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
