package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"beemine-admin/internal/config"
	"beemine-admin/internal/handlers"
	"beemine-admin/internal/middleware"
	"beemine-admin/internal/repository"
	"beemine-admin/internal/services"
	"beemine-admin/internal/session"
	"beemine-admin/internal/telemetry"
	"beemine-admin/internal/upstream"
	"beemine-admin/internal/views"
)

const serviceName = "beemine-admin"

// NewRootCmd builds the beemine-admin command. Without a subcommand it serves.
func NewRootCmd(version, buildDate string) *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Beemine admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), configPath, version)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the config file")

	root.AddCommand(newServeCmd(&configPath, version))
	root.AddCommand(newVersionCmd(version, buildDate))
	return root
}

func newServeCmd(configPath *string, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin console",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), *configPath, version)
		},
	}
}

func newVersionCmd(version, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", serviceName, version, buildDate)
		},
	}
}

// Run starts the server and blocks until SIGINT or SIGTERM
func Run(ctx context.Context, configPath, version string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Load configuration
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	shutdownTracing, err := telemetry.Init(ctx, serviceName, version, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Failed to flush traces")
		}
	}()

	checks := map[string]handlers.Pinger{}

	// Session backend
	var backend session.Backend
	if cfg.Redis.Addr != "" {
		rdb, err := session.OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		backend = session.NewRedisBackend(rdb, cfg.Session.TTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis session backend connected")
	} else {
		backend = session.NewMemoryBackend()
		log.Warn().Msg("Redis not configured, sessions are kept in memory")
	}
	sessions := session.NewManager(backend, session.Options{
		Secret:     cfg.Session.Secret,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.CookieSecure,
		TTL:        cfg.Session.TTL,
	})
	checks["sessions"] = sessions

	// Moderation hooks
	wsHub := services.NewWSHub()
	hooks := services.Hooks{Notifier: wsHub}

	var auditRecorder services.AuditRecorder
	if cfg.Database.Enabled() {
		db, err := repository.Open(ctx, cfg.Database.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		auditRepo := repository.NewAuditRepository(db)
		if err := auditRepo.Migrate(ctx); err != nil {
			return err
		}
		auditRecorder = auditRepo
		hooks.Audit = auditRepo
		checks["audit"] = auditRepo
		log.Info().Msg("Database connection established")
	}

	if cfg.AWS.S3Bucket != "" {
		signer, err := services.NewMediaSigner(ctx, services.MediaOptions{
			Region:    cfg.AWS.Region,
			Bucket:    cfg.AWS.S3Bucket,
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
			Endpoint:  cfg.AWS.Endpoint,
			Expiry:    cfg.AWS.URLExpiry,
		})
		if err != nil {
			return fmt.Errorf("failed to create media signer: %w", err)
		}
		hooks.Media = signer
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := upstream.NewClient(
		cfg.Upstream.BaseURL,
		cfg.Upstream.PathPrefix,
		cfg.Upstream.Timeout,
		upstream.WithMetrics(upstream.NewMetrics(registry)),
	)

	// Initialize services
	authService := services.NewAuthService(client)
	dashboardService := services.NewDashboardService(client, auditRecorder)
	userService := services.NewUserService(client, hooks)
	revenueService := services.NewRevenueService(client)
	photoService := services.NewPhotoVerificationService(client, hooks)
	profileService := services.NewProfileVerificationService(client, hooks)
	reportService := services.NewReportService(client, hooks)
	reviewService := services.NewReviewService(client, hooks)

	renderer, err := views.NewRenderer()
	if err != nil {
		return err
	}

	// Initialize handlers
	guard := middleware.NewGuard(sessions, authService)
	base := handlers.NewBase(renderer, sessions, services.NewFetchTracker(), cfg.Server.PageSize)

	router := handlers.Router(handlers.RouterOptions{
		Guard:          guard,
		Auth:           handlers.NewAuthHandler(base, authService, guard),
		Dashboard:      handlers.NewDashboardHandler(base, dashboardService),
		Users:          handlers.NewUserHandler(base, userService),
		Revenue:        handlers.NewRevenueHandler(base, revenueService),
		Moderation:     handlers.NewModerationHandler(base, photoService, profileService, reportService, reviewService),
		WebSocket:      handlers.NewWebSocketHandler(wsHub),
		Health:         handlers.NewHealthHandler(checks),
		Gatherer:       registry,
		LoginPerMinute: cfg.Server.LoginPerMinute,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("upstream", cfg.Upstream.BaseURL).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	}

	log.Info().Msg("Shutting down server...")

	log.Info().Int("websockets", wsHub.Count()).Msg("Closing websocket connections")
	wsHub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
