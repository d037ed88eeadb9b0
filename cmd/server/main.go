package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-midea/social-api/internal/auth"
	"github.com/anonto42/nano-midea/social-api/internal/cache"
	"github.com/anonto42/nano-midea/social-api/internal/monitoring"
	"github.com/anonto42/nano-midea/social-api/internal/router"
	"github.com/anonto42/nano-midea/social-api/pkg/config"
	"github.com/anonto42/nano-midea/social-api/pkg/firebase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "socialapi",
	Short:        "Social API server",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := config.InitDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer db.CloseDB()

		if err := db.Migrate(); err != nil {
			return err
		}
		log.Info("Schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file (overrides CONFIG_FILE)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	config.SetupLogging(cfg)
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	if err := db.Migrate(); err != nil {
		return err
	}
	store, err := db.NewStore(ctx)
	if err != nil {
		return err
	}

	tokenTTL, _ := cfg.TokenTTL()
	deps := router.Dependencies{
		Store:  store,
		Tokens: auth.NewTokenIssuer(cfg.JWTSecret, tokenTTL),
	}

	if db.Redis != nil {
		cacheTTL, _ := cfg.UserCacheTTL()
		deps.UserCache = cache.NewUsersCache(db.Redis, cacheTTL)
	}

	// Firebase login stays disabled without credentials
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return err
		}
		deps.Identity = firebaseApp.Verifier()
	} else {
		log.Warn("FIREBASE_CREDENTIALS_PATH not set, Firebase login disabled")
	}

	if err := monitoring.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}
	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.WithField("port", cfg.MetricsPort).Info("Metrics server listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()

	e := router.New(deps)

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		serveErr <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("metrics server shutdown failed")
	}
	return nil
}
