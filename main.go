package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annazecevic/comics-service/config"
	"github.com/annazecevic/comics-service/handler"
	"github.com/annazecevic/comics-service/logger"
	"github.com/annazecevic/comics-service/middleware"
	"github.com/annazecevic/comics-service/repository"
	"github.com/annazecevic/comics-service/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const serviceName = "comics-service"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          serviceName,
		Short:        "Comics catalog API backed by MongoDB with a demo fallback",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert the demo comics when the comic collection is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), cmd)
		},
	})

	return root
}

func setup(ctx context.Context) (*config.Config, repository.DocumentStore) {
	cfg := config.LoadConfig()

	logger.Init(logger.Config{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		LogFilePath: cfg.LogFilePath,
		HMACKey:     cfg.LogHMACKey,
		MaxSizeMB:   cfg.LogMaxSizeMB,
		MaxBackups:  cfg.LogMaxBackups,
		MaxAgeDays:  cfg.LogMaxAgeDays,
	})

	store := repository.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseName, cfg.DBTimeout)
	return cfg, store
}

func runSeed(ctx context.Context, cmd *cobra.Command) error {
	_, store := setup(ctx)

	n, err := service.NewComicService(store).SeedIfEmpty(ctx)
	if err != nil {
		logger.Error(logger.EventSeed, "Seeding failed", logger.Fields("error", err.Error()))
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d comics\n", n)
	return nil
}

func runServe(ctx context.Context) error {
	cfg, store := setup(ctx)

	logger.Info(logger.EventServiceStartup, "Comics service starting", logger.Fields(
		"port", cfg.ServerPort,
		"environment", cfg.Environment,
		"database_configured", cfg.DatabaseConfigured(),
		"database_available", store.Available(),
	))

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 5*time.Minute)
	defer rl.Stop()

	env := service.EnvPresence{
		DatabaseURL:  os.Getenv(config.EnvDatabaseURL) != "",
		DatabaseName: os.Getenv(config.EnvDatabaseName) != "",
	}
	router, err := newRouter(service.NewComicService(store), env, rl, cfg.TrustedProxies)
	if err != nil {
		logger.Error(logger.EventGeneral, "Invalid trusted proxies", logger.Fields("error", err.Error()))
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(logger.EventServiceStartup, "Server starting", logger.Fields("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error(logger.EventGeneral, "Server failed", logger.Fields("error", err.Error()))
			return err
		}
		return nil
	case sig := <-stop:
		logger.Info(logger.EventServiceShutdown, "Shutting down", logger.Fields("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter only honours X-Forwarded-For from trustedProxies; with none, the
// client IP used for rate limiting and logs is the socket peer.
func newRouter(svc service.ComicService, env service.EnvPresence, rl *middleware.RateLimiter, trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	router.RedirectTrailingSlash = false
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.OpenCORS(),
		middleware.ValidateRequest(),
		rl.Middleware(),
	)

	handler.NewComicHandler(svc, env).RegisterRoutes(router)
	return router, nil
}
