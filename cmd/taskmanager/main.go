package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmanager/internal/app"
	"taskmanager/internal/auth"
	"taskmanager/internal/bootstrap"
	"taskmanager/internal/config"
	"taskmanager/internal/logger"
	"taskmanager/internal/server"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

// API is the part of the HTTP server main drives.
type API interface {
	Start() error
	Shutdown(ctx context.Context) error
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("task manager stopped", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(cfg.Server.Mode)
	ctx := logger.WithContext(context.Background(), log)

	st, err := app.OpenStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	if cfg.Bootstrap.Enabled {
		if _, err := bootstrap.Run(ctx, st, hasher, cfg.Bootstrap); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}

	services, err := service.New(st, hasher, tokens, cfg.Bootstrap.AdminEmail)
	if err != nil {
		return fmt.Errorf("services: %w", err)
	}
	api := server.NewTaskAPI(cfg.Server, services, tokens, st)
	if api == nil {
		return fmt.Errorf("failed to initialize API")
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	log.Info("task manager starting", "addr", cfg.Server.Address(), "driver", cfg.Database.Driver)
	return serve(ctx, api, signals, cfg.Server.ShutdownTimeout)
}

// serve runs api until it fails or a signal arrives, then shuts it down
// within timeout.
func serve(ctx context.Context, api API, signals <-chan os.Signal, timeout time.Duration) error {
	log := logger.FromContext(ctx)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- api.Start()
	}()

	select {
	case sig := <-signals:
		log.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := api.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Info("graceful shutdown complete")
		return nil

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}
}
