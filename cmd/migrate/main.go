// Command migrate applies the schema migrations and the bootstrap seed, then
// exits. It reads the same configuration as the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"taskmanager/internal/app"
	"taskmanager/internal/auth"
	"taskmanager/internal/bootstrap"
	"taskmanager/internal/config"
	"taskmanager/internal/logger"
)

var errNothingToMigrate = errors.New("nothing to migrate for the memory driver")

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	if cfg.Database.Driver == "memory" {
		return errNothingToMigrate
	}

	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)
	ctx := logger.WithContext(context.Background(), log)

	cfg.Database.Migrate = true
	st, err := app.OpenStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if !cfg.Bootstrap.Enabled {
		return nil
	}
	if _, err := bootstrap.Run(ctx, st, auth.NewBcryptHasher(cfg.Auth.BcryptCost), cfg.Bootstrap); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
