package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/rfqdesk/internal/backend"
	"github.com/angelmondragon/rfqdesk/pkg/config"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
)

// migrate creates the tables the configured store driver needs (xlsx workbook sheets or
// SQL tables) and, for Google Sheets, checks that every table is reachable.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"driver": cfg.Store.Driver,
		"tables": cfg.Store.Tables(),
	})

	requireResource(ctx, logg, "row store", backend.Provision(ctx, cfg, logg))
	logg.Info(ctx, "row store ready")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
