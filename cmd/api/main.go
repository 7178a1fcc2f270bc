package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/rfqdesk/api/routes"
	"github.com/angelmondragon/rfqdesk/internal/auth"
	"github.com/angelmondragon/rfqdesk/internal/backend"
	"github.com/angelmondragon/rfqdesk/internal/items"
	"github.com/angelmondragon/rfqdesk/internal/quotes"
	"github.com/angelmondragon/rfqdesk/internal/telegram"
	"github.com/angelmondragon/rfqdesk/internal/users"
	"github.com/angelmondragon/rfqdesk/pkg/config"
	"github.com/angelmondragon/rfqdesk/pkg/imagegen"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
	"github.com/angelmondragon/rfqdesk/pkg/metrics"
	"github.com/angelmondragon/rfqdesk/pkg/redis"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.App.Location()
	if err != nil {
		logg.Error(ctx, "failed to load timezone", err)
		os.Exit(1)
	}

	var closers []func() error

	store, err := backend.Open(ctx, cfg, logg)
	if err != nil {
		logg.Error(logg.WithField(ctx, "driver", cfg.Store.Driver), "failed to open row store", err)
		store = &backend.Backend{Store: rowstore.NewUnavailable(err)}
	}
	closers = append(closers, store.Close)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rows := rowstore.Instrument(store.Store, metrics.NewStoreMetrics(registry))

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			// Idempotency is optional; submissions still work without it.
			logg.Error(ctx, "failed to bootstrap redis, idempotency disabled", err)
			redisClient = nil
		} else {
			closers = append(closers, redisClient.Close)
		}
	}

	var generator items.Generator
	if gen := imagegen.NewClient(cfg.ImageGen); gen.Configured() {
		generator = gen
	} else {
		logg.Info(ctx, "image generation disabled")
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo: users.NewRepository(rows, cfg.Store.UsersTable),
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	itemsService, err := items.NewService(items.ServiceParams{
		Store:             rows,
		Table:             cfg.Store.ItemsTable,
		Generator:         generator,
		GenerationTimeout: cfg.ImageGen.Timeout + 2*time.Second,
		Logger:            logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create items service", err)
		os.Exit(1)
	}

	quotesService, err := quotes.NewService(quotes.ServiceParams{
		Store:    rows,
		Table:    cfg.Store.QuotationsTable,
		Location: loc,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create quotes service", err)
		os.Exit(1)
	}

	if cfg.Telegram.BotToken != "" {
		bot, err := telegram.New(cfg.Telegram.BotToken, telegram.WebAppURL(cfg.Telegram.WebAppURL, cfg.App.Port), authService, logg)
		if err != nil {
			logg.Error(ctx, "failed to start telegram bot", err)
		} else {
			go func() {
				if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logg.Error(ctx, "telegram bot stopped", err)
				}
			}()
		}
	} else {
		logg.Info(ctx, "telegram bot disabled")
	}

	addr := ":" + cfg.App.Port
	srvCtx := logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": cfg.Store.Driver,
	})
	logg.Info(srvCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			Store:         rows,
			RedisClient:   redisClient,
			Gatherer:      registry,
			AuthService:   authService,
			ItemsService:  itemsService,
			QuotesService: quotesService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(srvCtx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-ctx.Done():
		logg.Info(srvCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(srvCtx, "graceful shutdown failed", err)
			exitCode = 1
		}
		cancel()
	}

	var closeErr error
	for _, c := range closers {
		closeErr = multierr.Append(closeErr, c())
	}
	if closeErr != nil {
		logg.Error(srvCtx, "error releasing resources", closeErr)
	}
	stop()
	os.Exit(exitCode)
}
