package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mcoot/partyarcade/internal/api"
	"github.com/mcoot/partyarcade/internal/config"
	"github.com/mcoot/partyarcade/internal/factory"
	"github.com/mcoot/partyarcade/internal/services/auth"
	redisstorage "github.com/mcoot/partyarcade/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	level, _ := cfg.Level()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func run(cfg config.Config, logger *slog.Logger) error {
	factoryCfg := factory.Config{
		AuthConfig:  auth.Config{SessionDuration: cfg.SessionTTL},
		Logger:      logger,
		StorageType: cfg.Storage,
	}
	if cfg.Storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisCfg.PoolSize = cfg.RedisPoolSize
		redisCfg.GuestPlayerTTL = cfg.GuestTTL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close failed", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		AuthService:  app.AuthService,
		StatsService: app.StatsService,
		Controller:   app.Controller,
		HubManager:   app.HubManager,
		Dispatcher:   app.Dispatcher,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = net.JoinHostPort(cfg.Addr, strconv.Itoa(cfg.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.HubManager.RunJanitor(ctx, cfg.HubJanitorInterval)

	logger.Info("starting",
		slog.String("addr", serverConfig.Addr),
		slog.String("storage", cfg.Storage))

	server := api.NewServer(router, serverConfig, logger)
	server.OnShutdown(app.HubManager.Close)
	return server.Run(ctx)
}
