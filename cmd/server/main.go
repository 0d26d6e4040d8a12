package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shelterconnect/config"
	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/database"
	"shelterconnect/internal/logger"
	"shelterconnect/internal/router"
	"shelterconnect/internal/service"
	"shelterconnect/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "error", err)
	}
	logger.Init(cfg.Server.Env)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Fatal("database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate", "error", err)
	}
	apperrors.RegisterJSONTagNames()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	hub := ws.NewHub()
	deps := router.Deps{Hub: hub}
	if cfg.Realtime.RedisURL != "" {
		rdb, err := ws.NewRedisClient(ctx, cfg.Realtime.RedisURL)
		if err != nil {
			logger.Fatal("redis", "error", err)
		}
		defer rdb.Close()
		relay := ws.NewRedisBroadcaster(rdb, hub)
		if err := relay.Subscribe(ctx); err != nil {
			logger.Fatal("redis subscribe", "error", err)
		}
		deps.Broadcaster = relay
		logger.Info("realtime rooms relayed through redis")
	}
	if push := service.NewPushService(ctx, cfg.Firebase.ServiceAccountPath); push != nil {
		deps.Push = push
		logger.Info("push notifications enabled")
	} else {
		logger.Info("push notifications disabled", "hint", "set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}

	engine := router.Setup(cfg, db, deps)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server listening", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	logger.Info("server stopped")
}
