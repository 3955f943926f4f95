package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobready-portal/config"
	"jobready-portal/internal/database"
	"jobready-portal/internal/server"
	"jobready-portal/pkg/logger"

	"go.uber.org/zap"
)

// @title JobReady SA API
// @version 1.0
// @description Multilingual job board for South African job seekers.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Load(); err != nil {
		os.Exit(1)
	}
	cfg := config.Cfg

	if err := logger.Init(cfg); err != nil {
		os.Exit(1)
	}
	defer logger.Close()

	if err := database.Connect(cfg, logger.Logger); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if cfg.IsDevelopment() && cfg.Dev.SeedData {
		if err := database.SeedData(logger.Logger); err != nil {
			logger.Error("Failed to seed database", zap.Error(err))
		}
	}

	srv := server.New(cfg, logger.Logger, database.DB)

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			zap.String("addr", httpServer.Addr),
			zap.String("env", cfg.Server.Env),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
