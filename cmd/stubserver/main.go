package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nexus-assist/internal/config"
	"nexus-assist/internal/handler"
	"nexus-assist/internal/service"
	"nexus-assist/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (YAML)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	svcs, err := service.NewFromConfig(context.Background(), cfg)
	if err != nil {
		logger.Fatalf("Failed to init services: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(cfg, svcs)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Infof("Stub backend listening on port %d (model provider %q, storage %q)",
			cfg.Server.Port, cfg.Model.Provider, cfg.Storage.Type)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown failed: %v", err)
	}
	if err := svcs.Storage.Backup(); err != nil {
		logger.Warnf("Backup failed: %v", err)
	}
	if err := svcs.Storage.Close(); err != nil {
		logger.Errorf("Close storage failed: %v", err)
	}
	logger.Info("Server stopped")
}
