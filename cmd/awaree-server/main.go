package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/existflow/awaree/internal/config"
	"github.com/existflow/awaree/internal/logger"
	"github.com/existflow/awaree/internal/store"
	"github.com/existflow/awaree/server"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	addr := cfg.Server.Addr
	if port := os.Getenv("PORT"); port != "" {
		addr = "127.0.0.1:" + port
	}

	logConfig := logger.DefaultConfig()
	logConfig.Level = logger.ParseLevel(cfg.LogLevel)
	logConfig.FilePath = cfg.LogFile
	logConfig.Console = true
	if err := logger.Init(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open studio: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("Error closing studio: %v", err)
		}
	}()

	srv := server.New(st)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Awaree server starting", logger.F("addr", addr), logger.F("db", cfg.DBPath))
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down: %v", err)
	}
}
