package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"merchsync/internal/config"
	"merchsync/internal/credentials"
	"merchsync/internal/database"
	"merchsync/internal/logger"
	"merchsync/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	// Credential store
	creds, err := credentials.NewStore(db.DB, cfg.EncryptionKey)
	if err != nil {
		logger.Fatal("Failed to initialize credential store: %v", err)
	}

	w := worker.New(cfg, db.DB, creds, logger)

	go w.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	w.Stop()
}
