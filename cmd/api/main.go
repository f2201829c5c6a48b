package main

import (
	"log"

	"merchsync/internal/api"
	"merchsync/internal/cache"
	"merchsync/internal/config"
	"merchsync/internal/credentials"
	"merchsync/internal/database"
	"merchsync/internal/logger"
	"merchsync/internal/syncer"
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

	// Result cache lives for the process; a restart is a full miss.
	resultCache := cache.New()

	// Sync event publisher
	events := syncer.NewEventPublisher(cfg.KafkaBrokers, cfg.SyncTopic, logger)
	defer events.Close()

	// Initialize API server
	server := api.New(cfg, logger, db, creds, resultCache, events)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
