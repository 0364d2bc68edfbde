package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kitchen-ops-backend/config"
	"kitchen-ops-backend/internal/api"
	"kitchen-ops-backend/internal/archive"
	"kitchen-ops-backend/internal/db"
	"kitchen-ops-backend/internal/detect"
	"kitchen-ops-backend/internal/ingest"
	"kitchen-ops-backend/internal/kitchen"
	"kitchen-ops-backend/internal/load"
	"kitchen-ops-backend/internal/remake"
	"kitchen-ops-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "kitchen-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Core state: in-memory ticket store, load state, remake log.
	ticketStore := store.NewMemStore()
	loadState := load.New(cfg.Load.GlobalPercent, time.Duration(cfg.Load.LateThresholdMinutes)*time.Minute)
	for station, percent := range cfg.Load.Stations {
		loadState.Adjust(station, percent)
	}

	remakeLog := remake.NewLog(gormDB)
	if err := remakeLog.Warm(ctx, time.Now().UTC().Add(-cfg.Detector.MiningWindow)); err != nil {
		logger.Printf("warning: could not warm remake log: %v", err)
	}

	// Archive workers persist completed tickets off the operator path.
	archivePool := archive.NewWorkerPool(cfg.WorkerPool.Size, gormDB)
	archivePool.Start(ctx)

	detector := detect.NewService(cfg, ticketStore, loadState, remakeLog)
	go detector.Run(ctx)

	svc := kitchen.NewService(ticketStore, loadState, remakeLog, detector, archivePool)

	// Optional built-in ticket ingestion for demo/load-test runs.
	ingestSvc := ingest.NewService(cfg, svc)
	go ingestSvc.Run(ctx)

	router := api.NewRouter(cfg, svc, gormDB)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
