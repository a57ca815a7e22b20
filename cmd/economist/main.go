package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Starkiller645/economist/internal/api"
	"github.com/Starkiller645/economist/internal/bot"
	"github.com/Starkiller645/economist/internal/bot/handlers"
	"github.com/Starkiller645/economist/internal/chart"
	"github.com/Starkiller645/economist/internal/config"
	"github.com/Starkiller645/economist/internal/data/postgres"
	"github.com/Starkiller645/economist/internal/logger"
	"github.com/Starkiller645/economist/internal/market"
	"github.com/Starkiller645/economist/internal/platform/messaging/producers"
	"github.com/Starkiller645/economist/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("economist")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Economist",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	// Initialize database with app context (runs migrations on connect)
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	currencyRepo := postgres.NewCurrencyRepository(log, postgresDB)
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	recordRepo := postgres.NewRecordRepository(log, postgresDB)

	// Initialize Kafka record announcement producer
	recordProducer, err := producers.NewRecordEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize record event producer", "error", err)
		os.Exit(1)
	}

	// Initialize chart export pipeline
	chartPublisher := chart.NewPublisher(&cfg.Chart, log)
	chartExporter := chart.NewExporter(&cfg.Chart, recordRepo, chartPublisher, log)

	// Initialize the valuation worker
	sampler, err := market.NewSampler(&cfg.Market, currencyRepo, log)
	if err != nil {
		log.Error("Failed to initialize market sampler", "error", err)
		os.Exit(1)
	}
	materializer, err := market.NewMaterializer(recordRepo, chartExporter, recordProducer, cfg.WorkerPool.Size, log)
	if err != nil {
		log.Error("Failed to initialize record materializer", "error", err)
		os.Exit(1)
	}
	worker := market.NewWorker(&cfg.Market, sampler, materializer, log)

	// Initialize the Discord gateway
	registry := bot.NewRegistry(log)
	registry.Register(handlers.NewCreate(currencyRepo, log))
	registry.Register(handlers.NewDelete(currencyRepo, log))
	registry.Register(handlers.NewReserve(currencyRepo, transactionRepo, log))
	registry.Register(handlers.NewCirculation(currencyRepo, transactionRepo, log))
	registry.Register(handlers.NewModify(currencyRepo, log))
	registry.Register(handlers.NewList(currencyRepo, log))
	registry.Register(handlers.NewView(currencyRepo, recordRepo, &cfg.Chart, log))
	registry.Register(handlers.NewRecords(currencyRepo, recordRepo, log))

	discordBot, err := bot.New(log, &cfg.Discord, registry)
	if err != nil {
		log.Error("Failed to initialize discord gateway", "error", err)
		os.Exit(1)
	}

	// Initialize ops HTTP server
	server := api.NewServer(log, cfg, postgresDB)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start the valuation worker in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(appCtx)
	}()

	// Open the Discord gateway
	if err := discordBot.Start(); err != nil {
		log.Error("Failed to open discord gateway", "error", err)
		cancelAppCtx()
		wg.Wait()
		os.Exit(1)
	}

	// Start the ops server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("Ops server error", "error", err)
			cancelAppCtx()
		}
	}()

	// Wait for termination signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("Received shutdown signal", "signal", sig.String())
	case <-appCtx.Done():
		log.Info("Shutting down due to context cancellation")
	}

	// Graceful shutdown
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	worker.Halt()
	cancelAppCtx()
	wg.Wait()
	materializer.Shutdown()

	if err := discordBot.Stop(); err != nil {
		log.Error("Failed to close discord gateway", "error", err)
	}
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop ops server", "error", err)
	}
	if err := recordProducer.Close(); err != nil {
		log.Error("Failed to close record event producer", "error", err)
	}
	postgresDB.Close()

	// Give in-flight log writes a moment to drain
	time.Sleep(100 * time.Millisecond)
	log.Info("Economist shut down cleanly")
}
