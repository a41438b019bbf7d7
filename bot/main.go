package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photointake/bot/internal/config"
	"photointake/bot/internal/intake"
	"photointake/bot/internal/orchestrator"
	"photointake/bot/internal/queue"
	"photointake/bot/internal/session"
	"photointake/bot/internal/transport"
	"photointake/shared/logging"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting bot service...")

	// Initialize RabbitMQ connection
	queueConn, err := queue.NewConnection(cfg.RabbitMQ)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer queueConn.Close()

	logger.Info("RabbitMQ connected successfully")

	// Initialize publisher and submission orchestrator
	publisher := queue.NewPublisher(queueConn)
	fetcher := transport.NewHTTPFileFetcher(cfg.Transport.FileBase)
	orch := orchestrator.New(publisher, fetcher, cfg.Intake.TempDir, logger)

	// Initialize the conversation engine
	store := session.NewMemoryStore()
	engine := intake.New(store, orch, intake.Config{
		AccessPassword: cfg.Intake.AccessPassword,
		MaxPhotoBytes:  cfg.Intake.MaxPhotoBytes,
	}, logger)

	// Initialize router
	r := transport.NewRouter(engine, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting webhook server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
