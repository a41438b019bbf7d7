package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photointake/shared/logging"
	"photointake/shared/minio"
	"photointake/worker/internal/archive"
	"photointake/worker/internal/config"
	"photointake/worker/internal/queue"
	"photointake/worker/internal/worker"
	"photointake/worker/internal/wordpress"

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

	logger.Info("Starting worker service...")

	// Initialize RabbitMQ connection
	queueConn, err := queue.NewConnection(cfg.RabbitMQ)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer queueConn.Close()

	logger.Info("RabbitMQ connected successfully")

	// Initialize the publishing backend client
	backend := wordpress.NewClient(cfg.WordPress, logger)

	// Initialize optional photo archival
	var archiver worker.Archiver
	if cfg.Archive.Enabled {
		minioClient, err := minio.New(cfg.MinIO)
		if err != nil {
			logger.Fatal("Failed to initialize MinIO client", zap.Error(err))
		}
		archiver = archive.New(minioClient, cfg.Archive.Prefix, logger)
		logger.Info("Photo archival enabled", zap.String("bucket", cfg.MinIO.Bucket))
	}

	// Initialize worker
	w := worker.New(queueConn, backend, archiver, cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := w.Start(ctx); err != nil {
			logger.Error("Consumer failed", zap.Error(err))
		}
	}()

	logger.Info("Worker started")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()

	// Give the in-flight job time to finish
	time.Sleep(5 * time.Second)
	logger.Info("Worker service exited")
}
