package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"photointake/shared/models"
	sharedqueue "photointake/shared/queue"
	"photointake/worker/internal/config"
	"photointake/worker/internal/queue"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// requeue re-publishes a dropped submission from a saved job payload. The
// worker never retries on its own, so this is the manual recovery path when
// the backend was down and the failure was only logged.
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	file := flag.String("file", "", "path to a JSON file containing the SubmissionJob payload")
	freshID := flag.Bool("fresh-id", true, "assign a new job_id before publishing")
	flag.Parse()

	if *file == "" {
		log.Fatal("-file is required")
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	body, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("failed to read payload: %v", err)
	}

	var job models.SubmissionJob
	if err := json.Unmarshal(body, &job); err != nil {
		log.Fatalf("failed to parse payload: %v", err)
	}
	if job.PhotoPath == "" || job.DisplayName == "" {
		log.Fatal("payload is missing photo_path or display_name")
	}
	if _, err := os.Stat(job.PhotoPath); err != nil {
		log.Fatalf("photo file is not readable: %v", err)
	}

	if *freshID || job.JobID == "" {
		job.JobID = uuid.New().String()
	}
	job.EnqueuedAt = time.Now().Format(time.RFC3339)

	conn, err := queue.NewConnection(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	pub := queue.NewPublisher(conn)
	if err := pub.Publish(context.Background(), sharedqueue.RouteSubmission, job); err != nil {
		log.Fatalf("failed to publish job: %v", err)
	}

	logger.Info("submission requeued",
		zap.String("job_id", job.JobID),
		zap.Int64("user_id", job.UserID),
		zap.String("photo_path", job.PhotoPath),
	)
}
