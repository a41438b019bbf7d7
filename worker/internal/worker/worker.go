package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"photointake/shared/models"
	"photointake/shared/queue"
	"photointake/worker/internal/config"
	"photointake/worker/internal/wordpress"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	exchangeType = "topic"
)

// Backend describes the publishing calls the worker needs.
type Backend interface {
	UploadMedia(ctx context.Context, path string) (*wordpress.Media, error)
	CreatePost(ctx context.Context, title string, mediaID int64) (string, error)
}

// Archiver copies a published photo to long-term storage.
type Archiver interface {
	Store(ctx context.Context, job models.SubmissionJob) error
}

// Worker consumes submission jobs and publishes them to the backend.
type Worker struct {
	conn     *queue.Connection
	backend  Backend
	archiver Archiver // nil when archival is disabled
	config   *config.Config
	logger   *zap.Logger
	limiter  *rateLimiter
}

// New creates a worker.
func New(conn *queue.Connection, backend Backend, archiver Archiver, cfg *config.Config, logger *zap.Logger) *Worker {
	return &Worker{
		conn:     conn,
		backend:  backend,
		archiver: archiver,
		config:   cfg,
		logger:   logger,
		limiter:  newRateLimiter(cfg.Consumer.RateLimit, cfg.Consumer.RateWindow),
	}
}

// Start consumes submission jobs until the context is cancelled. Deliveries
// are acknowledged only after terminal handling, so a crash mid-job leads to
// broker redelivery rather than a lost submission.
func (w *Worker) Start(ctx context.Context) error {
	ch, err := w.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		queue.ExchangeName,
		exchangeType,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		queue.RouteSubmission,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(
		q.Name,
		queue.RouteSubmission,
		queue.ExchangeName,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	if err := ch.Qos(w.config.Consumer.Prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	w.logger.Info("Started consumer", zap.String("queue", q.Name))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping consumer")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel closed")
			}
			if err := w.limiter.Wait(ctx); err != nil {
				_ = msg.Nack(false, true) // requeue, we are shutting down
				return nil
			}
			w.handleDelivery(ctx, msg)
		}
	}
}

// handleDelivery runs one delivery to a terminal state. Failed submissions
// are logged and dropped, never re-published by the worker; only broker
// redelivery of unacknowledged deliveries can retry them.
func (w *Worker) handleDelivery(ctx context.Context, msg amqp.Delivery) {
	var job models.SubmissionJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		w.logger.Error("Failed to decode submission",
			zap.Error(err),
			zap.String("message_id", msg.MessageId),
		)
		_ = msg.Nack(false, false)
		return
	}

	if err := w.processJob(ctx, job); err != nil {
		w.logger.Error("Submission failed",
			zap.String("job_id", job.JobID),
			zap.Int64("user_id", job.UserID),
			zap.String("username", job.Username),
			zap.Error(err),
		)
	}

	_ = msg.Ack(false)
}

// processJob uploads the photo, creates the post, and cleans up the local
// file. The file is deleted exactly once, success or failure.
func (w *Worker) processJob(ctx context.Context, job models.SubmissionJob) error {
	w.logger.Info("Processing submission",
		zap.String("job_id", job.JobID),
		zap.Int64("user_id", job.UserID),
		zap.String("display_name", job.DisplayName),
	)

	removed := false
	defer func() {
		if removed {
			return
		}
		removed = true
		w.removePhoto(job)
	}()

	media, err := w.backend.UploadMedia(ctx, job.PhotoPath)
	if err != nil {
		// Post creation is never attempted without a media id.
		return fmt.Errorf("upload media: %w", err)
	}

	if w.archiver != nil {
		if err := w.archiver.Store(ctx, job); err != nil {
			w.logger.Warn("Photo archive failed",
				zap.String("job_id", job.JobID),
				zap.Error(err),
			)
		}
	}

	link, err := w.backend.CreatePost(ctx, job.DisplayName, media.ID)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	result := wordpress.PublishResult{MediaID: media.ID, PostLink: link}
	w.logger.Info("Post created",
		zap.String("job_id", job.JobID),
		zap.Int64("user_id", job.UserID),
		zap.Int64("media_id", result.MediaID),
		zap.String("link", result.PostLink),
	)
	return nil
}

// removePhoto deletes the job's local file if it still exists.
func (w *Worker) removePhoto(job models.SubmissionJob) {
	if _, err := os.Stat(job.PhotoPath); err != nil {
		if !os.IsNotExist(err) {
			w.logger.Warn("Failed to stat photo",
				zap.String("photo_path", job.PhotoPath),
				zap.Error(err),
			)
		}
		return
	}
	if err := os.Remove(job.PhotoPath); err != nil {
		w.logger.Warn("Failed to remove photo",
			zap.String("photo_path", job.PhotoPath),
			zap.Error(err),
		)
	}
}
