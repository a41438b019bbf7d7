package orchestrator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"photointake/bot/internal/session"
	"photointake/shared/models"
	"photointake/shared/queue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Submission owns the hand-off from a finished conversation to the queue:
// it downloads attachments into the shared temp dir, builds the job payload,
// and publishes it. Custody of the photo file transfers to the queued job at
// publish time; the orchestrator never deletes a handed-off file.
type Submission struct {
	publisher QueuePublisher
	fetcher   FileFetcher
	tempDir   string
	logger    *zap.Logger
}

// New builds a Submission orchestrator.
func New(publisher QueuePublisher, fetcher FileFetcher, tempDir string, logger *zap.Logger) *Submission {
	return &Submission{
		publisher: publisher,
		fetcher:   fetcher,
		tempDir:   tempDir,
		logger:    logger,
	}
}

// Download fetches the attachment into the temp dir and returns the local
// path. A partially written file is removed on failure, so the caller either
// gets a complete file or none at all.
func (o *Submission) Download(ctx context.Context, userID int64, fileID string) (string, error) {
	if err := os.MkdirAll(o.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}

	body, err := o.fetcher.Fetch(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch attachment: %w", err)
	}
	defer body.Close()

	path := filepath.Join(o.tempDir, fmt.Sprintf("photo_%d_%s.jpg", userID, uuid.New().String()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return path, nil
}

// Enqueue builds the SubmissionJob from the session and publishes it. The
// photo file must still exist at publish time.
func (o *Submission) Enqueue(ctx context.Context, userID int64, username string, sess *session.Session) error {
	if sess.PhotoPath == "" {
		return fmt.Errorf("session has no photo to submit")
	}
	if _, err := os.Stat(sess.PhotoPath); err != nil {
		return fmt.Errorf("photo file is not readable: %w", err)
	}

	job := models.SubmissionJob{
		JobID:       uuid.New().String(),
		UserID:      userID,
		Username:    username,
		DisplayName: sess.DisplayName,
		PhotoPath:   sess.PhotoPath,
		EnqueuedAt:  time.Now().Format(time.RFC3339),
	}

	if err := o.publisher.Publish(ctx, queue.RouteSubmission, job); err != nil {
		return fmt.Errorf("publish submission: %w", err)
	}

	o.logger.Info("submission published",
		zap.String("job_id", job.JobID),
		zap.Int64("user_id", userID),
		zap.String("display_name", job.DisplayName),
		zap.String("photo_path", job.PhotoPath),
	)
	return nil
}

// Discard deletes the session's pending photo, if any, and clears the path.
// A missing file is not an error.
func (o *Submission) Discard(sess *session.Session) {
	if sess == nil || sess.PhotoPath == "" {
		return
	}
	if err := os.Remove(sess.PhotoPath); err != nil && !os.IsNotExist(err) {
		o.logger.Warn("failed to remove pending photo",
			zap.String("photo_path", sess.PhotoPath),
			zap.Error(err),
		)
	}
	sess.PhotoPath = ""
}
