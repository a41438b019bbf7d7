package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photointake/shared/models"
	"photointake/worker/internal/config"
	"photointake/worker/internal/wordpress"

	"go.uber.org/zap"
)

type stubBackend struct {
	media       *wordpress.Media
	uploadErr   error
	uploadCalls int

	postLink    string
	postErr     error
	postCalls   int
	lastTitle   string
	lastMediaID int64
}

func (b *stubBackend) UploadMedia(ctx context.Context, path string) (*wordpress.Media, error) {
	b.uploadCalls++
	if b.uploadErr != nil {
		return nil, b.uploadErr
	}
	return b.media, nil
}

func (b *stubBackend) CreatePost(ctx context.Context, title string, mediaID int64) (string, error) {
	b.postCalls++
	b.lastTitle = title
	b.lastMediaID = mediaID
	if b.postErr != nil {
		return "", b.postErr
	}
	return b.postLink, nil
}

type stubArchiver struct {
	calls   int
	lastJob models.SubmissionJob
	err     error
}

func (a *stubArchiver) Store(ctx context.Context, job models.SubmissionJob) error {
	a.calls++
	a.lastJob = job
	return a.err
}

func newTestWorker(backend Backend, archiver Archiver) *Worker {
	return &Worker{
		backend:  backend,
		archiver: archiver,
		config:   &config.Config{},
		logger:   zap.NewNop(),
	}
}

func writeJobPhoto(t *testing.T) models.SubmissionJob {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.jpg")
	if err := os.WriteFile(path, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("failed to write photo: %v", err)
	}
	return models.SubmissionJob{
		JobID:       "job-1",
		UserID:      7,
		Username:    "ivan",
		DisplayName: "Ivan Petrov",
		PhotoPath:   path,
	}
}

func TestProcessJobSuccess(t *testing.T) {
	backend := &stubBackend{
		media:    &wordpress.Media{ID: 42},
		postLink: "https://example.org/p/42",
	}
	w := newTestWorker(backend, nil)
	job := writeJobPhoto(t)

	if err := w.processJob(context.Background(), job); err != nil {
		t.Fatalf("processJob returned error: %v", err)
	}

	if backend.uploadCalls != 1 || backend.postCalls != 1 {
		t.Fatalf("unexpected call counts: upload=%d post=%d", backend.uploadCalls, backend.postCalls)
	}
	if backend.lastTitle != "Ivan Petrov" || backend.lastMediaID != 42 {
		t.Fatalf("unexpected post args: title=%q media=%d", backend.lastTitle, backend.lastMediaID)
	}
	if _, err := os.Stat(job.PhotoPath); !os.IsNotExist(err) {
		t.Fatalf("expected photo deleted after success")
	}
}

func TestProcessJobUploadFailure(t *testing.T) {
	backend := &stubBackend{uploadErr: fmt.Errorf("upload failed")}
	w := newTestWorker(backend, nil)
	job := writeJobPhoto(t)

	if err := w.processJob(context.Background(), job); err == nil {
		t.Fatalf("expected error from failed upload")
	}

	// Post creation must never run without a media id, and the file must
	// still be cleaned up.
	if backend.postCalls != 0 {
		t.Fatalf("post creation should not be attempted, got %d calls", backend.postCalls)
	}
	if _, err := os.Stat(job.PhotoPath); !os.IsNotExist(err) {
		t.Fatalf("expected photo deleted after upload failure")
	}
}

func TestProcessJobPostFailureStillCleansUp(t *testing.T) {
	backend := &stubBackend{
		media:   &wordpress.Media{ID: 42},
		postErr: fmt.Errorf("post failed"),
	}
	w := newTestWorker(backend, nil)
	job := writeJobPhoto(t)

	if err := w.processJob(context.Background(), job); err == nil {
		t.Fatalf("expected error from failed post creation")
	}
	if _, err := os.Stat(job.PhotoPath); !os.IsNotExist(err) {
		t.Fatalf("expected photo deleted after post failure")
	}
}

func TestProcessJobArchivesPublishedPhoto(t *testing.T) {
	backend := &stubBackend{
		media:    &wordpress.Media{ID: 42},
		postLink: "https://example.org/p/42",
	}
	archiver := &stubArchiver{}
	w := newTestWorker(backend, archiver)
	job := writeJobPhoto(t)

	if err := w.processJob(context.Background(), job); err != nil {
		t.Fatalf("processJob returned error: %v", err)
	}
	if archiver.calls != 1 || archiver.lastJob.JobID != "job-1" {
		t.Fatalf("expected one archive call for job-1, got %d (%+v)", archiver.calls, archiver.lastJob)
	}
}

func TestProcessJobArchiveFailureIsNotFatal(t *testing.T) {
	backend := &stubBackend{
		media:    &wordpress.Media{ID: 42},
		postLink: "https://example.org/p/42",
	}
	archiver := &stubArchiver{err: fmt.Errorf("bucket gone")}
	w := newTestWorker(backend, archiver)
	job := writeJobPhoto(t)

	if err := w.processJob(context.Background(), job); err != nil {
		t.Fatalf("archive failure must not fail the job: %v", err)
	}
	if backend.postCalls != 1 {
		t.Fatalf("post creation should still run, got %d calls", backend.postCalls)
	}
}

func TestProcessJobMissingFileUploadErrorPath(t *testing.T) {
	backend := &stubBackend{uploadErr: fmt.Errorf("open: no such file")}
	w := newTestWorker(backend, nil)
	job := models.SubmissionJob{JobID: "job-2", PhotoPath: "/nonexistent/photo.jpg"}

	// Cleanup of an already-missing file must be a silent no-op.
	if err := w.processJob(context.Background(), job); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRateLimiter(t *testing.T) {
	var nilLimiter *rateLimiter
	if err := nilLimiter.Wait(context.Background()); err != nil {
		t.Fatalf("nil limiter must not block: %v", err)
	}

	rl := newRateLimiter(2, 100*time.Millisecond)
	if rl == nil {
		t.Fatalf("expected a limiter")
	}
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first wait should pass immediately: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rl2 := newRateLimiter(1, time.Hour)
	_ = rl2.Wait(context.Background()) // consume the initial token
	if err := rl2.Wait(ctx); err == nil {
		t.Fatalf("expected context cancellation error")
	}

	if newRateLimiter(0, time.Second) != nil {
		t.Fatalf("zero limit must disable the limiter")
	}
}
