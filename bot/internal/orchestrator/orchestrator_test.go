package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"photointake/bot/internal/session"
	"photointake/shared/models"
	"photointake/shared/queue"

	"go.uber.org/zap"
)

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

type mockPublisher struct {
	lastRoutingKey string
	lastMessage    interface{}
	publishCount   int
	err            error
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.lastRoutingKey = routingKey
	m.lastMessage = message
	m.publishCount++
	return nil
}

func TestDownloadWritesFile(t *testing.T) {
	dir := t.TempDir()
	o := New(&mockPublisher{}, &fakeFetcher{data: []byte("jpeg-bytes")}, dir, zap.NewNop())

	path, err := o.Download(context.Background(), 7, "file-1")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("expected file under %s, got %s", dir, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if string(content) != "jpeg-bytes" {
		t.Fatalf("unexpected file content %q", content)
	}
}

func TestDownloadFetchFailure(t *testing.T) {
	dir := t.TempDir()
	o := New(&mockPublisher{}, &fakeFetcher{err: fmt.Errorf("network down")}, dir, zap.NewNop())

	if _, err := o.Download(context.Background(), 7, "file-1"); err == nil {
		t.Fatalf("expected error from failed fetch")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no leftover files, found %d", len(entries))
	}
}

func TestEnqueuePublishesJob(t *testing.T) {
	dir := t.TempDir()
	photoPath := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(photoPath, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("failed to write photo: %v", err)
	}

	pub := &mockPublisher{}
	o := New(pub, &fakeFetcher{}, dir, zap.NewNop())

	sess := &session.Session{
		Step:        session.StepAwaitingConfirmation,
		DisplayName: "Ivan Petrov",
		PhotoPath:   photoPath,
	}
	if err := o.Enqueue(context.Background(), 7, "ivan", sess); err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	if pub.publishCount != 1 {
		t.Fatalf("expected one publish, got %d", pub.publishCount)
	}
	if pub.lastRoutingKey != queue.RouteSubmission {
		t.Fatalf("unexpected routing key %q", pub.lastRoutingKey)
	}

	job := pub.lastMessage.(models.SubmissionJob)
	if job.UserID != 7 || job.Username != "ivan" || job.DisplayName != "Ivan Petrov" || job.PhotoPath != photoPath {
		t.Fatalf("incomplete job: %+v", job)
	}
	if job.JobID == "" || job.EnqueuedAt == "" {
		t.Fatalf("expected job id and timestamp: %+v", job)
	}

	// The orchestrator must not delete a handed-off file.
	if _, err := os.Stat(photoPath); err != nil {
		t.Fatalf("photo file must survive enqueue: %v", err)
	}
}

func TestEnqueueRequiresReadablePhoto(t *testing.T) {
	pub := &mockPublisher{}
	o := New(pub, &fakeFetcher{}, t.TempDir(), zap.NewNop())

	sess := &session.Session{DisplayName: "Ivan"}
	if err := o.Enqueue(context.Background(), 7, "ivan", sess); err == nil {
		t.Fatalf("expected error for session without photo")
	}

	sess.PhotoPath = "/nonexistent/photo.jpg"
	if err := o.Enqueue(context.Background(), 7, "ivan", sess); err == nil {
		t.Fatalf("expected error for missing photo file")
	}

	if pub.publishCount != 0 {
		t.Fatalf("nothing should be published, got %d", pub.publishCount)
	}
}

func TestDiscardRemovesPhotoOnce(t *testing.T) {
	dir := t.TempDir()
	photoPath := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(photoPath, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("failed to write photo: %v", err)
	}

	o := New(&mockPublisher{}, &fakeFetcher{}, dir, zap.NewNop())
	sess := &session.Session{PhotoPath: photoPath}

	o.Discard(sess)
	if sess.PhotoPath != "" {
		t.Fatalf("expected photo path cleared")
	}
	if _, err := os.Stat(photoPath); !os.IsNotExist(err) {
		t.Fatalf("expected photo deleted")
	}

	// A second discard (and a discard of an empty session) is a no-op.
	o.Discard(sess)
	o.Discard(nil)
}
