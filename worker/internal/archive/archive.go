package archive

import (
	"context"
	"fmt"
	"os"
	"path"

	"photointake/shared/minio"
	"photointake/shared/models"

	miniosdk "github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archiver copies published photos into object storage before the local
// file is removed. Archival is best-effort; a failure never blocks cleanup.
type Archiver struct {
	client *minio.Client
	prefix string
	logger *zap.Logger
}

// New creates an archiver writing under the given key prefix.
func New(client *minio.Client, prefix string, logger *zap.Logger) *Archiver {
	return &Archiver{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

// Store uploads the job's photo keyed by job ID.
func (a *Archiver) Store(ctx context.Context, job models.SubmissionJob) error {
	f, err := os.Open(job.PhotoPath)
	if err != nil {
		return fmt.Errorf("failed to open photo: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat photo: %w", err)
	}

	key := path.Join(a.prefix, job.JobID+".jpg")
	if _, err := a.client.PutObject(
		ctx,
		a.client.Bucket(),
		key,
		f,
		stat.Size(),
		miniosdk.PutObjectOptions{ContentType: "image/jpeg"},
	); err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}

	a.logger.Info("photo archived",
		zap.String("job_id", job.JobID),
		zap.String("key", key),
	)
	return nil
}
