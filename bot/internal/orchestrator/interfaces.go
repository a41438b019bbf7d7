package orchestrator

import (
	"context"
	"io"
)

// QueuePublisher describes the minimal queue publisher behavior the
// orchestrator depends on. It intentionally matches the signature of
// queue.Publisher so another implementation can be swapped in.
type QueuePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// FileFetcher abstracts the chat transport's file endpoint. The transport
// layer provides the HTTP implementation.
type FileFetcher interface {
	Fetch(ctx context.Context, fileID string) (io.ReadCloser, error)
}
