package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"photointake/shared/config"

	"go.uber.org/zap"
)

// ErrNoMediaID is returned when the media upload succeeds at the HTTP level
// but the response carries no usable media identifier.
var ErrNoMediaID = errors.New("media upload returned no id")

// Client calls the WordPress-style publishing backend.
type Client struct {
	baseURL  string
	user     string
	password string
	client   *http.Client
	logger   *zap.Logger
}

// Media is the media-upload response subset the worker needs.
type Media struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url,omitempty"`
}

// PublishResult describes a completed publish; logged, never persisted.
type PublishResult struct {
	MediaID  int64
	PostLink string
}

// NewClient creates a backend client.
func NewClient(cfg config.WordPressConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		user:     cfg.User,
		password: cfg.Password,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// UploadMedia uploads the file as multipart form data and returns the media
// record. Any non-2xx response is a failure.
func (c *Client) UploadMedia(ctx context.Context, path string) (*Media, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	url := fmt.Sprintf("%s/media", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call media API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("media API returned status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	var media Media
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return nil, fmt.Errorf("failed to decode media response: %w", err)
	}
	if media.ID == 0 {
		return nil, ErrNoMediaID
	}

	c.logger.Info("media uploaded",
		zap.Int64("media_id", media.ID),
		zap.String("source_url", media.SourceURL),
	)
	return &media, nil
}

// CreatePost publishes a post with the media as featured image and returns
// the public link.
func (c *Client) CreatePost(ctx context.Context, title string, mediaID int64) (string, error) {
	payload := map[string]interface{}{
		"title":          title,
		"status":         "publish",
		"featured_media": mediaID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal post: %w", err)
	}

	url := fmt.Sprintf("%s/posts", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call posts API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("posts API returned status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	var post struct {
		Link string `json:"link"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return "", fmt.Errorf("failed to decode post response: %w", err)
	}

	return post.Link, nil
}

// readErrorBody returns a short snippet of an error response for logging.
func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
