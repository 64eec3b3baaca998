package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/aigymos/gym-console/internal/domain/repositories"
)

var _ repositories.TextRecognizer = (*Client)(nil)

// ErrNotConfigured is returned when no recognizer URL is set
var ErrNotConfigured = errors.New("text recognizer not configured")

// Client calls an external text-recognition service. The image is sent as
// the raw request body; the service answers {"text": "..."}.
type Client struct {
	url        string
	apiKey     string
	http       *http.Client
	maxRetries uint64
	initial    time.Duration
	logger     *zap.Logger
}

// Options configures the recognizer client
type Options struct {
	URL                  string
	APIKey               string
	Timeout              time.Duration
	MaxRetries           uint64
	RetryInitialInterval time.Duration
	Logger               *zap.Logger
}

// NewClient creates a recognizer client. An empty URL yields a client whose
// Recognize always fails with ErrNotConfigured.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	initial := opts.RetryInitialInterval
	if initial <= 0 {
		initial = 500 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:        opts.URL,
		apiKey:     opts.APIKey,
		http:       &http.Client{Timeout: timeout},
		maxRetries: opts.MaxRetries,
		initial:    initial,
		logger:     logger,
	}
}

type recognizeResponse struct {
	Text string `json:"text"`
}

// Recognize returns the text found in image
func (c *Client) Recognize(ctx context.Context, image []byte, contentType string) (string, error) {
	if c.url == "" {
		return "", ErrNotConfigured
	}

	var text string
	attempt := 0
	operation := func() error {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(image))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			c.logger.Warn("ocr.recognize.failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			statusErr := fmt.Errorf("recognizer returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				c.logger.Warn("ocr.recognize.retryable_status",
					zap.Int("attempt", attempt),
					zap.Int("status", resp.StatusCode),
				)
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		var out recognizeResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode recognizer response: %w", err))
		}
		text = out.Text
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initial
	bo.MaxElapsedTime = 45 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx)); err != nil {
		return "", err
	}
	return text, nil
}
