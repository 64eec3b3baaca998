package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/aigymos/gym-console/internal/domain/entities"
	"github.com/aigymos/gym-console/internal/domain/repositories"
	"github.com/aigymos/gym-console/pkg/metrics"
)

const tracerName = "github.com/aigymos/gym-console/internal/infrastructure/backend"

var _ repositories.GymBackend = (*Client)(nil)

// Options configures the gym backend client
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
	// RetryInitialInterval is the first backoff step; later steps grow
	// exponentially.
	RetryInitialInterval time.Duration
	HTTPClient           *http.Client
	Logger               *zap.Logger
}

// Client talks to the gym REST backend on behalf of the signed-in user.
// It implements repositories.GymBackend.
type Client struct {
	baseURL    *url.URL
	http       *http.Client
	maxRetries uint64
	initial    time.Duration
	logger     *zap.Logger
	tracer     trace.Tracer
}

// NewClient creates a new backend client
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	initial := opts.RetryInitialInterval
	if initial <= 0 {
		initial = 200 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    base,
		http:       httpClient,
		maxRetries: opts.MaxRetries,
		initial:    initial,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
	}, nil
}

// StatusError is a non-2xx answer from the backend
type StatusError struct {
	Resource   string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend %s: status %d: %s", e.Resource, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend %s: status %d", e.Resource, e.StatusCode)
}

// Unwrap maps well-known statuses onto domain errors
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return entities.ErrRemoteNotFound
	case http.StatusUnauthorized:
		return entities.ErrRemoteUnauthorized
	case http.StatusForbidden:
		return entities.ErrForbidden
	}
	return nil
}

func (e *StatusError) retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// ListTasks fetches one page of tasks
func (c *Client) ListTasks(ctx context.Context, token string, page, pageSize int) (*entities.Page[entities.Task], error) {
	var out entities.Page[entities.Task]
	err := c.do(ctx, call{
		resource: "tasks",
		method:   http.MethodGet,
		path:     []string{"api", "v1", "tasks"},
		query:    pageQuery(page, pageSize),
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMembers fetches one page of members
func (c *Client) ListMembers(ctx context.Context, token string, page, pageSize int) (*entities.Page[entities.Member], error) {
	var out entities.Page[entities.Member]
	err := c.do(ctx, call{
		resource: "members",
		method:   http.MethodGet,
		path:     []string{"api", "v1", "members"},
		query:    pageQuery(page, pageSize),
		token:    token,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTaskStatus patches a task's status and returns the stored task
func (c *Client) UpdateTaskStatus(ctx context.Context, token, taskID string, status entities.TaskStatus) (*entities.Task, error) {
	var out entities.Task
	err := c.do(ctx, call{
		resource: "tasks.update",
		method:   http.MethodPatch,
		path:     []string{"api", "v1", "tasks", url.PathEscape(taskID)},
		token:    token,
		body:     entities.TaskStatusUpdate{Status: status},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Executive fetches the executive dashboard
func (c *Client) Executive(ctx context.Context, token string) (*entities.ExecutiveDashboard, error) {
	var out entities.ExecutiveDashboard
	if err := c.dashboard(ctx, token, entities.DashboardExecutive, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Commercial fetches the commercial dashboard
func (c *Client) Commercial(ctx context.Context, token string) (*entities.CommercialDashboard, error) {
	var out entities.CommercialDashboard
	if err := c.dashboard(ctx, token, entities.DashboardCommercial, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Operational fetches the operational dashboard
func (c *Client) Operational(ctx context.Context, token string) (*entities.OperationalDashboard, error) {
	var out entities.OperationalDashboard
	if err := c.dashboard(ctx, token, entities.DashboardOperational, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Retention fetches the retention dashboard
func (c *Client) Retention(ctx context.Context, token string) (*entities.RetentionDashboard, error) {
	var out entities.RetentionDashboard
	if err := c.dashboard(ctx, token, entities.DashboardRetention, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Churn fetches the monthly churn series
func (c *Client) Churn(ctx context.Context, token string) ([]entities.ChurnPoint, error) {
	var out []entities.ChurnPoint
	if err := c.dashboard(ctx, token, entities.DashboardChurn, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []entities.ChurnPoint{}
	}
	return out, nil
}

func (c *Client) dashboard(ctx context.Context, token string, source entities.DashboardSource, out any) error {
	return c.do(ctx, call{
		resource: "dashboards." + string(source),
		method:   http.MethodGet,
		path:     []string{"api", "v1", "dashboards", string(source)},
		token:    token,
	}, out)
}

type call struct {
	resource string
	method   string
	path     []string
	query    url.Values
	token    string
	body     any
}

// do sends one logical request, retrying transport failures, 5xx and 429
// with exponential backoff. Other statuses fail immediately.
func (c *Client) do(ctx context.Context, req call, out any) (err error) {
	endpoint := c.baseURL.JoinPath(req.path...)
	if len(req.query) > 0 {
		endpoint.RawQuery = req.query.Encode()
	}

	var payload []byte
	if req.body != nil {
		payload, err = json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", req.resource, err)
		}
	}

	ctx, span := c.tracer.Start(ctx, "backend."+req.resource,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.method),
			attribute.String("url.path", endpoint.Path),
		),
	)
	defer span.End()

	start := time.Now()
	status := "transport_error"
	attempts := 0
	defer func() {
		metrics.BackendRequestDuration.WithLabelValues(req.resource).Observe(time.Since(start).Seconds())
		metrics.BackendRequestsTotal.WithLabelValues(req.resource, status).Inc()
		span.SetAttributes(attribute.Int("backend.attempts", attempts))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	operation := func() error {
		attempts++

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint.String(), body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build %s request: %w", req.resource, err))
		}
		httpReq.Header.Set("Accept", "application/json")
		if payload != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if req.token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+req.token)
		}

		resp, err := c.http.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			c.logger.Warn("backend.request.failed",
				zap.String("resource", req.resource),
				zap.Int("attempt", attempts),
				zap.Error(err),
			)
			return fmt.Errorf("backend %s: %w", req.resource, err)
		}
		defer resp.Body.Close()

		status = strconv.Itoa(resp.StatusCode)
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			statusErr := &StatusError{
				Resource:   req.resource,
				StatusCode: resp.StatusCode,
				Detail:     readDetail(resp.Body),
			}
			if statusErr.retryable() {
				c.logger.Warn("backend.request.retryable_status",
					zap.String("resource", req.resource),
					zap.Int("status", resp.StatusCode),
					zap.Int("attempt", attempts),
				)
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s response: %w", req.resource, err))
		}
		return nil
	}

	return backoff.Retry(operation, c.backoff(ctx))
}

func (c *Client) backoff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initial
	bo.MaxInterval = 2 * time.Second
	bo.MaxElapsedTime = 15 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx)
}

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return q
}

// readDetail extracts FastAPI-style {"detail": ...} bodies, falling back to
// a truncated raw body.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var parsed struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &parsed) == nil && len(parsed.Detail) > 0 {
		var text string
		if json.Unmarshal(parsed.Detail, &text) == nil {
			return text
		}
		return string(parsed.Detail)
	}

	if len(raw) > 256 {
		raw = raw[:256]
	}
	return string(raw)
}

// IsStatus reports whether err carries the given backend status
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
