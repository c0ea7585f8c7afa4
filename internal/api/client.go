package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/mhartig/shopfront/internal/metrics"
	"github.com/mhartig/shopfront/internal/platform/correlation"
)

const defaultTimeout = 10 * time.Second

// Request describes one outbound call. Ephemeral: built per call, never
// reused. Header entries never override Content-Type.
type Request struct {
	// Op labels the call in metrics and logs (e.g. "login").
	Op     string
	Method string
	Path   string
	// Body is JSON-encoded when non-nil.
	Body   any
	Header http.Header
}

// Options tune the client. The zero value gives the default timeout, no
// rate limiting, and the default transport.
type Options struct {
	// Timeout bounds each call end to end. Zero means defaultTimeout;
	// negative disables the per-call deadline.
	Timeout time.Duration
	// RateLimit caps outbound requests per second; zero disables.
	RateLimit float64
	// HTTPClient overrides the underlying transport; used by tests.
	HTTPClient *http.Client
}

// Client is the gateway through which every remote call flows. Safe for
// concurrent use; the cached access token is the only mutable state.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter

	mu          sync.RWMutex
	accessToken string
}

// New creates a gateway client for the given base endpoint.
func New(baseURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "api-gateway",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		Timeout: 30 * time.Second,
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Gateway circuit breaker state changed",
				"from", from.String(),
				"to", to.String(),
			)
			metrics.APIBreakerStateChanges.WithLabelValues(to.String()).Inc()
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: httpClient,
		breaker:    breaker,
		limiter:    limiter,
	}
}

// SetAccessToken replaces the cached bearer token used on subsequent
// requests. An empty string clears it. Side-effect only, no network call.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// AccessToken returns the currently cached bearer token, empty if none.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// BaseURL returns the configured base endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send issues one request and maps it to exactly one of three outcomes:
// decoded payload, application error, or transport error. It never panics
// and never returns a Go error; remote failures live inside the Result.
func Send[T any](ctx context.Context, c *Client, req Request) Result[T] {
	op := req.Op
	if op == "" {
		op = req.Method + " " + req.Path
	}

	ctx, id := correlation.Ensure(ctx)
	start := time.Now()

	result := send[T](ctx, c, req, id)

	metrics.APIRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	switch {
	case result.Ok():
		metrics.APIRequestsTotal.WithLabelValues(op, "success").Inc()
		slog.DebugContext(ctx, "API request completed", "operation", op, "duration", time.Since(start))
	case result.Err.Transport:
		metrics.APIRequestsTotal.WithLabelValues(op, "transport_error").Inc()
		slog.WarnContext(ctx, "API request failed in transport", "operation", op, "error", result.Err.Message)
	default:
		metrics.APIRequestsTotal.WithLabelValues(op, "api_error").Inc()
		slog.DebugContext(ctx, "API request rejected", "operation", op, "status", result.Err.Status, "error", result.Err.Message)
	}

	return result
}

func send[T any](ctx context.Context, c *Client, req Request, correlationID string) Result[T] {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return transportFailure[T]("request rate limited: %v", err)
		}
	}

	var bodyReader io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return transportFailure[T]("failed to encode request body: %v", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, bodyReader)
	if err != nil {
		return transportFailure[T]("failed to create request: %v", err)
	}

	for key, values := range req.Header {
		if http.CanonicalHeaderKey(key) == "Content-Type" {
			continue
		}
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(correlation.Header, correlationID)

	if token := c.AccessToken(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	raw, err := c.breaker.Execute(func() (any, error) {
		return c.httpClient.Do(httpReq)
	})
	if err != nil {
		return transportFailure[T]("request failed: %v", err)
	}
	resp := raw.(*http.Response)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure[T]("failed to read response body: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure[T](normalizeError(resp.StatusCode, body))
	}

	var data T
	if len(bytes.TrimSpace(body)) == 0 || !isJSONResponse(resp) {
		// No content: callers expecting a payload see the zero value.
		return success(data)
	}

	if err := json.Unmarshal(body, &data); err != nil {
		return transportFailure[T]("failed to decode response body: %v", err)
	}
	return success(data)
}

// normalizeError maps a non-2xx response onto the server's error contract,
// falling back to a generic message when the body is not shaped as expected.
func normalizeError(status int, body []byte) *CallError {
	var parsed struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}

	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		return &CallError{
			Message: parsed.Error,
			Details: parsed.Details,
			Status:  status,
		}
	}

	return &CallError{
		Message: fmt.Sprintf("HTTP error! status: %d", status),
		Status:  status,
	}
}

func isJSONResponse(resp *http.Response) bool {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		// Servers that omit the header still mostly speak JSON; let the
		// decoder decide.
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
