package net

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/ratelimit"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/errors"
	"github.com/harmonyconnect/harmony-sdk-go/pkg/logtrace"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/codec"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/config"
	"github.com/harmonyconnect/harmony-sdk-go/sdk/log"
)

const (
	headerAppID  = "app_id"
	headerAppKey = "app_key"

	maxResponseBytes = 16 << 20
	maxErrorBodyLen  = 512
)

// HTTPDispatcher is the net/http implementation of Dispatcher.
type HTTPDispatcher struct {
	baseURL    string
	appID      string
	appKey     string
	userAgent  string
	maxRetries int

	httpClient *http.Client
	limiter    ratelimit.Limiter
	logger     log.Logger

	newBackOff func() backoff.BackOff
}

// Verify interface compliance at compile time
var _ Dispatcher = (*HTTPDispatcher)(nil)

// Option customizes an HTTPDispatcher.
type Option func(*HTTPDispatcher)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(d *HTTPDispatcher) {
		if c != nil {
			d.httpClient = c
		}
	}
}

// WithBackOff sets the retry schedule used for GET requests.
func WithBackOff(fn func() backoff.BackOff) Option {
	return func(d *HTTPDispatcher) {
		if fn != nil {
			d.newBackOff = fn
		}
	}
}

// NewDispatcher creates a dispatcher for cfg. cfg is validated first.
func NewDispatcher(cfg config.Config, logger log.Logger, opts ...Option) (*HTTPDispatcher, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RateLimitPerSecond > 0 {
		limiter = ratelimit.New(cfg.RateLimitPerSecond)
	}

	d := &HTTPDispatcher{
		baseURL:    cfg.BaseURL,
		appID:      cfg.AppID,
		appKey:     cfg.AppKey,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		logger:     logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxElapsedTime = 30 * time.Second
			return b
		},
	}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// Get issues a GET. Transport errors, 429 and 5xx responses are retried up
// to the configured MaxRetries.
func (d *HTTPDispatcher) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	target := path
	if len(query) > 0 {
		target = path + "?" + query.Encode()
	}

	if d.maxRetries == 0 {
		return d.do(ctx, http.MethodGet, target, nil, out)
	}

	attempt := 0
	op := func() error {
		attempt++
		err := d.do(ctx, http.MethodGet, target, nil, out)
		if err == nil {
			return nil
		}
		var re *RemoteError
		if errors.As(err, &re) && re.Temporary() && ctx.Err() == nil {
			d.logger.Warn(ctx, "Retrying request", logtrace.FieldPath, path, logtrace.FieldAttempt, attempt, logtrace.FieldError, err.Error())
			return err
		}
		return backoff.Permanent(err)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(d.newBackOff(), uint64(d.maxRetries)), ctx)
	return backoff.Retry(op, b)
}

// Post issues a POST with body encoded as JSON. POSTs are never retried.
func (d *HTTPDispatcher) Post(ctx context.Context, path string, body interface{}, out interface{}) error {
	raw, err := codec.JSON.Marshal(body)
	if err != nil {
		return errors.Errorf("marshal request body: %w", err)
	}
	return d.do(ctx, http.MethodPost, path, raw, out)
}

func (d *HTTPDispatcher) do(ctx context.Context, method, target string, body []byte, out interface{}) error {
	ctx = logtrace.EnsureCorrelationID(ctx)
	path := target
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+target, reader)
	if err != nil {
		return &RemoteError{Method: method, Path: path, Err: errors.Errorf("create request: %w", err)}
	}
	req.Header.Set(headerAppID, d.appID)
	req.Header.Set(headerAppKey, d.appKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", d.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	d.limiter.Take()

	start := time.Now()
	d.logger.Debug(ctx, "Sending request", logtrace.FieldMethod, method, logtrace.FieldPath, path)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Error(ctx, "Request failed", logtrace.FieldMethod, method, logtrace.FieldPath, path, logtrace.FieldError, err.Error())
		return &RemoteError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &RemoteError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: errors.Errorf("read response: %w", err)}
	}

	d.logger.Debug(ctx, "Received response",
		logtrace.FieldMethod, method,
		logtrace.FieldPath, path,
		logtrace.FieldStatusCode, resp.StatusCode,
		"elapsed", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       truncate(strings.TrimSpace(string(respBody)), maxErrorBodyLen),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := codec.JSON.Unmarshal(respBody, out); err != nil {
		return &RemoteError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: errors.Errorf("decode response: %w", err)}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
