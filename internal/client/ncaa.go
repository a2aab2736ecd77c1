package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"wbb_analytics/ingestion/internal/metrics"
)

// FailKind classifies a fetch failure for retry policy and logging.
type FailKind string

const (
	FailHTTP    FailKind = "http"
	FailTimeout FailKind = "timeout"
	FailNetwork FailKind = "network"
)

// FetchError is a terminal upstream failure after the retry budget is spent
// (or for statuses that are never retried).
type FetchError struct {
	Kind   FailKind
	Status int
	Path   string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == FailHTTP {
		return fmt.Sprintf("fetch failed with status %d for %s", e.Status, e.Path)
	}
	return fmt.Sprintf("fetch failed (%s) for %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// retryableStatus reports whether an HTTP status is worth retrying.
// 428 is the upstream's "box score not ready yet" response.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusPreconditionRequired, // 428
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

const (
	// How many early failures per endpoint get logged before going quiet.
	failLogCap = 10

	// 428/502 mean the upstream has not assembled the box score yet;
	// back off harder than for ordinary transient statuses.
	notReadyDelay = 2 * time.Second
)

// Client fetches scoreboard and box-score JSON from the NCAA API with
// timeout, linear-backoff retry and a concurrency cap. It holds no
// cross-call aggregate state, so it is safe to call from many workers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sem        chan struct{} // concurrency cap across all in-flight requests
	maxRetries int
	retryDelay time.Duration
	boxDelay   time.Duration

	mu       sync.Mutex
	failLogs map[string]int // endpoint -> suppressed-after-N log counter
}

// NewClient creates a NCAA API client. maxConcurrent bounds in-flight
// requests, boxDelay is the minimum pause after each completed box-score
// request to stay under the upstream rate limit.
func NewClient(baseURL string, timeout time.Duration, maxRetries, maxConcurrent int, boxDelay time.Duration) *Client {
	sem := make(chan struct{}, maxConcurrent)
	for i := 0; i < maxConcurrent; i++ {
		sem <- struct{}{}
	}

	return &Client{
		baseURL:    baseURL,
		sem:        sem,
		maxRetries: maxRetries,
		retryDelay: 400 * time.Millisecond,
		boxDelay:   boxDelay,
		failLogs:   make(map[string]int),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchScoreboard fetches the day's scoreboard listing for the given sport
// and division.
func (c *Client) FetchScoreboard(ctx context.Context, sport, division string, day time.Time) (interface{}, error) {
	path := fmt.Sprintf("/scoreboard/%s/%s/%04d/%02d/%02d/all-conf",
		sport, division, day.Year(), int(day.Month()), day.Day())
	payload, err := c.get(ctx, path, "scoreboard")
	if err != nil {
		c.logFetchFailure("scoreboard", path, err)
		return nil, err
	}
	return payload, nil
}

// FetchBoxScore fetches one game's box score. After each completed request
// (success or failure) it holds the semaphore slot for the configured
// inter-request delay so concurrent workers cannot exceed the upstream's
// tolerated request rate.
func (c *Client) FetchBoxScore(ctx context.Context, gameID string) (interface{}, error) {
	path := fmt.Sprintf("/game/%s/boxscore", gameID)
	payload, err := c.get(ctx, path, "boxscore")

	if c.boxDelay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(c.boxDelay):
		}
	}

	if err != nil {
		c.logFetchFailure("boxscore", path, err)
		return nil, err
	}
	return payload, nil
}

// get performs a GET request with retry and backoff, returning decoded JSON.
func (c *Client) get(ctx context.Context, path, endpoint string) (interface{}, error) {
	fullURL := c.baseURL + path

	// Concurrency cap: acquire semaphore for the whole attempt sequence
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.sem:
	}
	defer func() { c.sem <- struct{}{} }()

	var lastErr *FetchError
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Linear backoff; harder for "not ready yet" responses
			backoff := c.retryDelay * time.Duration(attempt+1)
			if lastErr != nil && (lastErr.Status == http.StatusPreconditionRequired || lastErr.Status == http.StatusBadGateway) {
				backoff = notReadyDelay * time.Duration(attempt)
			}

			log.Debug().
				Str("url", fullURL).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		// The upstream rejects requests without browser-like headers
		req.Header.Set("User-Agent", "wbb-analytics-bot")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Referer", "https://www.ncaa.com/")
		req.Header.Set("Origin", "https://www.ncaa.com/")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = classifyTransportError(path, err)
			metrics.RecordAPICall(endpoint, string(lastErr.Kind), time.Since(start).Seconds())
			if attempt < c.maxRetries && ctx.Err() == nil {
				continue
			}
			return nil, lastErr
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = &FetchError{Kind: FailNetwork, Path: path, Err: err}
			if attempt < c.maxRetries {
				continue
			}
			return nil, lastErr
		}

		metrics.RecordAPICall(endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(start).Seconds())

		if resp.StatusCode == http.StatusOK {
			var payload interface{}
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, fmt.Errorf("failed to decode response for %s: %w", path, err)
			}
			return payload, nil
		}

		lastErr = &FetchError{Kind: FailHTTP, Status: resp.StatusCode, Path: path}
		if retryableStatus(resp.StatusCode) && attempt < c.maxRetries {
			log.Debug().
				Str("path", path).
				Int("status", resp.StatusCode).
				Int("attempt", attempt+1).
				Msg("Retryable status from upstream")
			continue
		}

		return nil, lastErr
	}

	return nil, lastErr
}

// classifyTransportError maps a connection-level error to a failure kind.
func classifyTransportError(path string, err error) *FetchError {
	kind := FailNetwork

	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		kind = FailTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = FailTimeout
	}

	return &FetchError{Kind: kind, Path: path, Err: err}
}

// logFetchFailure logs the first few failures per endpoint then goes quiet;
// every failure is still counted in metrics.
func (c *Client) logFetchFailure(endpoint, path string, err error) {
	metrics.RecordFetchFailure(endpoint)

	c.mu.Lock()
	n := c.failLogs[endpoint]
	c.failLogs[endpoint] = n + 1
	c.mu.Unlock()

	if n < failLogCap {
		log.Warn().Str("path", path).Err(err).Msg("Upstream fetch failed")
	}
}
