package routing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	maxAttempts  = 3
	firstBackoff = 200 * time.Millisecond
	// Upper bound on a server-requested Retry-After pause.
	maxRetryAfter = 30 * time.Second
)

// errRateLimited marks calls that never left the process because the local
// ORS quota was exhausted.
var errRateLimited = errors.New("ors quota exhausted")

// httpStatusError is a non-2xx/3xx answer from ORS.
type httpStatusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("ors status %d: %s", e.Code, e.Body)
}

// clientFault reports a deterministic rejection of this particular request,
// e.g. 404 "could not find routable point". It says nothing about ORS health.
func (e *httpStatusError) clientFault() bool {
	return e.Code >= 400 && e.Code < 500 && e.Code != http.StatusTooManyRequests
}

func (e *httpStatusError) transient() bool {
	switch e.Code {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// upstreamFailure decides what the circuit breaker counts against ORS.
func upstreamFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, errRateLimited) {
		return false
	}
	var se *httpStatusError
	if errors.As(err, &se) && se.clientFault() {
		return false
	}
	return true
}

// parseRetryAfter accepts both delta-seconds and HTTP-date forms.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

// post sends one JSON request and turns error statuses into *httpStatusError.
func (o *ORSDirectionsProvider) post(ctx context.Context, endpoint string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/geo+json, application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}

	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	return nil, &httpStatusError{
		Code:       resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
	}
}

// postWithRetry retries network errors, 429 and 5xx answers with exponential
// backoff. Every attempt takes its own limiter token, and a 429 waits at least
// as long as the server's Retry-After.
func (o *ORSDirectionsProvider) postWithRetry(ctx context.Context, endpoint string, payload []byte) (*http.Response, error) {
	backoff := firstBackoff

	for attempt := 1; ; attempt++ {
		if err := o.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("attempt %d: %w: %v", attempt, errRateLimited, err)
		}

		resp, err := o.post(ctx, endpoint, payload)
		if err == nil {
			return resp, nil
		}

		pause, retry := retryPause(err, backoff)
		if !retry || attempt == maxAttempts {
			return nil, err
		}

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
}

func retryPause(err error, backoff time.Duration) (time.Duration, bool) {
	var se *httpStatusError
	if errors.As(err, &se) {
		if !se.transient() {
			return 0, false
		}
		if se.Code == http.StatusTooManyRequests && se.RetryAfter > backoff {
			return min(se.RetryAfter, maxRetryAfter), true
		}
		return backoff, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return backoff, true
	}
	return 0, false
}
