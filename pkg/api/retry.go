package api

import (
	"context"
	"strconv"
	"time"
)

const (
	// maxRetries is the number of retries after the initial attempt, so a
	// request makes at most maxRetries+1 attempts total.
	maxRetries = 3

	// retryBackoffBase is the first backoff step; each subsequent step doubles.
	retryBackoffBase = time.Second

	// retryAfterCap bounds how long a server-supplied Retry-After can make
	// us wait.
	retryAfterCap = 30 * time.Second
)

// retryableStatus is the set of HTTP statuses worth retrying. Everything
// else, including all other 4xx, is terminal.
var retryableStatus = map[int]bool{
	429: true,
	502: true,
	503: true,
	504: true,
}

// retryWait computes the wait before the next attempt. A parseable
// Retry-After header wins over the computed backoff and is clamped to
// retryAfterCap; otherwise the wait is base × 2^attempt.
func retryWait(attempt int, retryAfter string, base time.Duration) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.ParseFloat(retryAfter, 64); err == nil {
			wait := time.Duration(secs * float64(time.Second))
			if wait > retryAfterCap {
				wait = retryAfterCap
			}
			return wait
		}
	}
	return base * (1 << attempt)
}

// doWithRetry runs a request through the transport with bounded retries.
//
// Retries fire only for retryableStatus responses and transport timeouts.
// The final permitted attempt's response is returned as-is even when it is
// still a retryable status; the classifier treats it as terminal. Transport
// timeouts become an error only once all attempts are exhausted. Waits are
// context-aware so a caller-imposed deadline aborts mid-sleep.
func (c *Client) doWithRetry(ctx context.Context, method, path string, body any) (*response, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := c.transport.do(ctx, method, path, body)
		if err != nil {
			if !IsKind(err, KindTimeout) {
				return nil, err
			}
			lastErr = err
			if attempt == maxRetries {
				return nil, lastErr
			}
			wait := retryWait(attempt, "", c.backoffBase)
			c.log.Warnf("request to %s timed out, retrying in %s (attempt %d/%d)",
				path, wait, attempt+1, maxRetries)
			if err := sleepContext(ctx, wait); err != nil {
				return nil, timeoutError("retry wait interrupted", 0, err)
			}
			continue
		}

		if !retryableStatus[resp.status] || attempt == maxRetries {
			return resp, nil
		}

		wait := retryWait(attempt, resp.header.Get("Retry-After"), c.backoffBase)
		c.log.Warnf("request to %s returned %d, retrying in %s (attempt %d/%d)",
			path, resp.status, wait, attempt+1, maxRetries)
		if err := sleepContext(ctx, wait); err != nil {
			return nil, timeoutError("retry wait interrupted", 0, err)
		}
	}

	return nil, lastErr
}

// sleepContext waits for d or until ctx is done, whichever comes first.
// It never busy-waits and never blocks past the context deadline.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
