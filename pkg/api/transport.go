package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const userAgent = "abrasio-sdk-go/0.1.0"

// response is the raw outcome of a single HTTP attempt. Any HTTP status,
// including 4xx/5xx, is a valid response; only timeouts and connection
// failures surface as errors.
type response struct {
	status int
	header http.Header
	body   []byte
}

// transport executes exactly one HTTP request per call, bounded by the
// per-attempt timeout. It never interprets domain semantics.
type transport struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

func newTransport(baseURL, apiKey string, timeout time.Duration) *transport {
	return &transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// do performs the request and returns the raw response. On a network
// timeout it returns a KindTimeout error carrying the elapsed time; on a
// connection failure it returns a KindTransport error.
func (t *transport) do(ctx context.Context, method, path string, body any) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, transportError(fmt.Sprintf("failed to encode request body for %s", path), err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return nil, transportError(fmt.Sprintf("failed to build request for %s", path), err)
	}
	req.Header.Set("X-API-KEY", t.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	// One id per attempt, not per logical request, so retried attempts
	// stay distinguishable in backend logs.
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, timeoutError(fmt.Sprintf("request to %s timed out", path), time.Since(start), err)
		}
		return nil, transportError(fmt.Sprintf("request to %s failed", path), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, timeoutError(fmt.Sprintf("reading response from %s timed out", path), time.Since(start), err)
		}
		return nil, transportError(fmt.Sprintf("failed to read response from %s", path), err)
	}

	return &response{
		status: resp.StatusCode,
		header: resp.Header,
		body:   raw,
	}, nil
}

// isTimeout distinguishes deadline expiry from other transport failures.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
