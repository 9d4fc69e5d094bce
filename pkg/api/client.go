// Package api implements the control-plane client for the Abrasio cloud
// browser service: typed session operations built on a retrying HTTP
// transport and a response classifier.
//
// Layering, leaves first: transport executes one bounded HTTP call;
// doWithRetry adds bounded exponential backoff with server-guided waits;
// classify maps raw responses to decoded payloads or classified errors;
// Client exposes the session operations and the readiness-polling loop.
// No layer silently discards an error.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/abrasio/abrasio-go/pkg/logging"
)

const (
	// DefaultTimeout is the per-attempt request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultReadyTimeout bounds the readiness-polling loop.
	DefaultReadyTimeout = 60 * time.Second

	// DefaultPollInterval is the fixed wait between readiness polls.
	DefaultPollInterval = time.Second
)

// Client is the typed session client for the Abrasio control-plane.
type Client struct {
	transport   *transport
	log         *logging.Logger
	backoffBase time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.transport.timeout = d
	}
}

// WithLogger overrides the client's logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a control-plane client for the given API base URL and key.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	log, _ := logging.NewLogger("api")
	c := &Client{
		transport:   newTransport(baseURL, apiKey, DefaultTimeout),
		log:         log,
		backoffBase: retryBackoffBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateSession requests a new browser session. The returned session is
// typically PENDING; use WaitUntilReady to obtain its endpoint.
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	if req.URL == "" {
		// The backend uses the URL for region inference and requires one.
		req.URL = "https://example.com"
	}

	resp, err := c.doWithRetry(ctx, "POST", "/v1/browser/session/", req)
	if err != nil {
		return nil, err
	}
	body, err := classify(resp)
	if err != nil {
		return nil, err
	}
	session, err := decodeSession(body)
	if err != nil {
		return nil, err
	}
	c.log.Infof("session created: %s", session.ID)
	return session, nil
}

// GetSession fetches the current state of a session. Fails with a
// KindNotFound error when the remote no longer recognizes the id.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	resp, err := c.doWithRetry(ctx, "GET", "/v1/browser/session/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	body, err := classify(resp)
	if err != nil {
		return nil, err
	}
	return decodeSession(body)
}

// WaitUntilReady polls the session at a fixed interval until it is READY,
// reaches a terminal state, or the timeout elapses.
//
// The interval is deliberately not backed off: the loop waits on external
// provisioning, not on a failed call. Both the polls and the sleeps honor
// ctx, so an external deadline aborts promptly.
func (c *Client) WaitUntilReady(ctx context.Context, sessionID string, timeout, pollInterval time.Duration) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var elapsed time.Duration
	for elapsed < timeout {
		session, err := c.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		switch session.Status {
		case StatusReady:
			c.log.Infof("session %s is ready", sessionID)
			return session, nil
		case StatusFailed, StatusError:
			msg := session.ErrorMessage
			if msg == "" {
				msg = "unknown error"
			}
			return nil, sessionError("session failed: "+msg, sessionID)
		case StatusFinished:
			return nil, sessionError("session already finished", sessionID)
		}

		c.log.Debugf("session %s status: %s, waiting...", sessionID, session.Status)
		if err := sleepContext(ctx, pollInterval); err != nil {
			return nil, timeoutError(
				fmt.Sprintf("session %s did not become ready within %s", sessionID, timeout),
				elapsed, err)
		}
		elapsed += pollInterval
	}

	return nil, timeoutError(
		fmt.Sprintf("session %s did not become ready within %s", sessionID, timeout),
		elapsed, nil)
}

// FinishSession terminates a session remotely and returns its final state.
// Intended as best-effort teardown: the lifecycle manager logs failures
// here instead of propagating them.
func (c *Client) FinishSession(ctx context.Context, sessionID string) (*Session, error) {
	resp, err := c.doWithRetry(ctx, "POST", "/v1/browser/session/"+sessionID+"/finish", nil)
	if err != nil {
		return nil, err
	}
	body, err := classify(resp)
	if err != nil {
		return nil, err
	}
	return decodeSession(body)
}
