// Package browser provides the cloud and local browser implementations
// behind the abrasio entry point.
//
// The cloud side owns one remote session's full lifetime: create it, poll
// it to readiness, hand the remote-debugging endpoint to Playwright, and
// guarantee best-effort remote teardown on close. The local side launches
// a hardened persistent-context browser on this machine.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/abrasio/abrasio-go/pkg/api"
	"github.com/abrasio/abrasio-go/pkg/config"
	"github.com/abrasio/abrasio-go/pkg/logging"
)

// sessionClient is the control-plane surface the lifecycle needs,
// satisfied by *api.Client.
type sessionClient interface {
	CreateSession(ctx context.Context, req api.CreateSessionRequest) (*api.Session, error)
	WaitUntilReady(ctx context.Context, sessionID string, timeout, pollInterval time.Duration) (*api.Session, error)
	FinishSession(ctx context.Context, sessionID string) (*api.Session, error)
}

// connectFunc opens the data-plane connection to a ready session. It
// returns the browser handle and a release function for the underlying
// driver. Injected so the lifecycle is testable without a real browser.
type connectFunc func(wsEndpoint string) (playwright.Browser, func() error, error)

// Cloud is a browser backed by a remote abrasio session.
//
// One Cloud owns exactly one session; there is no pooling. It is not
// safe for concurrent use by multiple goroutines: the lifecycle assumes
// a single caller driving Start and Close.
type Cloud struct {
	cfg     *config.Config
	client  sessionClient
	log     *logging.Logger
	connect connectFunc

	state       State
	sessionID   string
	wsEndpoint  string
	liveViewURL string
	browser     playwright.Browser
	release     func() error
	finishDone  bool
}

// CloudOption configures a Cloud handle.
type CloudOption func(*Cloud)

// WithClient overrides the control-plane client.
func WithClient(client sessionClient) CloudOption {
	return func(c *Cloud) {
		c.client = client
	}
}

// WithConnect overrides how the data-plane connection is opened.
func WithConnect(connect connectFunc) CloudOption {
	return func(c *Cloud) {
		c.connect = connect
	}
}

// WithLogger overrides the lifecycle logger.
func WithLogger(log *logging.Logger) CloudOption {
	return func(c *Cloud) {
		c.log = log
	}
}

// NewCloud creates a cloud browser handle for the given config. Nothing
// happens remotely until Start.
func NewCloud(cfg *config.Config, opts ...CloudOption) *Cloud {
	log, _ := logging.NewLogger("browser.cloud")
	c := &Cloud{
		cfg:     cfg,
		log:     log,
		state:   StateNew,
		connect: connectOverCDP,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = api.NewClient(cfg.APIURL, cfg.APIKey,
			api.WithTimeout(cfg.Timeout.Std()),
			api.WithLogger(c.log))
	}
	return c
}

// connectOverCDP is the production data-plane dial: a Playwright driver
// attached to the session's remote-debugging endpoint.
func connectOverCDP(wsEndpoint string) (playwright.Browser, func() error, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	browser, err := pw.Chromium.ConnectOverCDP(wsEndpoint)
	if err != nil {
		pw.Stop()
		return nil, nil, fmt.Errorf("failed to connect to remote browser: %w", err)
	}
	return browser, pw.Stop, nil
}

// Start creates the remote session, waits for it to become READY, and
// connects to it. Any failure leaves the handle FAILED with no usable
// partial session; a remote session may transiently exist but callers
// must treat a failed Start as "no session created".
func (c *Cloud) Start(ctx context.Context) error {
	if c.state != StateNew {
		return fmt.Errorf("browser already started (state %s)", c.state)
	}

	policy, err := c.cfg.URLPolicy()
	if err != nil {
		c.state = StateFailed
		return err
	}
	if c.cfg.URL != "" && !policy.Allows(c.cfg.URL) {
		c.state = StateFailed
		return fmt.Errorf("target URL %q is not allowed by the configured URL policy", c.cfg.URL)
	}

	c.state = StateCreating
	c.log.Infof("creating cloud browser session...")
	session, err := c.client.CreateSession(ctx, api.CreateSessionRequest{
		URL:       c.cfg.URL,
		Region:    c.cfg.Region,
		ProfileID: c.cfg.ProfileID,
	})
	if err != nil {
		c.state = StateFailed
		return err
	}
	if session.ID == "" {
		c.state = StateFailed
		return fmt.Errorf("no session ID returned from API")
	}
	c.sessionID = session.ID
	c.log.Infof("session created: %s", c.sessionID)

	c.state = StateWaiting
	ready, err := c.client.WaitUntilReady(ctx, c.sessionID,
		c.cfg.ReadyTimeout.Std(), c.cfg.PollInterval.Std())
	if err != nil {
		c.state = StateFailed
		return err
	}
	if ready.WSEndpoint == "" {
		c.state = StateFailed
		return fmt.Errorf("session %s became ready without a websocket endpoint", c.sessionID)
	}
	c.wsEndpoint = ready.WSEndpoint
	c.liveViewURL = ready.LiveViewURL
	if c.liveViewURL != "" {
		c.log.Infof("live view available: %s", c.liveViewURL)
	}

	c.log.Infof("connecting to remote browser: %s", c.wsEndpoint)
	browser, release, err := c.connect(c.wsEndpoint)
	if err != nil {
		c.state = StateFailed
		return err
	}
	c.browser = browser
	c.release = release
	c.state = StateReady
	c.log.Infof("connected to cloud browser")
	return nil
}

// Close tears the session down. The remote finish call is attempted at
// most once and is best-effort: its failure is logged, never returned.
// Local resources are always released and the handle always reaches
// CLOSED. Calling Close again is a no-op.
func (c *Cloud) Close() error {
	if c.state == StateClosed {
		return nil
	}
	c.state = StateClosing

	if c.browser != nil {
		if err := c.browser.Close(); err != nil {
			c.log.Warnf("failed to close browser connection: %v", err)
		}
		c.browser = nil
	}
	if c.release != nil {
		if err := c.release(); err != nil {
			c.log.Warnf("failed to stop playwright driver: %v", err)
		}
		c.release = nil
	}

	if c.sessionID != "" && !c.finishDone {
		c.finishDone = true
		if _, err := c.client.FinishSession(context.Background(), c.sessionID); err != nil {
			c.log.Warnf("failed to finish session %s: %v", c.sessionID, err)
		} else {
			c.log.Infof("session %s finished", c.sessionID)
		}
	}

	c.state = StateClosed
	return nil
}

// State returns the current lifecycle state.
func (c *Cloud) State() State {
	return c.state
}

// SessionID returns the remote session id, empty before creation.
func (c *Cloud) SessionID() string {
	return c.sessionID
}

// LiveViewURL returns the real-time streaming URL, empty unless the
// backend provided one.
func (c *Cloud) LiveViewURL() string {
	return c.liveViewURL
}

// Browser returns the underlying Playwright browser handle.
func (c *Cloud) Browser() (playwright.Browser, error) {
	if c.state != StateReady || c.browser == nil {
		return nil, fmt.Errorf("browser not connected (state %s)", c.state)
	}
	return c.browser, nil
}

// NewContext returns the session's browser context. Cloud sessions come
// pre-configured with a fingerprinted default context, so an existing
// context is preferred over creating a fresh one.
func (c *Cloud) NewContext() (playwright.BrowserContext, error) {
	browser, err := c.Browser()
	if err != nil {
		return nil, err
	}
	if contexts := browser.Contexts(); len(contexts) > 0 {
		return contexts[0], nil
	}
	return browser.NewContext()
}

// NewPage opens a page in the session's context.
func (c *Cloud) NewPage() (playwright.Page, error) {
	context, err := c.NewContext()
	if err != nil {
		return nil, err
	}
	return context.NewPage()
}
