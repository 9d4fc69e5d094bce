// Package abrasio is a Go client for driving stealth browsers, either
// as ephemeral cloud sessions or launched locally with anti-detection
// hardening. The mode is picked from the configured API key: keys
// starting with "sk_" select cloud mode, anything else runs locally.
//
//	cfg := config.Default()
//	cfg.APIKey = os.Getenv("ABRASIO_API_KEY")
//	b, err := abrasio.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := b.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//	page, err := b.NewPage()
package abrasio

import (
	"context"

	"github.com/playwright-community/playwright-go"

	"github.com/abrasio/abrasio-go/pkg/browser"
	"github.com/abrasio/abrasio-go/pkg/config"
)

// Browser is the common surface of cloud and local browsers. Implemented
// by *browser.Cloud and *browser.Local.
type Browser interface {
	// Start brings the browser up. For cloud mode this creates a remote
	// session, waits for it to become ready and connects to it; for
	// local mode it launches a hardened persistent-context browser.
	Start(ctx context.Context) error

	// Close shuts the browser down, releasing local resources and, in
	// cloud mode, finishing the remote session best-effort. Idempotent.
	Close() error

	// NewPage opens a page in the browser's context.
	NewPage() (playwright.Page, error)

	// NewContext returns the browser context to work in.
	NewContext() (playwright.BrowserContext, error)

	// LiveViewURL returns the real-time streaming URL for cloud
	// sessions, empty for local browsers.
	LiveViewURL() string

	// State reports where the browser is in its lifecycle.
	State() browser.State
}

// New validates the config and returns a browser handle in the mode the
// config selects. Nothing launches until Start.
func New(cfg *config.Config) (Browser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.IsCloudMode() {
		return browser.NewCloud(cfg), nil
	}
	return browser.NewLocal(cfg), nil
}
