package browser

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/abrasio/abrasio-go/pkg/config"
	"github.com/abrasio/abrasio-go/pkg/geolocation"
	"github.com/abrasio/abrasio-go/pkg/logging"
	"github.com/abrasio/abrasio-go/pkg/stealth"
)

// Local is a browser launched on this machine with anti-detection
// hardening: a persistent context, real-Chrome channel, automation flags
// stripped, and optional fingerprint-noise injection.
type Local struct {
	cfg *config.Config
	log *logging.Logger

	state         State
	pw            *playwright.Playwright
	context       playwright.BrowserContext
	userDataDir   string
	removeDataDir bool
}

// NewLocal creates a local browser handle. Nothing launches until Start.
func NewLocal(cfg *config.Config) *Local {
	log, _ := logging.NewLogger("browser.local")
	return &Local{
		cfg:   cfg,
		log:   log,
		state: StateNew,
	}
}

// Start launches the browser as a persistent context, which persists
// cookies and storage and avoids the context-creation fingerprints of a
// plain launch.
func (l *Local) Start(ctx context.Context) error {
	if l.state != StateNew {
		return fmt.Errorf("browser already started (state %s)", l.state)
	}
	l.state = StateCreating

	if warnings := l.cfg.ApplyRegionDefaults(); len(warnings) > 0 {
		for _, w := range warnings {
			l.log.Warnf("region consistency: %s", w)
		}
	}

	// With nothing configured, match the browser to where this machine's
	// IP actually is; a locale that contradicts the IP is a detection
	// signal. Detect falls back to US defaults when lookup fails.
	if l.cfg.Region == "" && l.cfg.Locale == "" && l.cfg.Timezone == "" {
		loc, err := geolocation.NewResolver().Detect(ctx)
		if err != nil {
			l.log.Warnf("geolocation auto-configuration degraded: %v", err)
		}
		l.cfg.Region = loc.CountryCode
		l.cfg.Locale = loc.Locale
		l.cfg.Timezone = loc.Timezone
		l.log.Infof("auto-configured from IP: locale=%s timezone=%s", loc.Locale, loc.Timezone)
	}

	pw, err := playwright.Run()
	if err != nil {
		l.state = StateFailed
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	l.pw = pw

	if l.cfg.UserDataDir != "" {
		l.userDataDir = l.cfg.UserDataDir
	} else {
		dir, err := os.MkdirTemp("", "abrasio_profile_")
		if err != nil {
			pw.Stop()
			l.state = StateFailed
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
		l.userDataDir = dir
		l.removeDataDir = true
	}

	opts := playwright.BrowserTypeLaunchPersistentContextOptions{
		// Real Chrome, not Chromium, for a real-browser fingerprint.
		Channel:  playwright.String("chrome"),
		Headless: playwright.Bool(l.cfg.Headless),
		Args:     StealthArgs(l.cfg),
		IgnoreDefaultArgs: []string{
			"--enable-automation",
			"--disable-extensions",
		},
		// Real browsers hold these permissions by default.
		Permissions: []string{"geolocation", "notifications"},
		// A fixed viewport is detectable; let the window size drive it.
		NoViewport: playwright.Bool(true),
	}
	if l.cfg.Proxy != "" {
		opts.Proxy = &playwright.Proxy{Server: l.cfg.Proxy}
	}
	if l.cfg.Locale != "" {
		opts.Locale = playwright.String(l.cfg.Locale)
	}
	if l.cfg.Timezone != "" {
		opts.TimezoneId = playwright.String(l.cfg.Timezone)
	}

	browserCtx, err := pw.Chromium.LaunchPersistentContext(l.userDataDir, opts)
	if err != nil {
		pw.Stop()
		l.state = StateFailed
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	l.context = browserCtx

	for _, script := range stealth.InitScripts(l.cfg.Fingerprint) {
		if err := browserCtx.AddInitScript(playwright.Script{Content: playwright.String(script)}); err != nil {
			l.Close()
			l.state = StateFailed
			return fmt.Errorf("failed to inject stealth script: %w", err)
		}
	}

	l.state = StateReady
	l.log.Infof("local stealth browser started (headless=%v)", l.cfg.Headless)
	l.log.Debugf("user data dir: %s", l.userDataDir)
	return nil
}

// Close shuts the browser down and removes throwaway profile
// directories. Idempotent.
func (l *Local) Close() error {
	if l.state == StateClosed {
		return nil
	}
	l.state = StateClosing

	if l.context != nil {
		if err := l.context.Close(); err != nil {
			l.log.Warnf("failed to close browser context: %v", err)
		}
		l.context = nil
	}
	if l.pw != nil {
		if err := l.pw.Stop(); err != nil {
			l.log.Warnf("failed to stop playwright driver: %v", err)
		}
		l.pw = nil
	}
	if l.removeDataDir && l.userDataDir != "" {
		if err := os.RemoveAll(l.userDataDir); err != nil {
			l.log.Warnf("failed to remove user data dir: %v", err)
		}
		l.userDataDir = ""
	}

	l.state = StateClosed
	return nil
}

// State returns the current lifecycle state.
func (l *Local) State() State {
	return l.state
}

// LiveViewURL always returns empty: live view is a cloud feature.
func (l *Local) LiveViewURL() string {
	return ""
}

// NewContext returns the persistent context. Creating additional
// contexts is detectable and reduces stealth, so there is only one.
func (l *Local) NewContext() (playwright.BrowserContext, error) {
	if l.context == nil {
		return nil, fmt.Errorf("browser not started (state %s)", l.state)
	}
	return l.context, nil
}

// NewPage opens a new page in the persistent context.
func (l *Local) NewPage() (playwright.Page, error) {
	if l.context == nil {
		return nil, fmt.Errorf("browser not started (state %s)", l.state)
	}
	return l.context.NewPage()
}

// StealthArgs builds the Chrome launch arguments for the config.
//
// Playwright strips its own automation flags via IgnoreDefaultArgs; these
// cover the Blink-level and UI signals it does not.
func StealthArgs(cfg *config.Config) []string {
	args := []string{
		// Prevents navigator.webdriver=true at the Blink level.
		"--disable-blink-features=AutomationControlled",

		"--no-first-run",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--no-default-browser-check",

		"--disable-infobars",
		"--disable-popup-blocking",
		"--disable-component-update",
		"--disable-default-apps",
	}

	// Headless Chrome advertises itself as "HeadlessChrome" in the UA;
	// rewrite it to the regular Chrome UA for this OS.
	if cfg.Headless {
		args = append(args, "--user-agent="+headlessUserAgent())
	}

	if !cfg.Fingerprint.WebGL {
		args = append(args, "--disable-webgl", "--disable-webgl2")
	}
	if !cfg.Fingerprint.WebRTC {
		args = append(args,
			"--enforce-webrtc-ip-permission-check",
			"--disable-webrtc-multiple-routes",
			"--disable-webrtc-hw-encoding")
	}

	return append(args, cfg.ExtraArgs...)
}

// headlessUserAgent returns a regular Chrome user agent for the current
// OS. The exact version matters less than the absence of
// "HeadlessChrome" from the string.
func headlessUserAgent() string {
	const suffix = "AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	switch runtime.GOOS {
	case "windows":
		return strings.Join([]string{"Mozilla/5.0 (Windows NT 10.0; Win64; x64)", suffix}, " ")
	case "darwin":
		return strings.Join([]string{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)", suffix}, " ")
	default:
		return strings.Join([]string{"Mozilla/5.0 (X11; Linux x86_64)", suffix}, " ")
	}
}
