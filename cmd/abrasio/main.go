// Package main provides the abrasio command, a thin CLI over the SDK
// for opening a stealth browser session from the terminal: cloud when an
// API key is configured, local otherwise. Useful for smoke-testing
// credentials, regions and URL policies without writing code.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/abrasio/abrasio-go"
	"github.com/abrasio/abrasio-go/pkg/browser"
	"github.com/abrasio/abrasio-go/pkg/config"
	"github.com/abrasio/abrasio-go/pkg/logging"
)

const version = "0.1.0"

type cliConfig struct {
	configFile  string
	url         string
	region      string
	profileID   string
	headless    bool
	timeout     time.Duration
	showVersion bool
}

func main() {
	cli := parseFlags()

	if cli.showVersion {
		fmt.Printf("abrasio v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nshutting down...")
		cancel()
	}()

	if err := run(ctx, cli); err != nil {
		cancel()
		log.Printf("session failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

func parseFlags() *cliConfig {
	cli := &cliConfig{}

	flag.StringVar(&cli.configFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&cli.url, "url", "", "URL to open in the session")
	flag.StringVar(&cli.region, "region", "", "Proxy region for cloud sessions (e.g. US, BR, DE)")
	flag.StringVar(&cli.profileID, "profile", "", "Persistent browser profile ID (cloud only)")
	flag.BoolVar(&cli.headless, "headless", false, "Run the local browser headless")
	flag.DurationVar(&cli.timeout, "timeout", 0, "Close the session after this long (0 = until interrupted)")
	flag.BoolVar(&cli.showVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "abrasio - open a stealth browser session\n\n")
		fmt.Fprintf(os.Stderr, "Usage: abrasio [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Cloud session in Brazil (reads ABRASIO_API_KEY)\n")
		fmt.Fprintf(os.Stderr, "  abrasio -url https://example.com -region BR\n\n")
		fmt.Fprintf(os.Stderr, "  # Local stealth browser from a config file\n")
		fmt.Fprintf(os.Stderr, "  abrasio -config abrasio.yaml\n\n")
	}

	flag.Parse()
	return cli
}

func run(ctx context.Context, cli *cliConfig) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	b, err := abrasio.New(cfg)
	if err != nil {
		return err
	}

	mode := "local"
	if cfg.IsCloudMode() {
		mode = "cloud"
	}
	fmt.Printf("starting %s browser session...\n", mode)

	if err := b.Start(ctx); err != nil {
		return err
	}
	defer b.Close()

	if cloud, ok := b.(*browser.Cloud); ok {
		fmt.Printf("session ID: %s\n", cloud.SessionID())
	}
	if liveView := b.LiveViewURL(); liveView != "" {
		fmt.Printf("live view:  %s\n", liveView)
	}
	if logDir, err := logging.GetLogDirectory(); err == nil {
		fmt.Printf("logs:       %s\n", logDir)
	}

	if cfg.URL != "" {
		page, err := b.NewPage()
		if err != nil {
			return err
		}
		if _, err := page.Goto(cfg.URL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		}); err != nil {
			return err
		}
		title, err := page.Title()
		if err != nil {
			return err
		}
		fmt.Printf("opened:     %s (%s)\n", cfg.URL, title)
	}

	if cli.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cli.timeout)
		defer cancel()
	}
	fmt.Println("session running, press Ctrl-C to close")
	<-ctx.Done()
	return nil
}

// loadConfig layers the config sources: defaults, then the config file,
// then explicit flags.
func loadConfig(cli *cliConfig) (*config.Config, error) {
	cfg := config.Default()
	if cli.configFile != "" {
		loaded, err := config.Load(cli.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cli.url != "" {
		cfg.URL = cli.url
	}
	if cli.region != "" {
		cfg.Region = cli.region
	}
	if cli.profileID != "" {
		cfg.ProfileID = cli.profileID
	}
	if cli.headless {
		cfg.Headless = true
	}

	return cfg, cfg.Validate()
}
