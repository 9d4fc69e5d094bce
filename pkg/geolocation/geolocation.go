// Package geolocation detects where this machine's public IP sits and
// derives the locale and timezone a browser there would carry. It is
// only useful for local browsers: a mismatch between IP geolocation and
// browser locale is a detection signal. Cloud sessions need none of
// this since the backend configures them from the proxy's location.
package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/abrasio/abrasio-go/pkg/fingerprint"
	"github.com/abrasio/abrasio-go/pkg/logging"
)

// Free lookup services, no key required. Tried in order.
var defaultEndpoints = []string{
	"http://ip-api.com/json/?fields=status,countryCode,timezone,query",
	"https://ipapi.co/json/",
}

const lookupTimeout = 5 * time.Second

// Location is the result of an IP lookup.
type Location struct {
	IP          string
	CountryCode string
	Timezone    string
	Locale      string
}

// Fallback is the location assumed when every lookup service fails.
var Fallback = Location{
	IP:          "unknown",
	CountryCode: "US",
	Timezone:    "America/New_York",
	Locale:      "en-US",
}

// Resolver looks up the machine's geolocation, caching the first
// successful answer. Safe for concurrent use.
type Resolver struct {
	endpoints []string
	client    *http.Client
	log       *logging.Logger

	mu     sync.Mutex
	cached *Location
}

// NewResolver builds a resolver. Endpoints override the default lookup
// services; pass none for the defaults.
func NewResolver(endpoints ...string) *Resolver {
	if len(endpoints) == 0 {
		endpoints = defaultEndpoints
	}
	log, _ := logging.NewLogger("geolocation")
	return &Resolver{
		endpoints: endpoints,
		client:    &http.Client{Timeout: lookupTimeout},
		log:       log,
	}
}

// Detect returns the machine's location. Lookup services are tried in
// order and the first success is cached for the resolver's lifetime.
// When every service fails, Fallback is returned along with the error
// so callers can proceed with sane defaults.
func (r *Resolver) Detect(ctx context.Context) (Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil {
		return *r.cached, nil
	}

	for _, endpoint := range r.endpoints {
		loc, err := r.fetch(ctx, endpoint)
		if err != nil {
			r.log.Debugf("geolocation lookup via %s failed: %v", endpoint, err)
			continue
		}
		loc.Locale = localeFor(loc.CountryCode)
		r.cached = &loc
		r.log.Infof("detected geolocation: %s (%s, %s)", loc.CountryCode, loc.Timezone, loc.Locale)
		return loc, nil
	}

	r.log.Warnf("geolocation detection failed, assuming %s/%s", Fallback.Locale, Fallback.Timezone)
	return Fallback, fmt.Errorf("all geolocation services failed")
}

// Reset drops the cached location so the next Detect looks up afresh.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cached = nil
}

func (r *Resolver) fetch(ctx context.Context, endpoint string) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Location{}, err
	}
	// Some services reject requests without a browser-looking UA.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := r.client.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return Location{}, err
	}
	return parseLookup(body)
}

// parseLookup understands both supported response shapes: ip-api.com
// (status/countryCode/query) and ipapi.co (ip/country_code).
func parseLookup(body []byte) (Location, error) {
	var raw struct {
		// ip-api.com
		Status      string `json:"status"`
		CountryCode string `json:"countryCode"`
		Query       string `json:"query"`

		// ipapi.co
		IP             string `json:"ip"`
		CountryCodeAlt string `json:"country_code"`

		// common
		Timezone string `json:"timezone"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return Location{}, fmt.Errorf("malformed lookup response: %w", err)
	}

	switch {
	case raw.Status == "success":
		return Location{IP: raw.Query, CountryCode: strings.ToUpper(raw.CountryCode), Timezone: raw.Timezone}, nil
	case raw.Status != "":
		return Location{}, fmt.Errorf("lookup service reported status %q", raw.Status)
	case raw.CountryCodeAlt != "":
		return Location{IP: raw.IP, CountryCode: strings.ToUpper(raw.CountryCodeAlt), Timezone: raw.Timezone}, nil
	default:
		return Location{}, fmt.Errorf("unrecognized lookup response")
	}
}

// localeFor maps a country code to a browser locale via the fingerprint
// region table, falling back to en-<CC> for countries off the table.
func localeFor(countryCode string) string {
	if region, ok := fingerprint.RegionFor(countryCode); ok {
		return region.Locale
	}
	return "en-" + strings.ToUpper(countryCode)
}
