package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// URLPolicy decides which target URLs sessions may be opened for, using
// compiled glob patterns over the "host/path" form of a URL. Denied
// patterns take precedence; an empty allowed set allows everything else.
type URLPolicy struct {
	allowed []glob.Glob
	denied  []glob.Glob
}

// URLPolicy compiles the config's URL patterns. Called by Validate, so an
// invalid pattern fails fast instead of at session creation.
func (c *Config) URLPolicy() (*URLPolicy, error) {
	return NewURLPolicy(c.AllowedURLs, c.DeniedURLs)
}

// NewURLPolicy compiles allow and deny glob patterns.
func NewURLPolicy(allowed, denied []string) (*URLPolicy, error) {
	p := &URLPolicy{}

	for _, pattern := range allowed {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed URL pattern '%s': %w", pattern, err)
		}
		p.allowed = append(p.allowed, g)
	}

	for _, pattern := range denied {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid denied URL pattern '%s': %w", pattern, err)
		}
		p.denied = append(p.denied, g)
	}

	return p, nil
}

// Allows reports whether the raw URL passes the policy. Unparseable URLs
// are rejected.
func (p *URLPolicy) Allows(rawURL string) bool {
	subject := normalizeURL(rawURL)
	if subject == "" {
		return false
	}

	for _, pattern := range p.denied {
		if pattern.Match(subject) {
			return false
		}
	}

	if len(p.allowed) == 0 {
		return true
	}

	for _, pattern := range p.allowed {
		if pattern.Match(subject) {
			return true
		}
	}

	return false
}

// normalizeURL reduces a URL to "host/path" so patterns need not mention
// the scheme. A bare "example.com" input normalizes the same way as
// "https://example.com".
func normalizeURL(rawURL string) string {
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Host) + strings.TrimRight(u.Path, "/")
}
