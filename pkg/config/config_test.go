package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Setenv("ABRASIO_API_KEY", "")
	t.Setenv("ABRASIO_API_URL", "")

	cfg := Default()
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 30*time.Second, cfg.Timeout.Std())
	assert.Equal(t, 60*time.Second, cfg.ReadyTimeout.Std())
	assert.Equal(t, time.Second, cfg.PollInterval.Std())
	assert.True(t, cfg.Fingerprint.WebGL)
	assert.True(t, cfg.Fingerprint.WebRTC)
	assert.False(t, cfg.Fingerprint.CanvasNoise)
	require.NoError(t, cfg.Validate())
}

func TestDefault_Environment(t *testing.T) {
	t.Setenv("ABRASIO_API_KEY", "sk_live_123")
	t.Setenv("ABRASIO_API_URL", "https://staging.abrasio.example")

	cfg := Default()
	assert.Equal(t, "sk_live_123", cfg.APIKey)
	assert.Equal(t, "https://staging.abrasio.example", cfg.APIURL)
}

func TestModeSelection(t *testing.T) {
	cfg := Default()

	cfg.APIKey = ""
	assert.True(t, cfg.IsLocalMode())
	assert.False(t, cfg.IsCloudMode())

	cfg.APIKey = "sk_live_abc"
	assert.True(t, cfg.IsCloudMode())

	// Keys without the sk_ prefix do not enable cloud mode
	cfg.APIKey = "not-a-key"
	assert.True(t, cfg.IsLocalMode())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.APIURL = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Timeout = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.PollInterval = Duration(-time.Second)
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.AllowedURLs = []string{"[invalid"}
	assert.Error(t, cfg.Validate())
}

func TestApplyRegionDefaults(t *testing.T) {
	cfg := Default()
	cfg.APIKey = ""
	cfg.Region = "BR"

	warnings := cfg.ApplyRegionDefaults()
	assert.Empty(t, warnings)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
}

func TestApplyRegionDefaults_ExplicitMismatchWarns(t *testing.T) {
	cfg := Default()
	cfg.APIKey = ""
	cfg.Region = "BR"
	cfg.Timezone = "America/New_York"

	warnings := cfg.ApplyRegionDefaults()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "America/New_York")
	// The explicit value is kept
	assert.Equal(t, "America/New_York", cfg.Timezone)
}

func TestApplyRegionDefaults_CloudModeUntouched(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "sk_live_123"
	cfg.Region = "BR"

	warnings := cfg.ApplyRegionDefaults()
	assert.Empty(t, warnings)
	assert.Empty(t, cfg.Locale)
	assert.Empty(t, cfg.Timezone)
}

func TestURLPolicy(t *testing.T) {
	policy, err := NewURLPolicy(nil, nil)
	require.NoError(t, err)
	assert.True(t, policy.Allows("https://anything.example/path"))

	policy, err = NewURLPolicy([]string{"*.example.com*"}, nil)
	require.NoError(t, err)
	assert.True(t, policy.Allows("https://shop.example.com/cart"))
	assert.False(t, policy.Allows("https://other.org"))

	policy, err = NewURLPolicy(nil, []string{"*.internal.example*"})
	require.NoError(t, err)
	assert.True(t, policy.Allows("https://public.example"))
	assert.False(t, policy.Allows("https://admin.internal.example/login"))
}

func TestURLPolicy_DenyWins(t *testing.T) {
	policy, err := NewURLPolicy([]string{"*.example.com*"}, []string{"*.example.com/admin*"})
	require.NoError(t, err)
	assert.True(t, policy.Allows("https://www.example.com/products"))
	assert.False(t, policy.Allows("https://www.example.com/admin/users"))
}

func TestURLPolicy_SchemeOptional(t *testing.T) {
	policy, err := NewURLPolicy([]string{"example.com*"}, nil)
	require.NoError(t, err)
	assert.True(t, policy.Allows("example.com"))
	assert.True(t, policy.Allows("https://example.com/"))
}

func TestURLPolicy_RejectsGarbage(t *testing.T) {
	policy, err := NewURLPolicy(nil, nil)
	require.NoError(t, err)
	assert.False(t, policy.Allows("://not a url"))
}

func TestLoad(t *testing.T) {
	t.Setenv("ABRASIO_API_KEY", "")
	t.Setenv("ABRASIO_API_URL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api_key: sk_live_xyz
region: BR
headless: false
ready_timeout: 90s
fingerprint:
  canvas_noise: true
allowed_urls:
  - "*.example.com*"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sk_live_xyz", cfg.APIKey)
	assert.Equal(t, "BR", cfg.Region)
	assert.False(t, cfg.Headless)
	assert.Equal(t, 90*time.Second, cfg.ReadyTimeout.Std())
	assert.True(t, cfg.Fingerprint.CanvasNoise)
	// Defaults survive for fields the file omits
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout.Std())
	assert.True(t, cfg.Fingerprint.WebGL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}
