package geolocation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_IPAPIFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","countryCode":"br","timezone":"America/Sao_Paulo","query":"203.0.113.9"}`))
	}))
	defer server.Close()

	loc, err := NewResolver(server.URL).Detect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "BR", loc.CountryCode)
	assert.Equal(t, "America/Sao_Paulo", loc.Timezone)
	assert.Equal(t, "pt-BR", loc.Locale)
	assert.Equal(t, "203.0.113.9", loc.IP)
}

func TestDetect_IpapiCoFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ip":"198.51.100.4","country_code":"DE","timezone":"Europe/Berlin"}`))
	}))
	defer server.Close()

	loc, err := NewResolver(server.URL).Detect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "DE", loc.CountryCode)
	assert.Equal(t, "de-DE", loc.Locale)
}

func TestDetect_FallsThroughFailingService(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer failing.Close()
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ip":"198.51.100.4","country_code":"JP","timezone":"Asia/Tokyo"}`))
	}))
	defer working.Close()

	loc, err := NewResolver(failing.URL, working.URL).Detect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "JP", loc.CountryCode)
	assert.Equal(t, "ja-JP", loc.Locale)
}

func TestDetect_AllServicesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	loc, err := NewResolver(server.URL).Detect(context.Background())

	require.Error(t, err)
	assert.Equal(t, Fallback, loc)
}

func TestDetect_CachesFirstSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"status":"success","countryCode":"US","timezone":"America/New_York","query":"192.0.2.1"}`))
	}))
	defer server.Close()

	r := NewResolver(server.URL)
	_, err := r.Detect(context.Background())
	require.NoError(t, err)
	_, err = r.Detect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())

	r.Reset()
	_, err = r.Detect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLocaleFor_UnknownCountry(t *testing.T) {
	assert.Equal(t, "en-ZW", localeFor("zw"))
}

func TestParseLookup_Garbage(t *testing.T) {
	_, err := parseLookup([]byte(`<html>rate limited</html>`))
	require.Error(t, err)

	_, err = parseLookup([]byte(`{"unrelated":true}`))
	require.Error(t, err)
}
