package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/browser/session/", r.URL.Path)
		assert.Equal(t, "sk_test", r.Header.Get("X-API-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req CreateSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://target.example", req.URL)
		assert.Equal(t, "BR", req.Region)
		assert.Equal(t, "profile-7", req.ProfileID)

		w.Write([]byte(`{"id":"sess-1","status":"PENDING"}`))
	}))

	session, err := c.CreateSession(context.Background(), CreateSessionRequest{
		URL:       "https://target.example",
		Region:    "BR",
		ProfileID: "profile-7",
	})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", session.ID)
	assert.Equal(t, StatusPending, session.Status)
}

func TestCreateSession_DefaultURL(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://example.com", req.URL)
		w.Write([]byte(`{"id":"sess-1","status":"PENDING"}`))
	}))

	_, err := c.CreateSession(context.Background(), CreateSessionRequest{})
	require.NoError(t, err)
}

func TestCreateSession_Authentication(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.CreateSession(context.Background(), CreateSessionRequest{URL: "https://x.example"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindAuthentication))
}

func TestCreateSession_InsufficientFunds(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"balance": 0.25}`))
	}))

	_, err := c.CreateSession(context.Background(), CreateSessionRequest{URL: "https://x.example"})
	require.Error(t, err)

	apiErr := err.(*Error)
	assert.Equal(t, KindInsufficientFunds, apiErr.Kind)
	assert.Equal(t, 0.25, apiErr.Balance)
}

func TestGetSession_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.GetSession(context.Background(), "gone")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
}

// statusSequence serves /v1/browser/session/{id} responses from a fixed
// script of statuses, sticking on the last one.
func statusSequence(counter *atomic.Int32, statuses ...Status) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(counter.Add(1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		session := Session{ID: "sess-1", Status: statuses[n]}
		if statuses[n] == StatusReady {
			session.WSEndpoint = "wss://cdp.example/sess-1"
		}
		if statuses[n] == StatusFailed {
			session.ErrorMessage = "provisioning failed"
		}
		json.NewEncoder(w).Encode(session)
	})
}

func TestWaitUntilReady_ReadyOnSecondPoll(t *testing.T) {
	var polls atomic.Int32
	c := newTestClient(t, statusSequence(&polls, StatusPending, StatusReady))

	session, err := c.WaitUntilReady(context.Background(), "sess-1", 5*time.Second, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, session.Status)
	assert.Equal(t, "wss://cdp.example/sess-1", session.WSEndpoint)
	assert.Equal(t, int32(2), polls.Load(), "must stop polling once READY")
}

func TestWaitUntilReady_TimesOutAtBound(t *testing.T) {
	var polls atomic.Int32
	c := newTestClient(t, statusSequence(&polls, StatusPending))

	start := time.Now()
	_, err := c.WaitUntilReady(context.Background(), "sess-1", 250*time.Millisecond, 50*time.Millisecond)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, IsKind(err, KindTimeout))
	assert.Less(t, elapsed, 600*time.Millisecond, "must fail at roughly the bound, never later")
}

func TestWaitUntilReady_SessionFailed(t *testing.T) {
	var polls atomic.Int32
	c := newTestClient(t, statusSequence(&polls, StatusPending, StatusFailed))

	_, err := c.WaitUntilReady(context.Background(), "sess-1", 5*time.Second, 10*time.Millisecond)
	require.Error(t, err)

	apiErr := err.(*Error)
	assert.Equal(t, KindSession, apiErr.Kind)
	assert.Equal(t, "sess-1", apiErr.SessionID)
	assert.Contains(t, apiErr.Message, "provisioning failed")
}

func TestWaitUntilReady_AlreadyFinished(t *testing.T) {
	var polls atomic.Int32
	c := newTestClient(t, statusSequence(&polls, StatusFinished))

	_, err := c.WaitUntilReady(context.Background(), "sess-1", 5*time.Second, 10*time.Millisecond)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindSession))
	assert.Contains(t, err.Error(), "already finished")
}

func TestWaitUntilReady_NotFoundPropagates(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.WaitUntilReady(context.Background(), "gone", time.Second, 10*time.Millisecond)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestFinishSession(t *testing.T) {
	var finishes atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/browser/session/sess-1/finish", r.URL.Path)
		finishes.Add(1)
		fmt.Fprint(w, `{"id":"sess-1","status":"FINISHED"}`)
	}))

	session, err := c.FinishSession(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, session.Status)
	assert.Equal(t, int32(1), finishes.Load())
}
