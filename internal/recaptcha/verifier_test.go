package recaptcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, threshold float64, handler http.HandlerFunc) (*Verifier, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.PostForm.Get("secret"))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	checker := New(Config{
		Secret:    "test-secret",
		Threshold: threshold,
		Timeout:   2 * time.Second,
		Endpoint:  srv.URL,
	}, nil)
	v, ok := checker.(*Verifier)
	require.True(t, ok)
	return v, &calls
}

func TestCheckAllowsHighScore(t *testing.T) {
	v, _ := newTestVerifier(t, 0.3, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"score":0.9}`))
	})

	verdict := v.Check(context.Background(), "tok")
	assert.True(t, verdict.Allowed)
	require.NotNil(t, verdict.Score)
	assert.Equal(t, 0.9, *verdict.Score)
}

func TestCheckThresholdBoundaryIsInclusive(t *testing.T) {
	v, _ := newTestVerifier(t, 0.3, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"score":0.3}`))
	})

	verdict := v.Check(context.Background(), "tok")
	assert.True(t, verdict.Allowed, "score equal to threshold must pass")
}

func TestCheckRejectsScoreBelowThreshold(t *testing.T) {
	v, _ := newTestVerifier(t, 0.3, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"score":0.29}`))
	})

	verdict := v.Check(context.Background(), "tok")
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "score-below-threshold", verdict.Detail)
}

func TestCheckAllowsSuccessWithoutScore(t *testing.T) {
	v, _ := newTestVerifier(t, 0.3, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})

	verdict := v.Check(context.Background(), "tok")
	assert.True(t, verdict.Allowed)
	assert.Nil(t, verdict.Score)
}

func TestCheckRejectsFailureRegardlessOfScore(t *testing.T) {
	v, _ := newTestVerifier(t, 0.3, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"score":0.9,"error-codes":["invalid-input-response"]}`))
	})

	verdict := v.Check(context.Background(), "tok")
	assert.False(t, verdict.Allowed)
	assert.Contains(t, verdict.Detail, "invalid-input-response")
}

func TestCheckMissingTokenSkipsNetworkCall(t *testing.T) {
	v, calls := newTestVerifier(t, 0.3, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})

	verdict := v.Check(context.Background(), "  ")
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "missing-token", verdict.Detail)
	assert.Equal(t, 0, *calls, "missing token must not contact the verifier")
}

func TestCheckVerifierUnreachableRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	checker := New(Config{
		Secret:   "test-secret",
		Timeout:  500 * time.Millisecond,
		Endpoint: srv.URL,
	}, nil)

	verdict := checker.Check(context.Background(), "tok")
	assert.False(t, verdict.Allowed, "an outage must never fail open")
	assert.Equal(t, "verifier-unreachable", verdict.Detail)
}

func TestCheckBadResponseBodyRejects(t *testing.T) {
	v, _ := newTestVerifier(t, 0.3, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	verdict := v.Check(context.Background(), "tok")
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "verifier-bad-response", verdict.Detail)
}

func TestNewWithoutSecretDisablesGate(t *testing.T) {
	checker := New(Config{Secret: "  "}, nil)

	verdict := checker.Check(context.Background(), "")
	assert.True(t, verdict.Allowed, "unconfigured gate fails open")
}

func TestNewAppliesDefaults(t *testing.T) {
	checker := New(Config{Secret: "s"}, nil)
	v, ok := checker.(*Verifier)
	require.True(t, ok)
	assert.Equal(t, DefaultThreshold, v.threshold)
	assert.Equal(t, DefaultEndpoint, v.endpoint)
	assert.Equal(t, 10*time.Second, v.client.Timeout)
}
