package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/mozbe-site/internal/observability/metrics"
	"github.com/wolfman30/mozbe-site/pkg/logging"
)

func TestForwarderSubmit(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		require.NoError(t, r.ParseForm())
		got = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, time.Second, metrics.NewContactMetrics(prometheus.NewRegistry()), logging.New("error"))
	outcome, err := f.Submit(context.Background(), url.Values{
		"name":    {"Alex Chen"},
		"email":   {"alex@example.com"},
		"message": {"Tell me more"},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeSent, outcome)
	assert.Equal(t, "Alex Chen", got.Get("name"))
	assert.Equal(t, "alex@example.com", got.Get("email"))
}

func TestForwarderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"spam"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	f := NewForwarder(srv.URL, time.Second, nil, logging.New("error"))
	outcome, err := f.Submit(context.Background(), url.Values{"email": {"a@b.c"}})

	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, outcome)
}

func TestForwarderNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	f := NewForwarder(endpoint, time.Second, nil, logging.New("error"))
	outcome, err := f.Submit(context.Background(), url.Values{"email": {"a@b.c"}})

	assert.Error(t, err)
	assert.Equal(t, OutcomeNetworkError, outcome)
}

func TestForwarderWithoutEndpoint(t *testing.T) {
	f := NewForwarder("  ", 0, nil, nil)
	outcome, err := f.Submit(context.Background(), url.Values{"email": {"a@b.c"}})

	assert.ErrorIs(t, err, ErrNoEndpoint)
	assert.Equal(t, OutcomeNetworkError, outcome)
}
