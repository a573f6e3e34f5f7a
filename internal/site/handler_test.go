package site

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/mozbe-site/pkg/logging"
)

func TestFooterYear(t *testing.T) {
	assert.Equal(t, "2026", FooterYear(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)))
}

func TestParseMetrics(t *testing.T) {
	metrics, skipped := ParseMetrics("Bookings captured|1200; Avg reply (s)|2.5 ;Uptime|n/a;;42")

	require.Len(t, metrics, 4)
	assert.Equal(t, "Bookings captured", metrics[0].Label)
	assert.True(t, metrics[0].Valid)
	assert.Equal(t, 1200.0, metrics[0].Target)
	assert.Equal(t, 1200.0, metrics[0].Frames[len(metrics[0].Frames)-1])

	assert.Equal(t, 2.5, metrics[1].Target)

	assert.False(t, metrics[2].Valid)
	assert.Empty(t, metrics[2].Frames)
	assert.Equal(t, []string{"Uptime"}, skipped)

	assert.Equal(t, "", metrics[3].Label)
	assert.Equal(t, 42.0, metrics[3].Target)
}

func newTestHandler() *Handler {
	metrics, _ := ParseMetrics("Bookings|1200;Uptime|n/a")
	return NewHandler(metrics, PageOptions{
		Vertical:      "medspa",
		FallbackEmail: "hello@mozbe.ai",
		Now:           func() time.Time { return time.Date(2031, 1, 2, 0, 0, 0, 0, time.UTC) },
	}, logging.New("error"))
}

func TestHandlePage(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, `<span id="year">2031</span>`)
	assert.Contains(t, body, `aria-expanded="false"`)
	assert.Contains(t, body, `data-count="1200"`)
	assert.Contains(t, body, `>n/a</div>`)
	assert.Contains(t, body, `"medspa"`)
	assert.Contains(t, body, `"hello@mozbe.ai"`)
	assert.Contains(t, body, `class="chat__replay"`)
}

func TestHandleMetrics(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/site/metrics", nil)
	w := httptest.NewRecorder()

	h.Routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Metrics []Metric `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Metrics, 2)
	assert.True(t, body.Metrics[0].Valid)
	assert.Len(t, body.Metrics[0].Frames, 50)
	assert.False(t, body.Metrics[1].Valid)
}
