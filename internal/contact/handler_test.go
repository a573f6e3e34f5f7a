package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/mozbe-site/pkg/logging"
)

type fakeSubmitter struct {
	outcome Outcome
	err     error
	calls   []url.Values
}

func (f *fakeSubmitter) Submit(_ context.Context, fields url.Values) (Outcome, error) {
	f.calls = append(f.calls, fields)
	return f.outcome, f.err
}

const fallback = "hello@mozbe.ai"

func postForm(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Submit(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandlerSubmitOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		outcome    Outcome
		err        error
		wantCode   int
		wantOK     bool
		wantStatus string
	}{
		{"sent", OutcomeSent, nil, http.StatusOK, true, StatusSent},
		{"rejected", OutcomeRejected, nil, http.StatusBadGateway, false, "Something went wrong. Please email " + fallback},
		{"network", OutcomeNetworkError, errors.New("dial tcp: refused"), http.StatusBadGateway, false, "Network error. Please email " + fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{outcome: tt.outcome, err: tt.err}
			h := NewHandler(sub, nil, fallback, nil, logging.New("error"))

			w := postForm(h, "name=Alex&email=alex%40example.com&message=Hi")

			assert.Equal(t, tt.wantCode, w.Code)
			resp := decode(t, w)
			assert.Equal(t, tt.wantOK, resp.OK)
			assert.Equal(t, tt.wantStatus, resp.Status)
			require.Len(t, sub.calls, 1)
			assert.Equal(t, "alex@example.com", sub.calls[0].Get("email"))
		})
	}
}

func TestHandlerSubmitMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("email", "kim@example.com"))
	require.NoError(t, mw.WriteField("message", "Book me"))
	require.NoError(t, mw.Close())

	sub := &fakeSubmitter{outcome: OutcomeSent}
	h := NewHandler(sub, nil, fallback, nil, logging.New("error"))
	req := httptest.NewRequest(http.MethodPost, "/contact", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.Submit(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, sub.calls, 1)
	assert.Equal(t, "kim@example.com", sub.calls[0].Get("email"))
	assert.Equal(t, "Book me", sub.calls[0].Get("message"))
}

func TestHandlerRejectsEmptyForm(t *testing.T) {
	sub := &fakeSubmitter{outcome: OutcomeSent}
	h := NewHandler(sub, nil, fallback, nil, logging.New("error"))

	w := postForm(h, "name=&email=++")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decode(t, w).OK)
	assert.Empty(t, sub.calls)
}

func TestHandlerThrottles(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter := NewSubmissionLimiter(client, 1, time.Hour, nil)
	sub := &fakeSubmitter{outcome: OutcomeSent}
	h := NewHandler(sub, limiter, fallback, nil, logging.New("error"))

	first := postForm(h, "email=a%40b.c")
	second := postForm(h, "email=a%40b.c")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "Something went wrong. Please email "+fallback, decode(t, second).Status)
	assert.Len(t, sub.calls, 1)
}

func TestHandlerRefundsFailedForwards(t *testing.T) {
	client, _ := setupTestRedis(t)
	limiter := NewSubmissionLimiter(client, 1, time.Hour, nil)
	sub := &fakeSubmitter{outcome: OutcomeNetworkError, err: errors.New("dial tcp: refused")}
	h := NewHandler(sub, limiter, fallback, nil, logging.New("error"))

	failed := postForm(h, "email=a%40b.c")
	assert.Equal(t, http.StatusBadGateway, failed.Code)

	sub.outcome, sub.err = OutcomeSent, nil
	retried := postForm(h, "email=a%40b.c")
	assert.Equal(t, http.StatusOK, retried.Code)

	throttled := postForm(h, "email=a%40b.c")
	assert.Equal(t, http.StatusTooManyRequests, throttled.Code)
	assert.Len(t, sub.calls, 2)
}
