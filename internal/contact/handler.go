package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	httpmiddleware "github.com/wolfman30/mozbe-site/internal/http/middleware"
	"github.com/wolfman30/mozbe-site/internal/observability/metrics"
	"github.com/wolfman30/mozbe-site/pkg/logging"
)

const maxFormBytes = 1 << 20

// Status strings shown under the form.
const (
	StatusSending = "Sending…"
	StatusSent    = "Thanks! We’ll get back to you shortly."
)

// Submitter delivers form fields to the form service.
type Submitter interface {
	Submit(ctx context.Context, fields url.Values) (Outcome, error)
}

// Response is the JSON body returned to the page script.
type Response struct {
	OK     bool   `json:"ok"`
	Status string `json:"status"`
}

// Handler accepts contact form posts from the site.
type Handler struct {
	submitter     Submitter
	limiter       *SubmissionLimiter
	fallbackEmail string
	metrics       *metrics.ContactMetrics
	logger        *logging.Logger
}

// NewHandler creates a contact form handler. limiter may be nil.
func NewHandler(submitter Submitter, limiter *SubmissionLimiter, fallbackEmail string, m *metrics.ContactMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		submitter:     submitter,
		limiter:       limiter,
		fallbackEmail: fallbackEmail,
		metrics:       m,
		logger:        logger,
	}
}

// StatusFor returns the message shown for an outcome.
func (h *Handler) StatusFor(outcome Outcome) string {
	switch outcome {
	case OutcomeSent:
		return StatusSent
	case OutcomeNetworkError:
		return fmt.Sprintf("Network error. Please email %s", h.fallbackEmail)
	default:
		return fmt.Sprintf("Something went wrong. Please email %s", h.fallbackEmail)
	}
}

// Submit handles POST /contact with a urlencoded or multipart body.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.respond(w, http.StatusBadRequest, OutcomeInvalid)
		return
	}
	fields := nonEmpty(r.PostForm)
	if len(fields) == 0 {
		h.respond(w, http.StatusBadRequest, OutcomeInvalid)
		return
	}

	ip := httpmiddleware.ClientIP(r)
	allowed, err := h.limiter.Allow(r.Context(), ip)
	if err != nil {
		h.logger.Warn("contact: limiter unavailable, allowing submission", "error", err)
	}
	if !allowed {
		h.respond(w, http.StatusTooManyRequests, OutcomeThrottled)
		return
	}

	outcome, err := h.submitter.Submit(r.Context(), fields)
	if err != nil {
		h.logger.Error("contact: submission failed", "error", err, "outcome", string(outcome))
	}
	switch outcome {
	case OutcomeSent:
		h.logger.Info("contact: submission forwarded", "fields", len(fields))
		h.respond(w, http.StatusOK, outcome)
	default:
		// Upstream failures do not count against the visitor's window.
		if err := h.limiter.Refund(r.Context(), ip); err != nil {
			h.logger.Warn("contact: velocity refund failed", "error", err)
		}
		h.respond(w, http.StatusBadGateway, outcome)
	}
}

func (h *Handler) respond(w http.ResponseWriter, status int, outcome Outcome) {
	h.metrics.ObserveSubmission(string(outcome))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{OK: outcome == OutcomeSent, Status: h.StatusFor(outcome)})
}

func nonEmpty(in url.Values) url.Values {
	out := url.Values{}
	for k, vs := range in {
		for _, v := range vs {
			if strings.TrimSpace(v) != "" {
				out.Add(k, v)
			}
		}
	}
	return out
}
