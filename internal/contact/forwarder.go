package contact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/mozbe-site/internal/observability/metrics"
	"github.com/wolfman30/mozbe-site/pkg/logging"
)

var contactTracer = otel.Tracer("mozbe.internal.contact")

// Outcome is the coarse result of a submission.
type Outcome string

const (
	OutcomeSent         Outcome = "sent"
	OutcomeRejected     Outcome = "rejected"
	OutcomeNetworkError Outcome = "network_error"
	OutcomeThrottled    Outcome = "throttled"
	OutcomeInvalid      Outcome = "invalid"
)

// ErrNoEndpoint is returned when no form endpoint is configured.
var ErrNoEndpoint = errors.New("contact: form endpoint not configured")

// Forwarder posts contact form fields to the hosted form service (Formspree).
type Forwarder struct {
	endpoint string
	client   *http.Client
	metrics  *metrics.ContactMetrics
	logger   *logging.Logger
}

// NewForwarder creates a forwarder for endpoint. A zero timeout defaults to 10s.
func NewForwarder(endpoint string, timeout time.Duration, m *metrics.ContactMetrics, logger *logging.Logger) *Forwarder {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Forwarder{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: timeout},
		metrics:  m,
		logger:   logger,
	}
}

// Submit forwards fields form-encoded. Any 2xx is a success, any other
// status a rejection; transport failures are reported as network errors.
func (f *Forwarder) Submit(ctx context.Context, fields url.Values) (Outcome, error) {
	ctx, span := contactTracer.Start(ctx, "contact.forward", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int("contact.field_count", len(fields)))

	if f.endpoint == "" {
		span.SetStatus(codes.Error, ErrNoEndpoint.Error())
		return OutcomeNetworkError, ErrNoEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, strings.NewReader(fields.Encode()))
	if err != nil {
		span.RecordError(err)
		return OutcomeNetworkError, fmt.Errorf("contact: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	f.metrics.ObserveForwardLatency(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "forward failed")
		f.logger.Warn("contact: forward failed", "error", err)
		return OutcomeNetworkError, fmt.Errorf("contact: forward: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return OutcomeSent, nil
	}
	span.SetStatus(codes.Error, "rejected")
	f.logger.Warn("contact: form endpoint rejected submission", "status", resp.StatusCode)
	return OutcomeRejected, nil
}
