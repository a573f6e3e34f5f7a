package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDemoMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewDemoMetrics(reg)
	m.ObservePlayback("completed")
	m.ObservePlayback("completed")
	m.ObservePlayback("cancelled")
	m.ObserveTrigger("fallback")
	m.ConnectionOpened()
	m.ConnectionOpened()
	m.ConnectionClosed()

	if got := testutil.ToFloat64(m.playbackTotal.WithLabelValues("completed")); got != 2 {
		t.Fatalf("expected 2 completed playbacks, got %v", got)
	}
	if got := testutil.ToFloat64(m.triggerTotal.WithLabelValues("fallback")); got != 1 {
		t.Fatalf("expected 1 fallback trigger, got %v", got)
	}
	if got := testutil.ToFloat64(m.connections); got != 1 {
		t.Fatalf("expected 1 open connection, got %v", got)
	}
}

func TestContactMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewContactMetrics(reg)
	m.ObserveSubmission("sent")
	m.ObserveForwardLatency(0.2)

	if got := testutil.ToFloat64(m.submissionsTotal.WithLabelValues("sent")); got != 1 {
		t.Fatalf("expected 1 sent submission, got %v", got)
	}
	if n := testutil.CollectAndCount(m.forwardLatency); n != 1 {
		t.Fatalf("expected histogram to be collected, got %d", n)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var d *DemoMetrics
	d.ObservePlayback("completed")
	d.ObserveTrigger("manual")
	d.ConnectionOpened()
	d.ConnectionClosed()

	var c *ContactMetrics
	c.ObserveSubmission("sent")
	c.ObserveForwardLatency(0.1)
}
