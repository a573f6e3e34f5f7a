package metrics

import "github.com/prometheus/client_golang/prometheus"

// DemoMetrics exposes counters for the chat demo player.
type DemoMetrics struct {
	playbackTotal *prometheus.CounterVec
	triggerTotal  *prometheus.CounterVec
	connections   prometheus.Gauge
}

func NewDemoMetrics(reg prometheus.Registerer) *DemoMetrics {
	m := &DemoMetrics{
		playbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mozbe",
			Subsystem: "chatdemo",
			Name:      "playback_total",
			Help:      "Demo playback sessions by outcome",
		}, []string{"outcome"}),
		triggerTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mozbe",
			Subsystem: "chatdemo",
			Name:      "trigger_total",
			Help:      "Playback starts by trigger (immediate, visible, fallback, manual)",
		}, []string{"trigger"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mozbe",
			Subsystem: "chatdemo",
			Name:      "open_connections",
			Help:      "Open demo WebSocket connections",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.playbackTotal, m.triggerTotal, m.connections)
	return m
}

func (m *DemoMetrics) ObservePlayback(outcome string) {
	if m == nil {
		return
	}
	m.playbackTotal.WithLabelValues(outcome).Inc()
}

func (m *DemoMetrics) ObserveTrigger(trigger string) {
	if m == nil {
		return
	}
	m.triggerTotal.WithLabelValues(trigger).Inc()
}

func (m *DemoMetrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

func (m *DemoMetrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.connections.Dec()
}

// ContactMetrics exposes counters/histograms for contact form forwarding.
type ContactMetrics struct {
	submissionsTotal *prometheus.CounterVec
	forwardLatency   prometheus.Histogram
}

func NewContactMetrics(reg prometheus.Registerer) *ContactMetrics {
	m := &ContactMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mozbe",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome",
		}, []string{"outcome"}),
		forwardLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mozbe",
			Subsystem: "contact",
			Name:      "forward_latency_seconds",
			Help:      "Latency of forwarding a submission to the form endpoint",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.forwardLatency)
	return m
}

func (m *ContactMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *ContactMetrics) ObserveForwardLatency(seconds float64) {
	if m == nil {
		return
	}
	m.forwardLatency.Observe(seconds)
}
