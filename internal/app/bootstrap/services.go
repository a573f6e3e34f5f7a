package bootstrap

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/mozbe-site/internal/chatdemo"
	appconfig "github.com/wolfman30/mozbe-site/internal/config"
	"github.com/wolfman30/mozbe-site/internal/contact"
	"github.com/wolfman30/mozbe-site/internal/observability/metrics"
	"github.com/wolfman30/mozbe-site/internal/site"
	"github.com/wolfman30/mozbe-site/internal/webchat"
	"github.com/wolfman30/mozbe-site/pkg/logging"
)

// DemoTiming maps the DEMO_* settings onto player timing.
func DemoTiming(cfg *appconfig.Config) chatdemo.Timing {
	t := chatdemo.DefaultTiming()
	if cfg == nil {
		return t
	}
	if cfg.DemoTypeSpeed > 0 {
		t.TypeSpeed = cfg.DemoTypeSpeed
	}
	if cfg.DemoThinkMin > 0 {
		t.ThinkMin = cfg.DemoThinkMin
	}
	if cfg.DemoThinkMax > 0 {
		t.ThinkMax = cfg.DemoThinkMax
	}
	if cfg.DemoUserDelay > 0 {
		t.UserDelay = cfg.DemoUserDelay
	}
	if cfg.DemoConfirmDelay > 0 {
		t.ConfirmDelay = cfg.DemoConfirmDelay
	}
	if cfg.DemoAutostartFallback > 0 {
		t.AutostartFallback = cfg.DemoAutostartFallback
	}
	if cfg.DemoVisibilityThreshold > 0 && cfg.DemoVisibilityThreshold <= 1 {
		t.VisibilityThreshold = cfg.DemoVisibilityThreshold
	}
	return t
}

// ResolveVertical returns the configured demo vertical when the catalog has
// it and the default vertical otherwise. Both the page and the demo socket
// must use the resolved name.
func ResolveVertical(cfg *appconfig.Config, catalog *chatdemo.Catalog, logger *logging.Logger) string {
	if cfg == nil || catalog == nil {
		return chatdemo.DefaultVertical
	}
	vertical := cfg.DemoVertical
	if _, ok := catalog.Get(vertical); !ok {
		if logger != nil {
			logger.Warn("unknown demo vertical, using default", "vertical", vertical, "default", chatdemo.DefaultVertical)
		}
		return chatdemo.DefaultVertical
	}
	return vertical
}

// BuildChatHandler wires the demo socket over the transcript catalog.
func BuildChatHandler(cfg *appconfig.Config, catalog *chatdemo.Catalog, reg prometheus.Registerer, logger *logging.Logger) (*webchat.Handler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("bootstrap: transcript catalog is required")
	}
	return webchat.NewHandler(catalog, webchat.Options{
		DefaultVertical: ResolveVertical(cfg, catalog, logger),
		Timing:          DemoTiming(cfg),
		Metrics:         metrics.NewDemoMetrics(reg),
	}, logger), nil
}

// BuildContactHandler wires the Formspree forwarder and the optional Redis
// velocity check.
func BuildContactHandler(cfg *appconfig.Config, redisClient *redis.Client, reg prometheus.Registerer, logger *logging.Logger) (*contact.Handler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	contactMetrics := metrics.NewContactMetrics(reg)
	if cfg.ContactEndpoint == "" {
		logger.Warn("CONTACT_ENDPOINT not set, contact submissions will fail")
	}
	forwarder := contact.NewForwarder(cfg.ContactEndpoint, cfg.ContactTimeout, contactMetrics, logger)
	limiter := contact.NewSubmissionLimiter(redisClient, cfg.ContactMaxPerHour, time.Hour, logger)
	return contact.NewHandler(forwarder, limiter, cfg.ContactFallbackEmail, contactMetrics, logger), nil
}

// BuildSiteHandler parses SITE_METRICS and wires the page shell.
func BuildSiteHandler(cfg *appconfig.Config, catalog *chatdemo.Catalog, logger *logging.Logger) (*site.Handler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	siteMetrics, skipped := site.ParseMetrics(cfg.SiteMetrics)
	if len(skipped) > 0 && logger != nil {
		logger.Warn("site metrics with invalid targets will not animate", "labels", skipped)
	}
	return site.NewHandler(siteMetrics, site.PageOptions{
		Vertical:      ResolveVertical(cfg, catalog, nil),
		FallbackEmail: cfg.ContactFallbackEmail,
	}, logger), nil
}
