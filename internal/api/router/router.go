package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/mozbe-site/internal/contact"
	httpmiddleware "github.com/wolfman30/mozbe-site/internal/http/middleware"
	"github.com/wolfman30/mozbe-site/internal/site"
	"github.com/wolfman30/mozbe-site/internal/webchat"
	"github.com/wolfman30/mozbe-site/pkg/logging"
)

// Config holds router configuration. Nil handlers leave their routes unmounted.
type Config struct {
	Logger             *logging.Logger
	SiteHandler        *site.Handler
	ContactHandler     *contact.Handler
	ChatHandler        *webchat.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Token bucket applied to POST /contact; a zero rate disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.ContactHandler != nil {
		r.With(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)).
			Post("/contact", cfg.ContactHandler.Submit)
	}

	if cfg.ChatHandler != nil {
		r.Route("/chat", func(chat chi.Router) {
			chat.Get("/ws", cfg.ChatHandler.HandleWebSocket)
			chat.Get("/transcripts", cfg.ChatHandler.HandleTranscripts)
		})
	}

	if cfg.SiteHandler != nil {
		r.Group(func(pages chi.Router) {
			pages.Use(middleware.Compress(5))
			pages.Mount("/", cfg.SiteHandler.Routes())
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
