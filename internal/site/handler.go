package site

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/mozbe-site/internal/contact"
	"github.com/wolfman30/mozbe-site/pkg/logging"
)

// FooterYear is the copyright year stamped in the footer.
func FooterYear(now time.Time) string {
	return strconv.Itoa(now.Year())
}

// PageOptions configures the landing page.
type PageOptions struct {
	Vertical      string
	FallbackEmail string
	Now           func() time.Time
}

// Handler serves the landing page shell and its metrics.
type Handler struct {
	metrics []Metric
	opts    PageOptions
	tmpl    *template.Template
	logger  *logging.Logger
}

func NewHandler(metrics []Metric, opts PageOptions, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	tmpl := template.Must(template.New("page").Funcs(template.FuncMap{
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
	}).Parse(pageHTML))
	return &Handler{metrics: metrics, opts: opts, tmpl: tmpl, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandlePage)
	r.Get("/api/site/metrics", h.HandleMetrics)
	return r
}

type pageData struct {
	Metrics       []Metric
	Vertical      string
	FallbackEmail string
	Year          string
	Sending       string
}

// HandlePage renders the landing page.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := h.tmpl.Execute(&buf, pageData{
		Metrics:       h.metrics,
		Vertical:      h.opts.Vertical,
		FallbackEmail: h.opts.FallbackEmail,
		Year:          FooterYear(h.opts.Now()),
		Sending:       contact.StatusSending,
	})
	if err != nil {
		h.logger.Error("site: render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// HandleMetrics returns the headline metrics with their count-up frames.
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"metrics": h.metrics})
}
