package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/mozbe-site/internal/chatdemo"
	"github.com/wolfman30/mozbe-site/internal/observability/metrics"
	"github.com/wolfman30/mozbe-site/pkg/logging"
)

// Handler serves the hero chat demo. Each WebSocket connection gets its own
// player; the page only applies the surface ops it receives.
type Handler struct {
	catalog         *chatdemo.Catalog
	defaultVertical string
	timing          chatdemo.Timing
	clock           chatdemo.Clock
	metrics         *metrics.DemoMetrics
	logger          *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*wsConn // sessionID -> active connection
}

type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(msg OutboundMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return websocket.JSON.Send(c.conn, msg)
}

// InboundMessage is what the page sends.
type InboundMessage struct {
	Type           string         `json:"type"` // "hello", "visibility", "replay", "ping"
	Rect           *chatdemo.Rect `json:"rect,omitempty"`
	ViewportHeight float64        `json:"viewport_height,omitempty"`
	ReducedMotion  bool           `json:"reduced_motion,omitempty"`
	Ratio          float64        `json:"ratio,omitempty"`
}

// OutboundMessage is what we send to the page.
type OutboundMessage struct {
	Type      string       `json:"type"` // "session", "op", "pong", "error"
	SessionID string       `json:"session_id,omitempty"`
	Text      string       `json:"text,omitempty"`
	Op        *chatdemo.Op `json:"op,omitempty"`
}

// Options configures a Handler.
type Options struct {
	DefaultVertical string
	Timing          chatdemo.Timing
	Clock           chatdemo.Clock
	Metrics         *metrics.DemoMetrics
}

// NewHandler creates a chat demo handler.
func NewHandler(catalog *chatdemo.Catalog, opts Options, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.DefaultVertical == "" {
		opts.DefaultVertical = chatdemo.DefaultVertical
	}
	if opts.Timing == (chatdemo.Timing{}) {
		opts.Timing = chatdemo.DefaultTiming()
	}
	if opts.Clock == nil {
		opts.Clock = chatdemo.SystemClock()
	}
	return &Handler{
		catalog:         catalog,
		defaultVertical: opts.DefaultVertical,
		timing:          opts.Timing,
		clock:           opts.Clock,
		metrics:         opts.Metrics,
		logger:          logger,
		sessions:        make(map[string]*wsConn),
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// ActiveSessions returns the number of open demo connections.
func (h *Handler) ActiveSessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// HandleWebSocket upgrades to WebSocket and runs one demo per connection.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Server{
		Handshake: acceptOrigin,
		Handler: func(conn *websocket.Conn) {
			h.serveWS(conn, r)
		},
	}.ServeHTTP(w, r)
}

// acceptOrigin records the Origin when present. Browsers always send one;
// the terminal client does not, so a missing Origin is allowed.
func acceptOrigin(config *websocket.Config, req *http.Request) error {
	if req.Header.Get("Origin") == "" {
		return nil
	}
	origin, err := websocket.Origin(config, req)
	if err != nil {
		return err
	}
	config.Origin = origin
	return nil
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	vertical := strings.TrimSpace(r.URL.Query().Get("vertical"))
	if vertical == "" {
		vertical = h.defaultVertical
	}
	transcript, ok := h.catalog.Get(vertical)
	if !ok {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "unknown vertical"})
		return
	}

	sessionID := generateSessionID()
	wsc := &wsConn{conn: conn}
	logger := h.logger.With("session_id", sessionID, "vertical", vertical)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := wsc.send(OutboundMessage{Type: "session", SessionID: sessionID}); err != nil {
		return
	}

	h.mu.Lock()
	h.sessions[sessionID] = wsc
	h.mu.Unlock()
	h.metrics.ConnectionOpened()

	var (
		player    *chatdemo.Player
		autostart *chatdemo.Autostart
	)
	defer func() {
		cancel()
		if autostart != nil {
			autostart.Disarm()
		}
		if player != nil {
			player.Stop()
		}
		h.mu.Lock()
		delete(h.sessions, sessionID)
		h.mu.Unlock()
		h.metrics.ConnectionClosed()
	}()

	logger.Info("webchat: demo connection opened")

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			logger.Debug("webchat: connection closed", "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = wsc.send(OutboundMessage{Type: "pong"})
		case "hello":
			if player != nil {
				continue
			}
			surface := chatdemo.NewOpSurface(func(op chatdemo.Op) {
				if err := wsc.send(OutboundMessage{Type: "op", Op: &op}); err != nil {
					logger.Debug("webchat: op send failed", "error", err)
				}
			})
			player = chatdemo.NewPlayer(transcript, surface, chatdemo.Config{
				Timing:        h.timing,
				ReducedMotion: msg.ReducedMotion,
				Clock:         h.clock,
				Observer:      h.metrics,
			}, logger)
			autostart = chatdemo.NewAutostart(player)
			var rect chatdemo.Rect
			if msg.Rect != nil {
				rect = *msg.Rect
			}
			autostart.Arm(ctx, rect, msg.ViewportHeight)
		case "visibility":
			if autostart != nil {
				autostart.ObserveIntersection(ctx, msg.Ratio)
			}
		case "replay":
			if player != nil {
				player.Replay(ctx)
			}
		}
	}
}

// HandleTranscripts lists the demo verticals.
func (h *Handler) HandleTranscripts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"default":   h.defaultVertical,
		"verticals": h.catalog.Verticals(),
	})
}
