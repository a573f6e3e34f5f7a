package chatdemo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/mozbe-site/pkg/logging"
)

var playerTracer = otel.Tracer("mozbe.internal.chatdemo")

// State is the player's lifecycle state.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateCancelling
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateCancelling:
		return "cancelling"
	default:
		return "idle"
	}
}

// Trigger labels what asked a playback to start.
type Trigger string

const (
	TriggerImmediate Trigger = "immediate"
	TriggerVisible   Trigger = "visible"
	TriggerFallback  Trigger = "fallback"
	TriggerManual    Trigger = "manual"
)

// Playback outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

// Observer receives playback lifecycle events, typically for metrics.
type Observer interface {
	ObservePlayback(outcome string)
	ObserveTrigger(trigger string)
}

type nopObserver struct{}

func (nopObserver) ObservePlayback(string) {}
func (nopObserver) ObserveTrigger(string)  {}

// Config tunes a Player. Zero values fall back to production defaults.
type Config struct {
	Timing        Timing
	ReducedMotion bool
	Clock         Clock
	Observer      Observer
	// Int64N draws the assistant think delay; defaults to math/rand/v2.
	Int64N func(n int64) int64
}

// Player reveals a transcript onto a Surface. At most one session is active
// at a time; Replay cancels the active session and waits for it to unwind
// before the surface is cleared again.
type Player struct {
	transcript Transcript
	surface    Surface
	cfg        Config
	logger     *logging.Logger

	replayMu sync.Mutex

	mu      sync.Mutex
	state   State
	active  *session
	started bool
}

type session struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPlayer creates a player for transcript rendering onto surface.
func NewPlayer(transcript Transcript, surface Surface, cfg Config, logger *logging.Logger) *Player {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Timing == (Timing{}) {
		cfg.Timing = DefaultTiming()
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	return &Player{
		transcript: transcript,
		surface:    surface,
		cfg:        cfg,
		logger:     logger,
	}
}

// State reports the current lifecycle state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Started reports whether StartOnce or Replay has already fired.
func (p *Player) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Play starts a new session unless one is already active. The surface is
// cleared before Play returns; messages are revealed in the background.
// It reports false if a session was already active or the clear failed.
func (p *Player) Play(ctx context.Context) bool {
	p.mu.Lock()
	if p.active != nil {
		p.mu.Unlock()
		return false
	}
	sctx, cancel := context.WithCancel(ctx)
	s := &session{id: uuid.NewString(), cancel: cancel, done: make(chan struct{})}
	p.active = s
	p.state = StatePlaying
	p.mu.Unlock()

	// Replay and Stop wait on s.done, so nothing else touches the surface
	// until this clear has finished.
	if !p.clearSurface(s) {
		p.finish(s, OutcomeFailed, 0)
		return false
	}

	p.logger.Debug("chatdemo: session started", "session_id", s.id, "messages", len(p.transcript))
	go p.run(sctx, s)
	return true
}

// Replay cancels any active session, waits for it to stop touching the
// surface, then starts over from the first message.
func (p *Player) Replay(ctx context.Context) bool {
	p.replayMu.Lock()
	defer p.replayMu.Unlock()

	p.mu.Lock()
	p.started = true
	old := p.active
	if old != nil {
		p.state = StateCancelling
		old.cancel()
	}
	p.mu.Unlock()

	if old != nil {
		<-old.done
	}
	p.cfg.Observer.ObserveTrigger(string(TriggerManual))
	return p.Play(ctx)
}

// StartOnce plays the first time it is called and does nothing afterwards.
// It reports whether this call was the one that fired.
func (p *Player) StartOnce(ctx context.Context, trigger Trigger) bool {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return false
	}
	p.started = true
	p.mu.Unlock()

	p.cfg.Observer.ObserveTrigger(string(trigger))
	p.logger.Debug("chatdemo: autostart fired", "trigger", string(trigger))
	p.Play(ctx)
	return true
}

// Wait blocks until the active session, if any, has finished.
func (p *Player) Wait() {
	p.mu.Lock()
	s := p.active
	p.mu.Unlock()
	if s != nil {
		<-s.done
	}
}

// Stop cancels the active session without starting another.
func (p *Player) Stop() {
	p.mu.Lock()
	s := p.active
	if s != nil {
		p.state = StateCancelling
		s.cancel()
	}
	p.mu.Unlock()
	if s != nil {
		<-s.done
	}
}

// clearSurface clears the surface for session s, reporting false if the
// surface panicked.
func (p *Player) clearSurface(s *session) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("chatdemo: clear panicked", "session_id", s.id, "panic", fmt.Sprint(r))
			ok = false
		}
	}()
	p.surface.Clear()
	return true
}

func (p *Player) run(ctx context.Context, s *session) {
	ctx, span := playerTracer.Start(ctx, "chatdemo.playback", trace.WithAttributes(
		attribute.String("session.id", s.id),
		attribute.Int("transcript.length", len(p.transcript)),
		attribute.Bool("reduced_motion", p.cfg.ReducedMotion),
	))
	start := time.Now()
	outcome := OutcomeCompleted

	defer func() {
		if r := recover(); r != nil {
			outcome = OutcomeFailed
			p.logger.Error("chatdemo: playback panicked", "session_id", s.id, "panic", fmt.Sprint(r))
		}
		span.SetAttributes(attribute.String("playback.outcome", outcome))
		span.End()
		p.finish(s, outcome, time.Since(start))
	}()

	if err := p.reveal(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = OutcomeCancelled
			return
		}
		outcome = OutcomeFailed
		p.logger.Error("chatdemo: playback failed", "session_id", s.id, "error", err)
	}
}

func (p *Player) finish(s *session, outcome string, elapsed time.Duration) {
	s.cancel()
	p.mu.Lock()
	if p.active == s {
		p.active = nil
		p.state = StateIdle
	}
	p.mu.Unlock()
	close(s.done)

	p.cfg.Observer.ObservePlayback(outcome)
	p.logger.Debug("chatdemo: session finished",
		"session_id", s.id,
		"outcome", outcome,
		"duration_ms", elapsed.Milliseconds(),
	)
}

func (p *Player) reveal(ctx context.Context) error {
	for _, msg := range p.transcript {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch msg.Role {
		case RoleAssistant:
			err = p.revealAssistant(ctx, msg.Text)
		case RoleUser:
			err = p.revealUser(ctx, msg.Text)
		default:
			err = p.revealConfirmation(ctx, msg.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) revealAssistant(ctx context.Context, text string) error {
	p.surface.ShowTyping()
	p.surface.ScrollToLatest()
	if err := p.pause(ctx, p.cfg.Timing.thinkDelay(p.cfg.Int64N)); err != nil {
		return err
	}
	p.surface.HideTyping()
	idx := p.surface.AppendBubble(RoleAssistant, "")
	return p.typeText(ctx, idx, text)
}

func (p *Player) revealUser(ctx context.Context, text string) error {
	if err := p.pause(ctx, p.cfg.Timing.UserDelay); err != nil {
		return err
	}
	idx := p.surface.AppendBubble(RoleUser, "")
	return p.typeText(ctx, idx, text)
}

func (p *Player) revealConfirmation(ctx context.Context, text string) error {
	if err := p.pause(ctx, p.cfg.Timing.ConfirmDelay); err != nil {
		return err
	}
	p.surface.AppendBubble(RoleConfirmation, text)
	p.surface.ScrollToLatest()
	return nil
}

// typeText reveals text one rune at a time, or all at once under reduced motion.
func (p *Player) typeText(ctx context.Context, idx int, text string) error {
	if p.cfg.ReducedMotion {
		p.surface.SetText(idx, text)
		p.surface.ScrollToLatest()
		return nil
	}
	for i := 0; i < len(text); {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
		p.surface.SetText(idx, text[:i])
		p.surface.ScrollToLatest()
		if err := p.pause(ctx, p.cfg.Timing.TypeSpeed); err != nil {
			return err
		}
	}
	return nil
}

// pause sleeps on the clock and re-checks cancellation before the caller
// mutates the surface again.
func (p *Player) pause(ctx context.Context, d time.Duration) error {
	if err := p.cfg.Clock.Sleep(ctx, d); err != nil {
		return err
	}
	return ctx.Err()
}
