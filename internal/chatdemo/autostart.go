package chatdemo

import (
	"context"
	"sync"
	"time"
)

// Rect is the host element's vertical extent relative to the viewport top.
type Rect struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// InViewport reports whether rect overlaps a viewport of the given height.
func InViewport(rect Rect, viewportHeight float64) bool {
	return rect.Top < viewportHeight && rect.Bottom > 0
}

// Autostart races three triggers into Player.StartOnce: an immediate
// viewport check, the first sufficiently visible intersection, and a
// fallback timer for layouts where neither signal arrives.
type Autostart struct {
	player    *Player
	clock     Clock
	fallback  time.Duration
	threshold float64

	mu        sync.Mutex
	observing bool
	stopTimer func() bool
}

// NewAutostart wires the triggers for player using its timing.
func NewAutostart(player *Player) *Autostart {
	return &Autostart{
		player:    player,
		clock:     player.cfg.Clock,
		fallback:  player.cfg.Timing.AutostartFallback,
		threshold: player.cfg.Timing.VisibilityThreshold,
	}
}

// Arm runs the immediate check, starts observing visibility and schedules
// the fallback timer. Playback started by any trigger inherits ctx.
func (a *Autostart) Arm(ctx context.Context, host Rect, viewportHeight float64) {
	if InViewport(host, viewportHeight) {
		a.player.StartOnce(ctx, TriggerImmediate)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.observing = !a.player.Started()
	if a.stopTimer != nil {
		a.stopTimer()
	}
	a.stopTimer = a.clock.AfterFunc(a.fallback, func() {
		if ctx.Err() != nil {
			return
		}
		a.player.StartOnce(ctx, TriggerFallback)
	})
}

// ObserveIntersection feeds a visibility ratio for the host element. The
// first ratio at or above the threshold fires and detaches the observer.
func (a *Autostart) ObserveIntersection(ctx context.Context, ratio float64) bool {
	a.mu.Lock()
	if !a.observing || ratio <= 0 || ratio < a.threshold {
		a.mu.Unlock()
		return false
	}
	a.observing = false
	a.mu.Unlock()
	return a.player.StartOnce(ctx, TriggerVisible)
}

// Observing reports whether the visibility observer is still attached.
func (a *Autostart) Observing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.observing
}

// Disarm stops the fallback timer and detaches the observer.
func (a *Autostart) Disarm() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observing = false
	if a.stopTimer != nil {
		a.stopTimer()
		a.stopTimer = nil
	}
}
