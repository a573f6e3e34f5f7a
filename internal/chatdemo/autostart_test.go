package chatdemo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInViewport(t *testing.T) {
	tests := []struct {
		name   string
		rect   Rect
		height float64
		want   bool
	}{
		{"fully visible", Rect{Top: 100, Bottom: 500}, 800, true},
		{"partially above", Rect{Top: -200, Bottom: 50}, 800, true},
		{"below the fold", Rect{Top: 900, Bottom: 1300}, 800, false},
		{"scrolled past", Rect{Top: -400, Bottom: 0}, 800, false},
		{"touching bottom edge", Rect{Top: 800, Bottom: 1000}, 800, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InViewport(tt.rect, tt.height))
		})
	}
}

func newAutostartFixture(t *testing.T) (*Autostart, *Player, *instantClock, *countingObserver, *recorder) {
	t.Helper()
	rec, surface := newRecorder()
	clock := &instantClock{}
	obs := newCountingObserver()
	p := newTestPlayer(nailsTranscript(t), surface, clock, obs, false)
	return NewAutostart(p), p, clock, obs, rec
}

func TestAutostartImmediateWhenVisible(t *testing.T) {
	a, p, clock, obs, rec := newAutostartFixture(t)
	ctx := context.Background()

	a.Arm(ctx, Rect{Top: 0, Bottom: 400}, 800)
	p.Wait()

	assert.True(t, p.Started())
	assert.False(t, a.Observing())
	assert.False(t, a.ObserveIntersection(ctx, 1))

	clock.fireTimers()
	p.Wait()
	assert.Equal(t, 1, obs.trigger(string(TriggerImmediate)))
	assert.Equal(t, 0, obs.trigger(string(TriggerFallback)))
	assert.Equal(t, 1, countKind(rec.log(), OpClear))
}

func TestAutostartVisibilityThreshold(t *testing.T) {
	a, p, clock, obs, rec := newAutostartFixture(t)
	ctx := context.Background()

	a.Arm(ctx, Rect{Top: 1200, Bottom: 1600}, 800)
	require.False(t, p.Started())
	require.True(t, a.Observing())

	assert.False(t, a.ObserveIntersection(ctx, 0))
	assert.False(t, a.ObserveIntersection(ctx, 0.05))
	assert.True(t, a.ObserveIntersection(ctx, 0.12))
	assert.False(t, a.Observing())
	assert.False(t, a.ObserveIntersection(ctx, 0.5))
	p.Wait()

	clock.fireTimers()
	p.Wait()
	assert.Equal(t, 1, obs.trigger(string(TriggerVisible)))
	assert.Equal(t, 1, countKind(rec.log(), OpClear))
	assert.Equal(t, 1, obs.playback(OutcomeCompleted))
}

func TestAutostartFallbackTimer(t *testing.T) {
	a, p, clock, obs, _ := newAutostartFixture(t)

	a.Arm(context.Background(), Rect{Top: 1200, Bottom: 1600}, 800)
	require.Len(t, clock.timers, 1)
	assert.Equal(t, DefaultTiming().AutostartFallback, clock.timers[0].d)

	clock.fireTimers()
	p.Wait()
	assert.True(t, p.Started())
	assert.Equal(t, 1, obs.trigger(string(TriggerFallback)))
	assert.False(t, a.ObserveIntersection(context.Background(), 1))
}

func TestAutostartDisarmStopsFallback(t *testing.T) {
	a, p, clock, _, _ := newAutostartFixture(t)

	a.Arm(context.Background(), Rect{Top: 1200, Bottom: 1600}, 800)
	a.Disarm()
	clock.fireTimers()

	assert.False(t, p.Started())
	assert.False(t, a.Observing())
}

func TestAutostartFallbackSkippedAfterContextDone(t *testing.T) {
	a, p, clock, _, _ := newAutostartFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	a.Arm(ctx, Rect{Top: 1200, Bottom: 1600}, 800)
	cancel()
	clock.fireTimers()

	assert.False(t, p.Started())
}

func TestAutostartAfterManualReplay(t *testing.T) {
	a, p, clock, obs, _ := newAutostartFixture(t)
	ctx := context.Background()

	a.Arm(ctx, Rect{Top: 1200, Bottom: 1600}, 800)
	p.Replay(ctx)
	p.Wait()

	clock.fireTimers()
	assert.False(t, a.ObserveIntersection(ctx, 1))
	p.Wait()
	assert.Equal(t, 0, obs.trigger(string(TriggerFallback)))
	assert.Equal(t, 1, obs.playback(OutcomeCompleted))
}
