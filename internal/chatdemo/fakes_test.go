package chatdemo

import (
	"context"
	"sync"
	"testing"
	"time"
)

// instantClock never blocks; it records requested delays and holds timers
// until fireTimers is called.
type instantClock struct {
	mu     sync.Mutex
	sleeps []time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *instantClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.mu.Unlock()
	return ctx.Err()
}

func (c *instantClock) AfterFunc(d time.Duration, f func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

func (c *instantClock) fireTimers() {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

func (c *instantClock) recorded() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

// gateClock blocks every Sleep until a token is released, the gate is
// opened, or the context is cancelled.
type gateClock struct {
	instantClock
	tokens  chan struct{}
	open    chan struct{}
	entered chan struct{}
	once    sync.Once
}

func newGateClock() *gateClock {
	return &gateClock{
		tokens:  make(chan struct{}, 4096),
		open:    make(chan struct{}),
		entered: make(chan struct{}, 4096),
	}
}

func (c *gateClock) Sleep(ctx context.Context, d time.Duration) error {
	c.instantClock.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.instantClock.mu.Unlock()
	c.entered <- struct{}{}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.tokens:
		return nil
	case <-c.open:
		return nil
	}
}

func (c *gateClock) release(n int) {
	for i := 0; i < n; i++ {
		c.tokens <- struct{}{}
	}
}

func (c *gateClock) openAll() { c.once.Do(func() { close(c.open) }) }

// awaitSleeps blocks until n Sleep calls have been entered since the last call.
func (c *gateClock) awaitSleeps(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-c.entered:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for sleep %d of %d", i+1, n)
		}
	}
}

// recorder captures every op a player emits and mirrors it on a Board.
type recorder struct {
	mu      sync.Mutex
	ops     []Op
	scrolls []int
	board   *Board
}

func newRecorder() (*recorder, *OpSurface) {
	r := &recorder{board: NewBoard()}
	return r, NewOpSurface(func(op Op) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.ops = append(r.ops, op)
		r.board.Apply(op)
		r.scrolls = append(r.scrolls, r.board.Snapshot().ScrollTop)
	})
}

func (r *recorder) log() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

type countingObserver struct {
	mu        sync.Mutex
	playbacks map[string]int
	triggers  map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{playbacks: map[string]int{}, triggers: map[string]int{}}
}

func (o *countingObserver) ObservePlayback(outcome string) {
	o.mu.Lock()
	o.playbacks[outcome]++
	o.mu.Unlock()
}

func (o *countingObserver) ObserveTrigger(trigger string) {
	o.mu.Lock()
	o.triggers[trigger]++
	o.mu.Unlock()
}

func (o *countingObserver) playback(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.playbacks[outcome]
}

func (o *countingObserver) trigger(name string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.triggers[name]
}

func zeroRand(int64) int64 { return 0 }
