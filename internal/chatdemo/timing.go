package chatdemo

import (
	"math/rand/v2"
	"time"
)

// Timing holds the pacing knobs for a playback. Copies of the site used
// slightly different confirmation and user delays, so every value is tunable.
type Timing struct {
	TypeSpeed           time.Duration // per revealed character
	ThinkMin            time.Duration // assistant "typing" indicator, lower bound
	ThinkMax            time.Duration // upper bound, exclusive
	UserDelay           time.Duration
	ConfirmDelay        time.Duration
	AutostartFallback   time.Duration
	VisibilityThreshold float64
}

// DefaultTiming returns the pacing used on the production site.
func DefaultTiming() Timing {
	return Timing{
		TypeSpeed:           16 * time.Millisecond,
		ThinkMin:            700 * time.Millisecond,
		ThinkMax:            1100 * time.Millisecond,
		UserDelay:           350 * time.Millisecond,
		ConfirmDelay:        250 * time.Millisecond,
		AutostartFallback:   1500 * time.Millisecond,
		VisibilityThreshold: 0.1,
	}
}

// thinkDelay draws uniformly from [ThinkMin, ThinkMax) at millisecond
// granularity. A degenerate range yields ThinkMin.
func (t Timing) thinkDelay(int64n func(int64) int64) time.Duration {
	lo, hi := t.ThinkMin.Milliseconds(), t.ThinkMax.Milliseconds()
	if hi <= lo {
		return t.ThinkMin
	}
	if int64n == nil {
		int64n = rand.Int64N
	}
	return time.Duration(lo+int64n(hi-lo)) * time.Millisecond
}
