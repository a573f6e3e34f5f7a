// Package countup computes the frames of the site's metric count-up
// animation: fifty equal increments from zero, capped at the target and
// displayed with one decimal of precision.
package countup

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// Steps is the nominal number of frames in an animation.
	Steps = 50
	// FrameInterval approximates one display refresh.
	FrameInterval = 16 * time.Millisecond
)

var leadingNumber = regexp.MustCompile(`^\s*[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseTarget reads a data-count attribute the way the browser does: the
// longest leading decimal number wins and trailing text is ignored. Values
// with no leading number, or that are not finite, are rejected so the
// counter can be skipped.
func ParseTarget(s string) (float64, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Frames returns the displayed values of a count-up to target. There is
// always at least one frame and the last one is the rounded target.
func Frames(target float64) []float64 {
	inc := target / Steps
	if inc == 0 {
		inc = 1
	}
	frames := make([]float64, 0, Steps+1)
	cur := 0.0
	for {
		cur = math.Min(target, cur+inc)
		frames = append(frames, Round(cur))
		if cur >= target {
			return frames
		}
	}
}

// Round rounds half up to one decimal place.
func Round(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// Format renders a frame value without trailing zeros ("12", "98.5").
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Sleeper pauses between frames.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Run feeds every formatted frame to sink, pausing interval between frames.
func Run(ctx context.Context, clock Sleeper, target float64, interval time.Duration, sink func(string)) error {
	frames := Frames(target)
	for i, v := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		sink(Format(v))
		if i == len(frames)-1 {
			break
		}
		if err := clock.Sleep(ctx, interval); err != nil {
			return err
		}
	}
	return nil
}
