package simulation

import "time"

// DefaultMaxFrameGap is the longest pause between two frames still treated as
// continuous play.
const DefaultMaxFrameGap = 250 * time.Millisecond

// ResumeDetector tells the front-end when the simulation clock must be reset
// before the next tick: when the window regains focus, or when frames stopped
// arriving for longer than MaxGap (a minimised or unfocused window is not
// updated at all).
type ResumeDetector struct {
	MaxGap time.Duration

	lastFrame time.Time
	focused   bool
	seen      bool
}

// NewResumeDetector returns a detector using DefaultMaxFrameGap.
func NewResumeDetector() *ResumeDetector {
	return &ResumeDetector{MaxGap: DefaultMaxFrameGap}
}

// Observe records a frame at now and reports whether the clock should be reset
// before stepping. The first frame never resets.
func (r *ResumeDetector) Observe(now time.Time, focused bool) bool {
	reset := false
	if r.seen {
		regained := focused && !r.focused
		stalled := r.MaxGap > 0 && now.Sub(r.lastFrame) > r.MaxGap
		reset = regained || stalled
	}
	r.lastFrame = now
	r.focused = focused
	r.seen = true
	return reset
}
