package simulation

import "github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"

// AnchorTracker turns pointer events into an anchor position.
//
//   - a press inside the world sets the anchor and starts dragging
//   - a press outside the world clears it
//   - moving while dragging or tracking follows the pointer; leaving the world clears
//   - releasing stops dragging but keeps the anchor
//   - a double click toggles continuous tracking; toggling it off clears
type AnchorTracker struct {
	anchor   *geometry.Vector2D
	dragging bool
	tracking bool
}

// MouseDown handles a primary button press at p.
func (a *AnchorTracker) MouseDown(p geometry.Vector2D, inside bool) {
	if !inside {
		a.Clear()
		return
	}
	a.dragging = true
	a.set(p)
}

// MouseMove handles pointer motion to p.
func (a *AnchorTracker) MouseMove(p geometry.Vector2D, inside bool) {
	if !a.dragging && !a.tracking {
		return
	}
	if !inside {
		a.Clear()
		return
	}
	a.set(p)
}

// MouseUp handles the button release.
func (a *AnchorTracker) MouseUp() {
	a.dragging = false
}

// DoubleClick toggles continuous tracking.
func (a *AnchorTracker) DoubleClick() {
	if a.tracking {
		a.Clear()
		return
	}
	a.tracking = true
}

// Clear drops the anchor and stops any dragging or tracking.
func (a *AnchorTracker) Clear() {
	a.anchor = nil
	a.dragging = false
	a.tracking = false
}

// Anchor returns a copy of the current anchor, or nil.
func (a *AnchorTracker) Anchor() *geometry.Vector2D {
	if a.anchor == nil {
		return nil
	}
	p := *a.anchor
	return &p
}

func (a *AnchorTracker) Dragging() bool { return a.dragging }
func (a *AnchorTracker) Tracking() bool { return a.tracking }

func (a *AnchorTracker) set(p geometry.Vector2D) {
	a.anchor = &p
}

// SameAnchor reports whether two optional anchors are equal.
func SameAnchor(a, b *geometry.Vector2D) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
