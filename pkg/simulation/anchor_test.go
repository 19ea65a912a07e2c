package simulation

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func TestAnchorTracker(t *testing.T) {
	p := func(x, y float64) geometry.Vector2D { return geometry.Vector2D{X: x, Y: y} }
	at := func(x, y float64) *geometry.Vector2D { v := p(x, y); return &v }

	tests := []struct {
		name   string
		events func(a *AnchorTracker)
		want   *geometry.Vector2D
	}{
		{
			name:   "no events",
			events: func(a *AnchorTracker) {},
			want:   nil,
		},
		{
			name:   "press sets anchor",
			events: func(a *AnchorTracker) { a.MouseDown(p(10, 20), true) },
			want:   at(10, 20),
		},
		{
			name:   "press outside clears",
			events: func(a *AnchorTracker) { a.MouseDown(p(10, 20), true); a.MouseUp(); a.MouseDown(p(-5, 0), false) },
			want:   nil,
		},
		{
			name: "drag follows pointer",
			events: func(a *AnchorTracker) {
				a.MouseDown(p(10, 20), true)
				a.MouseMove(p(30, 40), true)
			},
			want: at(30, 40),
		},
		{
			name: "release keeps anchor and stops following",
			events: func(a *AnchorTracker) {
				a.MouseDown(p(10, 20), true)
				a.MouseUp()
				a.MouseMove(p(30, 40), true)
			},
			want: at(10, 20),
		},
		{
			name: "dragging out of the world clears",
			events: func(a *AnchorTracker) {
				a.MouseDown(p(10, 20), true)
				a.MouseMove(p(-1, 40), false)
			},
			want: nil,
		},
		{
			name: "moving outside without drag keeps anchor",
			events: func(a *AnchorTracker) {
				a.MouseDown(p(10, 20), true)
				a.MouseUp()
				a.MouseMove(p(-1, 40), false)
			},
			want: at(10, 20),
		},
		{
			name: "tracking follows without a button",
			events: func(a *AnchorTracker) {
				a.MouseDown(p(10, 20), true)
				a.MouseUp()
				a.DoubleClick()
				a.MouseMove(p(50, 60), true)
			},
			want: at(50, 60),
		},
		{
			name: "second double click clears",
			events: func(a *AnchorTracker) {
				a.MouseDown(p(10, 20), true)
				a.DoubleClick()
				a.DoubleClick()
			},
			want: nil,
		},
		{
			name: "clear stops tracking",
			events: func(a *AnchorTracker) {
				a.DoubleClick()
				a.MouseMove(p(5, 5), true)
				a.Clear()
				a.MouseMove(p(6, 6), true)
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a AnchorTracker
			tt.events(&a)
			if got := a.Anchor(); !SameAnchor(got, tt.want) {
				t.Errorf("Anchor() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestAnchorTracker_Flags(t *testing.T) {
	var a AnchorTracker
	a.MouseDown(geometry.Vector2D{X: 1, Y: 1}, true)
	if !a.Dragging() || a.Tracking() {
		t.Fatal("press should start dragging only")
	}
	a.DoubleClick()
	a.MouseUp()
	if a.Dragging() || !a.Tracking() {
		t.Fatal("release after double click should leave tracking on")
	}
	a.Clear()
	if a.Dragging() || a.Tracking() || a.Anchor() != nil {
		t.Error("Clear left state behind")
	}
}

func TestSameAnchor(t *testing.T) {
	a := &geometry.Vector2D{X: 1, Y: 2}
	b := &geometry.Vector2D{X: 1, Y: 2}
	if !SameAnchor(nil, nil) || !SameAnchor(a, b) {
		t.Error("equal anchors reported different")
	}
	if SameAnchor(a, nil) || SameAnchor(nil, b) || SameAnchor(a, &geometry.Vector2D{X: 2, Y: 2}) {
		t.Error("different anchors reported equal")
	}
}
