package simulation

import (
	"errors"
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// ErrNoSuchFlock is returned when a flock index is out of range.
var ErrNoSuchFlock = errors.New("no such flock")

// BoidView is the read-only copy of a boid handed to renderers.
type BoidView struct {
	Flock    int               `json:"flock"`
	Position geometry.Vector2D `json:"position"`
	Velocity geometry.Vector2D `json:"velocity"`
	Size     float64           `json:"size"`
	Shape    behavior.Shape    `json:"shape"`
	Color    string            `json:"color"`
}

// WorldSnapshot is a deep copy of the world after a tick.
// Nothing in it aliases Stepper state, so it can cross goroutines.
type WorldSnapshot struct {
	Boids      []BoidView         `json:"boids"`
	Anchor     *geometry.Vector2D `json:"anchor,omitempty"`
	Paused     bool               `json:"paused"`
	Solo       bool               `json:"solo"`
	Collisions bool               `json:"collisions"`
	Active     int                `json:"active"`
	Tick       int64              `json:"tick"`
	SimTime    float64            `json:"simTime"`
	Stats      []FlockStats       `json:"stats"`
}

// Stepper advances every flock by one measured time delta.
// It owns the anchor and the mode flags; nothing here is safe for concurrent use,
// WorldActor serialises access through its mailbox.
type Stepper struct {
	flocks []*behavior.Flock
	bounds behavior.Bounds

	paused     bool
	solo       bool
	collisions bool
	anchor     *geometry.Vector2D

	last     time.Time
	haveLast bool
	tick     int64
	simTime  float64

	// scratch buffers reused between ticks
	all    []*behavior.Boid
	forces [][]geometry.Vector2D
}

// NewStepper creates a running stepper with cross-flock collisions enabled.
func NewStepper(flocks []*behavior.Flock, bounds behavior.Bounds) *Stepper {
	return &Stepper{
		flocks:     flocks,
		bounds:     bounds,
		collisions: true,
		forces:     make([][]geometry.Vector2D, len(flocks)),
	}
}

// Flocks returns the flocks in draw order.
func (s *Stepper) Flocks() []*behavior.Flock { return s.flocks }

// Bounds returns the current world.
func (s *Stepper) Bounds() behavior.Bounds { return s.bounds }

// SetBounds resizes the world. Boids keep their positions and steer back in.
func (s *Stepper) SetBounds(b behavior.Bounds) {
	s.bounds = b
	for _, f := range s.flocks {
		f.SetBounds(b)
	}
}

// Step advances the world to now. It returns false and does nothing while paused.
// The first tick, and the first one after a resume or ResetClock, integrates a zero delta.
func (s *Stepper) Step(now time.Time) bool {
	if s.paused {
		return false
	}

	dt := 0.0
	if s.haveLast {
		dt = max(now.Sub(s.last).Seconds(), 0)
	}
	s.last = now
	s.haveLast = true

	s.step(dt)
	return true
}

// step runs one tick in two phases: every steering force is computed from the
// start-of-tick state, then all of them are applied and integrated.
func (s *Stepper) step(dt float64) {
	var collidableAll []*behavior.Boid
	if s.collisions && !s.solo {
		s.all = s.all[:0]
		for _, f := range s.flocks {
			s.all = append(s.all, f.Members...)
		}
		collidableAll = s.all
	}

	for i, f := range s.flocks {
		s.forces[i] = s.forces[i][:0]
		if !s.eligible(f) {
			continue
		}
		collidable := f.Members
		if collidableAll != nil {
			collidable = collidableAll
		}
		env := behavior.Environment{Bounds: s.bounds, Anchor: s.anchor, Active: f.Active}
		for _, b := range f.Members {
			s.forces[i] = append(s.forces[i], b.Steering(f.Members, collidable, env))
		}
	}

	for i, f := range s.flocks {
		for j, force := range s.forces[i] {
			b := f.Members[j]
			b.Apply(force, s.bounds)
			b.UpdatePosition(dt)
		}
	}

	s.tick++
	s.simTime += dt
}

func (s *Stepper) eligible(f *behavior.Flock) bool {
	return !s.solo || f.Active
}

// TogglePause flips between running and paused. Resuming drops the time baseline
// so the paused interval is never integrated.
func (s *Stepper) TogglePause() {
	s.paused = !s.paused
	if !s.paused {
		s.ResetClock()
	}
}

// ResetClock makes the next tick integrate a zero delta.
func (s *Stepper) ResetClock() {
	s.haveLast = false
}

// ToggleSolo restricts updating and drawing to the active flock, or lifts the restriction.
func (s *Stepper) ToggleSolo() { s.solo = !s.solo }

// ToggleCollisions switches separation between all boids and own flock only.
func (s *Stepper) ToggleCollisions() { s.collisions = !s.collisions }

// SetSolo sets the solo flag.
func (s *Stepper) SetSolo(on bool) { s.solo = on }

// SetCollisions sets the cross-flock collision flag.
func (s *Stepper) SetCollisions(on bool) { s.collisions = on }

func (s *Stepper) Paused() bool     { return s.paused }
func (s *Stepper) Solo() bool       { return s.solo }
func (s *Stepper) Collisions() bool { return s.collisions }
func (s *Stepper) Tick() int64      { return s.tick }
func (s *Stepper) SimTime() float64 { return s.simTime }

// SetAnchor places the anchor at a copy of p. A nil p clears it.
func (s *Stepper) SetAnchor(p *geometry.Vector2D) {
	if p == nil {
		s.anchor = nil
		return
	}
	a := *p
	s.anchor = &a
}

// Anchor returns a copy of the anchor, or nil.
func (s *Stepper) Anchor() *geometry.Vector2D {
	if s.anchor == nil {
		return nil
	}
	a := *s.anchor
	return &a
}

// Select marks flock i active and every other flock inactive.
func (s *Stepper) Select(i int) error {
	if i < 0 || i >= len(s.flocks) {
		return fmt.Errorf("%w: %d (have %d)", ErrNoSuchFlock, i, len(s.flocks))
	}
	for j, f := range s.flocks {
		f.Active = j == i
	}
	return nil
}

// ActiveIndex returns the index of the selected flock, or -1.
func (s *Stepper) ActiveIndex() int {
	for i, f := range s.flocks {
		if f.Active {
			return i
		}
	}
	return -1
}

// Active returns the selected flock, or nil.
func (s *Stepper) Active() *behavior.Flock {
	if i := s.ActiveIndex(); i >= 0 {
		return s.flocks[i]
	}
	return nil
}

// Scatter re-randomises the active flock.
func (s *Stepper) Scatter() {
	if f := s.Active(); f != nil {
		f.Scatter()
	}
}

// SetSetting writes one setting of flock i and returns the stored value.
// Changing flockSize reconciles the population right away.
func (s *Stepper) SetSetting(i int, name string, value float64) (float64, error) {
	if i < 0 || i >= len(s.flocks) {
		return 0, fmt.Errorf("%w: %d (have %d)", ErrNoSuchFlock, i, len(s.flocks))
	}
	f := s.flocks[i]
	stored, err := f.Type.Set(name, value)
	if err != nil {
		return 0, fmt.Errorf("flock %s: %w", f.Type.Name, err)
	}
	if name == "flockSize" {
		f.ReconcilePopulation()
	}
	return stored, nil
}

// Snapshot copies the drawable state. Under solo only the active flock is included.
func (s *Stepper) Snapshot() *WorldSnapshot {
	snap := &WorldSnapshot{
		Anchor:     s.Anchor(),
		Paused:     s.paused,
		Solo:       s.solo,
		Collisions: s.collisions,
		Active:     s.ActiveIndex(),
		Tick:       s.tick,
		SimTime:    s.simTime,
		Stats:      make([]FlockStats, 0, len(s.flocks)),
	}

	n := 0
	for _, f := range s.flocks {
		n += f.Size()
	}
	snap.Boids = make([]BoidView, 0, n)

	for i, f := range s.flocks {
		st := ComputeFlockStats(f)
		st.Tick = s.tick
		snap.Stats = append(snap.Stats, st)

		if !s.eligible(f) {
			continue
		}
		for _, b := range f.Members {
			snap.Boids = append(snap.Boids, BoidView{
				Flock:    i,
				Position: b.Pos,
				Velocity: b.Vel,
				Size:     f.Type.Size,
				Shape:    f.Type.Shape,
				Color:    f.Type.Color,
			})
		}
	}
	return snap
}
