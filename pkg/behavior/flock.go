package behavior

import (
	"math/rand/v2"
)

// Flock is an ordered population of boids sharing one BoidType.
type Flock struct {
	Members []*Boid
	Type    *BoidType
	// Active marks the flock selected in the settings panel. Exactly one flock
	// should be active at a time; keeping it that way is the caller's job.
	Active bool

	bounds Bounds
	rng    *rand.Rand
}

// NewFlock creates an empty flock. Call ReconcilePopulation to fill it.
func NewFlock(t *BoidType, bounds Bounds, rng *rand.Rand) *Flock {
	return &Flock{
		Members: make([]*Boid, 0, t.FlockSize),
		Type:    t,
		bounds:  bounds,
		rng:     rng,
	}
}

// Size returns the current number of members.
func (f *Flock) Size() int {
	return len(f.Members)
}

// Bounds returns the world the flock spawns into.
func (f *Flock) Bounds() Bounds {
	return f.bounds
}

// SetBounds changes the world used for new and scattered boids.
// Existing members keep their positions.
func (f *Flock) SetBounds(b Bounds) {
	f.bounds = b
}

// AddMember appends a boid at a random position with a random heading at minimum speed.
func (f *Flock) AddMember() *Boid {
	b := NewBoid(f.bounds.RandomPosition(f.rng), f.Type, f.bounds, f.rng)
	f.Members = append(f.Members, b)
	return b
}

// ReconcilePopulation removes boids from the end or appends new ones until the
// flock holds exactly Type.FlockSize members. Calling it again without changing
// FlockSize leaves the flock untouched.
func (f *Flock) ReconcilePopulation() {
	capacity := max(f.Type.FlockSize, 0)
	for len(f.Members) > capacity {
		last := len(f.Members) - 1
		f.Members[last] = nil
		f.Members = f.Members[:last]
	}
	for len(f.Members) < capacity {
		f.AddMember()
	}
}

// Scatter gives every member a new random position and heading.
func (f *Flock) Scatter() {
	for _, b := range f.Members {
		b.RandomizePosition(f.rng, f.bounds)
		b.RandomizeVelocity(f.rng, f.bounds)
	}
}
