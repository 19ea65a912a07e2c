package behavior

import (
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// EdgeMargin is the distance from a world border at which boids start turning back.
const EdgeMargin = 25.0

// Bounds is the world a flock lives in.
//
// SpeedScale multiplies MinSpeed, MaxSpeed and TurnFactor. Profiles express those
// three as fractions of the world height per second, so the app sets SpeedScale
// to the world height; a zero or negative SpeedScale means 1 (raw units).
type Bounds struct {
	Width      float64
	Height     float64
	SpeedScale float64
}

// Scale returns the effective speed multiplier.
func (b Bounds) Scale() float64 {
	if b.SpeedScale <= 0 {
		return 1
	}
	return b.SpeedScale
}

// RandomPosition returns a point uniformly distributed inside the bounds.
func (b Bounds) RandomPosition(rng *rand.Rand) geometry.Vector2D {
	return geometry.Vector2D{X: rng.Float64() * b.Width, Y: rng.Float64() * b.Height}
}

// Environment is what a boid needs to know about the world beyond its neighbours.
type Environment struct {
	Bounds Bounds
	// Anchor attracts the active flock; nil when no anchor is set.
	Anchor *geometry.Vector2D
	// Active is true when the boid belongs to the selected flock.
	Active bool
}

// Anchored reports whether the anchor rules apply to this boid.
func (e Environment) Anchored() bool {
	return e.Active && e.Anchor != nil
}

// Boid represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// https://en.wikipedia.org/wiki/Boids
//
// A boid only ever mutates its own Pos and Vel; neighbours are read-only.
type Boid struct {
	Pos  geometry.Vector2D
	Vel  geometry.Vector2D
	Type *BoidType
}

// NewBoid creates a boid at pos with a random heading at the profile's minimum speed.
func NewBoid(pos geometry.Vector2D, t *BoidType, bounds Bounds, rng *rand.Rand) *Boid {
	b := &Boid{Pos: pos, Type: t}
	b.RandomizeVelocity(rng, bounds)
	return b
}

// RandomizeVelocity points the boid in a random direction at its minimum speed.
func (b *Boid) RandomizeVelocity(rng *rand.Rand, bounds Bounds) {
	b.Vel = geometry.NewVectorPolar(b.Type.MinSpeed*bounds.Scale(), rng.Float64()*2*math.Pi)
}

// RandomizePosition moves the boid to a random point inside bounds.
func (b *Boid) RandomizePosition(rng *rand.Rand, bounds Bounds) {
	b.Pos = bounds.RandomPosition(rng)
}

// ---------------------------------------------------------------------
// Forces
// Separation: boids move away from boids that are too close
// Alignment: boids attempt to match the velocities of their neighbors
// Cohesion: boids move towards the center of mass of their neighbors
// ---------------------------------------------------------------------

// FlockForce returns the weighted alignment and cohesion force computed over the
// members of the boid's own flock within PerceptionRadius.
// When anchored, alignment is dropped and cohesion uses AnchoredCohesionWeight.
func (b *Boid) FlockForce(flock []*Boid, env Environment) geometry.Vector2D {
	var velSum, posSum geometry.Vector2D
	neighbors := 0
	r2 := b.Type.PerceptionRadius * b.Type.PerceptionRadius

	for _, other := range flock {
		if other == b {
			continue
		}
		if b.Pos.DistanceSquaredTo(other.Pos) > r2 {
			continue
		}
		velSum = velSum.Add(other.Vel)
		posSum = posSum.Add(other.Pos)
		neighbors++
	}

	if neighbors == 0 {
		return geometry.Vector2D{}
	}

	n := float64(neighbors)
	alignment := velSum.Mul(1 / n).Sub(b.Vel)
	cohesion := posSum.Mul(1 / n).Sub(b.Pos)

	if env.Anchored() {
		return cohesion.Mul(b.Type.AnchoredCohesionWeight)
	}
	return alignment.Mul(b.Type.AlignmentWeight).Add(cohesion.Mul(b.Type.CohesionWeight))
}

// SeparationForce pushes the boid away from every collidable boid closer than
// SeparationRadius. Contributions are summed, not averaged, and each one grows
// as the neighbour gets closer. Exactly coincident boids are skipped.
func (b *Boid) SeparationForce(collidable []*Boid) geometry.Vector2D {
	radius := b.Type.SeparationRadius
	var sum geometry.Vector2D

	for _, other := range collidable {
		if other == b {
			continue
		}
		diff := b.Pos.Sub(other.Pos)
		m := diff.Len()
		if m <= 0 || m >= radius {
			continue
		}
		sum = sum.Add(diff.Mul((radius - m) / m))
	}

	return sum.Mul(b.Type.SeparationWeight)
}

// EdgeForce steers the boid back inside the world when it is within EdgeMargin
// of a border. Both axes are combined and normalized, then scaled by TurnFactor.
func (b *Boid) EdgeForce(bounds Bounds) geometry.Vector2D {
	var edge geometry.Vector2D

	if b.Pos.X < EdgeMargin {
		edge.X += 1
	} else if b.Pos.X > bounds.Width-EdgeMargin {
		edge.X -= 1
	}

	if b.Pos.Y < EdgeMargin {
		edge.Y += 1
	} else if b.Pos.Y > bounds.Height-EdgeMargin {
		edge.Y -= 1
	}

	return edge.Normalize().Mul(b.Type.TurnFactor * bounds.Scale())
}

// Seek returns the raw offset from the boid to target, or zero once the boid is
// within AnchorRadius. The pull grows with distance.
func (b *Boid) Seek(target geometry.Vector2D) geometry.Vector2D {
	delta := target.Sub(b.Pos)
	if delta.Len() < b.Type.AnchorRadius {
		return geometry.Vector2D{}
	}
	return delta
}

// Steering sums every force acting on the boid this tick.
// flock feeds alignment and cohesion, collidable feeds separation.
func (b *Boid) Steering(flock, collidable []*Boid, env Environment) geometry.Vector2D {
	force := b.FlockForce(flock, env).
		Add(b.SeparationForce(collidable)).
		Add(b.EdgeForce(env.Bounds))

	if env.Anchored() {
		force = force.Add(b.Seek(*env.Anchor))
	}
	return force
}

// Apply adds force to the velocity, then clamps the speed: the minimum first,
// the maximum last so it wins when the range is inverted.
func (b *Boid) Apply(force geometry.Vector2D, bounds Bounds) {
	scale := bounds.Scale()
	b.Vel = b.Vel.Add(force).
		LowerLimit(b.Type.MinSpeed * scale).
		UpperLimit(b.Type.MaxSpeed * scale)
}

// UpdatePosition integrates the velocity over dt seconds.
func (b *Boid) UpdatePosition(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Mul(dt))
}

// Update computes, applies and integrates in one go. Neighbours updated earlier in
// the same pass are seen in their new state; Stepper avoids that by splitting
// the tick into a read phase and a write phase.
func (b *Boid) Update(flock, collidable []*Boid, env Environment, dt float64) {
	b.Apply(b.Steering(flock, collidable, env), env.Bounds)
	b.UpdatePosition(dt)
}

// Speed returns the current speed.
func (b *Boid) Speed() float64 {
	return b.Vel.Len()
}
