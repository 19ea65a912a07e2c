package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the tolerance used by Eq and by NewVectorPolar to snap tiny components to zero.
const (
	Epsilon = 1e-9
)

// ErrDivideByZero is returned by Div when the scalar is zero.
var ErrDivideByZero = errors.New("vector cannot be divided by zero")

// Vector2D is a position, velocity or force in the simulation plane.
// Fields are public so literals like Vector2D{X: 1, Y: 2} read naturally,
// and every method has a value receiver returning a fresh Vector2D.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// NewVectorPolar creates a vector of length radius pointing at theta radians.
func NewVectorPolar(radius, theta float64) Vector2D {
	x := radius * math.Cos(theta)
	y := radius * math.Sin(theta)

	if math.Abs(x) < Epsilon {
		x = 0
	}
	if math.Abs(y) < Epsilon {
		y = 0
	}

	return Vector2D{X: x, Y: y}
}

// String implements fmt.Stringer.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------

// Add returns v + other.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by scalar.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Div scales the vector by 1/scalar.
// A zero scalar yields an Inf vector together with ErrDivideByZero.
func (v Vector2D) Div(scalar float64) (Vector2D, error) {
	if scalar == 0 {
		return Vector2D{math.Inf(1), math.Inf(1)}, ErrDivideByZero
	}
	return Vector2D{v.X / scalar, v.Y / scalar}, nil
}

// Dot returns the dot product of v and other.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// ---------------------------------------------------------------------
// Magnitude
// ---------------------------------------------------------------------

// LenSqr returns the squared magnitude, cheaper than Len for comparisons.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len returns the magnitude of the vector.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero reports whether both components are exactly zero.
func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalize returns the unit vector pointing the same way as v.
// A vector of magnitude exactly zero is returned unchanged.
func (v Vector2D) Normalize() Vector2D {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vector2D{v.X / l, v.Y / l}
}

// UpperLimit rescales v to length max when it is longer than max.
func (v Vector2D) UpperLimit(max float64) Vector2D {
	if v.Len() > max {
		return v.Normalize().Mul(max)
	}
	return v
}

// LowerLimit rescales v to length min when it is shorter than min.
// The zero vector has no direction and therefore stays zero.
func (v Vector2D) LowerLimit(min float64) Vector2D {
	if v.Len() < min {
		return v.Normalize().Mul(min)
	}
	return v
}

// ---------------------------------------------------------------------
// Geometry
// ---------------------------------------------------------------------

// DistanceTo returns the Euclidean distance between v and other.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo returns the squared Euclidean distance between v and other.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float64 {
	return v.Sub(other).LenSqr()
}

// Angle returns the heading of v in radians, in [-Pi, Pi].
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate rotates v by angle radians around the origin.
func (v Vector2D) Rotate(angle float64) Vector2D {
	cosTheta := math.Cos(angle)
	sinTheta := math.Sin(angle)
	return Vector2D{
		X: v.X*cosTheta - v.Y*sinTheta,
		Y: v.X*sinTheta + v.Y*cosTheta,
	}
}

// Eq reports whether v and other are equal within Epsilon.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vector2D) float64 {
	return a.DistanceTo(b)
}

// AngleBetween returns the unsigned angle between a and b in degrees, in [0, 180].
// The cosine is clamped to [-1, 1] before acos to absorb rounding overshoot.
// When either vector has zero magnitude there is no angle and 0 is returned.
func AngleBetween(a, b Vector2D) float64 {
	la, lb := a.LenSqr(), b.LenSqr()
	if la == 0 || lb == 0 {
		return 0
	}
	// one square root of the product keeps parallel vectors at exactly +-1
	cosTheta := a.Dot(b) / math.Sqrt(la*lb)
	cosTheta = math.Max(-1, math.Min(cosTheta, 1))
	return math.Acos(cosTheta) * 180 / math.Pi
}
