package simulation

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func TestComputeFlockStats(t *testing.T) {
	bounds := behavior.Bounds{Width: 1000, Height: 1000}

	t.Run("empty flock", func(t *testing.T) {
		f := flockOf(separationOnly("Empty"), bounds)
		got := ComputeFlockStats(f)
		if got != (FlockStats{Name: "Empty"}) {
			t.Errorf("got %+v; want zero stats", got)
		}
	})

	t.Run("single boid", func(t *testing.T) {
		f := flockOf(separationOnly("One"), bounds, geometry.Vector2D{X: 10, Y: 20})
		f.Members[0].Vel = geometry.Vector2D{X: 3, Y: 4}
		got := ComputeFlockStats(f)
		if got.Count != 1 || got.MeanSpeed != 5 || got.SpeedStdDev != 0 {
			t.Errorf("got %+v", got)
		}
		if got.CentroidX != 10 || got.CentroidY != 20 || got.Spread != 0 {
			t.Errorf("centroid/spread wrong: %+v", got)
		}
	})

	t.Run("square", func(t *testing.T) {
		f := flockOf(separationOnly("Square"), bounds,
			geometry.Vector2D{X: 0, Y: 0},
			geometry.Vector2D{X: 2, Y: 0},
			geometry.Vector2D{X: 0, Y: 2},
			geometry.Vector2D{X: 2, Y: 2},
		)
		for i, b := range f.Members {
			b.Vel = geometry.Vector2D{X: float64(i + 1)}
		}
		got := ComputeFlockStats(f)
		if got.CentroidX != 1 || got.CentroidY != 1 {
			t.Errorf("centroid = (%v, %v); want (1, 1)", got.CentroidX, got.CentroidY)
		}
		if math.Abs(got.Spread-math.Sqrt2) > 1e-12 {
			t.Errorf("Spread = %v; want sqrt(2)", got.Spread)
		}
		if got.MeanSpeed != 2.5 {
			t.Errorf("MeanSpeed = %v; want 2.5", got.MeanSpeed)
		}
		// sample standard deviation of 1, 2, 3, 4
		if want := math.Sqrt(5.0 / 3.0); math.Abs(got.SpeedStdDev-want) > 1e-12 {
			t.Errorf("SpeedStdDev = %v; want %v", got.SpeedStdDev, want)
		}
	})
}
