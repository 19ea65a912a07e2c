package simulation

import (
	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// FlockStats summarises one flock at the end of a tick.
// The csv tags are the column names of the telemetry file.
type FlockStats struct {
	Tick        int64   `csv:"tick" json:"tick"`
	Name        string  `csv:"flock" json:"name"`
	Count       int     `csv:"count" json:"count"`
	MeanSpeed   float64 `csv:"mean_speed" json:"meanSpeed"`
	SpeedStdDev float64 `csv:"speed_stddev" json:"speedStdDev"`
	CentroidX   float64 `csv:"centroid_x" json:"centroidX"`
	CentroidY   float64 `csv:"centroid_y" json:"centroidY"`
	// Spread is the mean distance of the members to the centroid.
	Spread float64 `csv:"spread" json:"spread"`
}

// ComputeFlockStats returns the statistics of f. An empty flock yields zero values.
func ComputeFlockStats(f *behavior.Flock) FlockStats {
	s := FlockStats{Name: f.Type.Name, Count: f.Size()}
	if s.Count == 0 {
		return s
	}

	speeds := make([]float64, s.Count)
	xs := make([]float64, s.Count)
	ys := make([]float64, s.Count)
	for i, b := range f.Members {
		speeds[i] = b.Speed()
		xs[i] = b.Pos.X
		ys[i] = b.Pos.Y
	}

	if s.Count > 1 {
		s.MeanSpeed, s.SpeedStdDev = stat.MeanStdDev(speeds, nil)
	} else {
		s.MeanSpeed = speeds[0]
	}
	s.CentroidX = stat.Mean(xs, nil)
	s.CentroidY = stat.Mean(ys, nil)

	centroid := geometry.Vector2D{X: s.CentroidX, Y: s.CentroidY}
	dists := speeds[:0]
	for _, b := range f.Members {
		dists = append(dists, b.Pos.DistanceTo(centroid))
	}
	s.Spread = stat.Mean(dists, nil)
	return s
}
