package behavior

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func newTestFlock(size int) *Flock {
	bt := quietType()
	bt.FlockSize = size
	bt.MinSpeed = 0.5
	return NewFlock(bt, Bounds{Width: 800, Height: 600, SpeedScale: 600}, rand.New(rand.NewPCG(42, 1)))
}

func TestFlock_ReconcilePopulation(t *testing.T) {
	tests := []struct {
		name      string
		initial   int
		flockSize int
	}{
		{"grow from empty", 0, 12},
		{"shrink", 20, 3},
		{"to zero", 8, 0},
		{"negative size empties", 8, -4},
		{"unchanged", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFlock(tt.initial)
			f.ReconcilePopulation()
			if f.Size() != tt.initial {
				t.Fatalf("initial size = %d; want %d", f.Size(), tt.initial)
			}

			f.Type.FlockSize = tt.flockSize
			f.ReconcilePopulation()
			if want := max(tt.flockSize, 0); f.Size() != want {
				t.Errorf("size after reconcile = %d; want %d", f.Size(), want)
			}
		})
	}
}

func TestFlock_ReconcileKeepsSurvivors(t *testing.T) {
	f := newTestFlock(10)
	f.ReconcilePopulation()
	first := append([]*Boid(nil), f.Members[:4]...)
	saved := make([]Boid, len(first))
	for i, b := range first {
		saved[i] = *b
	}

	f.Type.FlockSize = 4
	f.ReconcilePopulation()
	for i, b := range f.Members {
		if b != first[i] || *b != saved[i] {
			t.Errorf("member %d changed while shrinking", i)
		}
	}
}

func TestFlock_ReconcileIsIdempotent(t *testing.T) {
	f := newTestFlock(15)
	f.ReconcilePopulation()

	before := make([]Boid, f.Size())
	pointers := make([]*Boid, f.Size())
	for i, b := range f.Members {
		before[i] = *b
		pointers[i] = b
	}

	f.ReconcilePopulation()

	if f.Size() != len(before) {
		t.Fatalf("size changed from %d to %d", len(before), f.Size())
	}
	for i, b := range f.Members {
		if b != pointers[i] || *b != before[i] {
			t.Errorf("member %d changed on second reconcile", i)
		}
	}
}

func TestFlock_AddMember(t *testing.T) {
	f := newTestFlock(0)
	bounds := f.Bounds()
	for i := 0; i < 200; i++ {
		b := f.AddMember()
		if b.Pos.X < 0 || b.Pos.X > bounds.Width || b.Pos.Y < 0 || b.Pos.Y > bounds.Height {
			t.Fatalf("boid spawned out of bounds at %v", b.Pos)
		}
		if want := f.Type.MinSpeed * bounds.Scale(); math.Abs(b.Speed()-want) > 1e-6 {
			t.Fatalf("spawn speed = %v; want %v", b.Speed(), want)
		}
		if b.Type != f.Type {
			t.Fatal("boid does not share the flock profile")
		}
	}
	if f.Size() != 200 {
		t.Errorf("Size() = %d; want 200", f.Size())
	}
}

func TestFlock_Scatter(t *testing.T) {
	f := newTestFlock(25)
	f.ReconcilePopulation()
	before := make([]geometry.Vector2D, f.Size())
	for i, b := range f.Members {
		before[i] = b.Pos
		b.Vel = geometry.Vector2D{X: 1000, Y: 0}
	}

	f.Scatter()

	if f.Size() != 25 {
		t.Fatalf("Scatter changed size to %d", f.Size())
	}
	moved := 0
	for i, b := range f.Members {
		if !b.Pos.Eq(before[i]) {
			moved++
		}
		if want := f.Type.MinSpeed * f.Bounds().Scale(); math.Abs(b.Speed()-want) > 1e-6 {
			t.Errorf("member %d speed after scatter = %v; want %v", i, b.Speed(), want)
		}
	}
	if moved == 0 {
		t.Error("Scatter did not move any boid")
	}
}

func TestFlock_SetBounds(t *testing.T) {
	f := newTestFlock(3)
	f.ReconcilePopulation()
	kept := f.Members[0].Pos

	f.SetBounds(Bounds{Width: 10, Height: 10})
	if !f.Members[0].Pos.Eq(kept) {
		t.Error("SetBounds moved an existing member")
	}
	b := f.AddMember()
	if b.Pos.X > 10 || b.Pos.Y > 10 {
		t.Errorf("new member at %v ignores new bounds", b.Pos)
	}
}

func TestFlock_Deterministic(t *testing.T) {
	a, b := newTestFlock(6), newTestFlock(6)
	a.ReconcilePopulation()
	b.ReconcilePopulation()
	for i := range a.Members {
		if !a.Members[i].Pos.Eq(b.Members[i].Pos) || !a.Members[i].Vel.Eq(b.Members[i].Vel) {
			t.Fatalf("same seed produced different member %d: %v vs %v", i, a.Members[i].Pos, b.Members[i].Pos)
		}
	}
}
