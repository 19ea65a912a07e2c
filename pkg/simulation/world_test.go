package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func startWorld(t *testing.T, s *Stepper) (context.Context, *actor.PID, chan *WorldSnapshot) {
	t.Helper()
	ctx := context.Background()

	system, err := actor.NewActorSystem("FlockTest",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		t.Fatalf("NewActorSystem: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = system.Stop(ctx) })

	snapshotCh := make(chan *WorldSnapshot, 16)
	pid, err := system.Spawn(ctx, "world", NewWorldActor(s, snapshotCh))
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	return ctx, pid, snapshotCh
}

func nextSnapshot(t *testing.T, ch <-chan *WorldSnapshot) *WorldSnapshot {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a snapshot")
		return nil
	}
}

func TestWorldActor_TickPushesSnapshot(t *testing.T) {
	ctx, pid, ch := startWorld(t, defaultStepper(20))

	if err := actor.Tell(ctx, pid, NewTick(t0)); err != nil {
		t.Fatal(err)
	}
	snap := nextSnapshot(t, ch)
	if snap.Tick != 1 {
		t.Errorf("Tick = %d; want 1", snap.Tick)
	}
	if len(snap.Boids) == 0 || len(snap.Stats) != 5 {
		t.Errorf("snapshot has %d boids and %d stats", len(snap.Boids), len(snap.Stats))
	}
}

func TestWorldActor_Commands(t *testing.T) {
	ctx, pid, ch := startWorld(t, defaultStepper(21))
	anchor := geometry.Vector2D{X: 120, Y: 80}

	_ = actor.Tell(ctx, pid, NewTick(t0))
	_ = nextSnapshot(t, ch)

	_ = actor.Tell(ctx, pid, NewSelectFlock(2))
	_ = actor.Tell(ctx, pid, NewSetAnchor(&anchor))
	_ = actor.Tell(ctx, pid, NewCommand(CmdSolo))
	_ = actor.Tell(ctx, pid, NewCommand(CmdCollisions))
	_ = actor.Tell(ctx, pid, NewSetSetting(2, "flockSize", 3))
	_ = actor.Tell(ctx, pid, NewTick(t0.Add(16*time.Millisecond)))

	snap := nextSnapshot(t, ch)
	if snap.Active != 2 {
		t.Errorf("Active = %d; want 2", snap.Active)
	}
	if snap.Anchor == nil || !snap.Anchor.Eq(anchor) {
		t.Errorf("Anchor = %v; want %v", snap.Anchor, anchor)
	}
	if !snap.Solo || snap.Collisions {
		t.Errorf("solo=%v collisions=%v", snap.Solo, snap.Collisions)
	}
	if snap.Stats[2].Count != 3 || len(snap.Boids) != 3 {
		t.Errorf("flock 2 has %d members, %d drawn; want 3", snap.Stats[2].Count, len(snap.Boids))
	}

	_ = actor.Tell(ctx, pid, NewCommand(CmdClearAnchor))
	_ = actor.Tell(ctx, pid, NewCommand(CmdPause))
	_ = actor.Tell(ctx, pid, NewTick(t0.Add(32*time.Millisecond)))

	snap = nextSnapshot(t, ch)
	if snap.Anchor != nil {
		t.Errorf("anchor not cleared: %v", snap.Anchor)
	}
	if !snap.Paused || snap.Tick != 2 {
		t.Errorf("paused=%v tick=%d; want paused at tick 2", snap.Paused, snap.Tick)
	}
}

func TestWorldActor_ResetClockSkipsTheGap(t *testing.T) {
	ctx, pid, ch := startWorld(t, defaultStepper(22))
	frame := 16 * time.Millisecond

	_ = actor.Tell(ctx, pid, NewTick(t0))
	_ = nextSnapshot(t, ch)
	_ = actor.Tell(ctx, pid, NewTick(t0.Add(frame)))
	before := nextSnapshot(t, ch)

	// ten seconds without frames, then the front-end resumes
	_ = actor.Tell(ctx, pid, NewCommand(CmdResetClock))
	_ = actor.Tell(ctx, pid, NewTick(t0.Add(frame+10*time.Second)))
	after := nextSnapshot(t, ch)

	if after.SimTime != before.SimTime {
		t.Errorf("SimTime %v -> %v; the gap was integrated", before.SimTime, after.SimTime)
	}
	for i := range after.Boids {
		if !after.Boids[i].Position.Eq(before.Boids[i].Position) {
			t.Fatalf("boid %d moved across the gap", i)
		}
	}

	_ = actor.Tell(ctx, pid, NewTick(t0.Add(2*frame+10*time.Second)))
	next := nextSnapshot(t, ch)
	if d := next.SimTime - after.SimTime; d < 0.015 || d > 0.017 {
		t.Errorf("tick after resume integrated %vs; want one frame", d)
	}
}

func TestWorldActor_SurvivesBadMessages(t *testing.T) {
	ctx, pid, ch := startWorld(t, defaultStepper(22))

	_ = actor.Tell(ctx, pid, NewCommand("explode"))
	_ = actor.Tell(ctx, pid, NewSelectFlock(99))
	_ = actor.Tell(ctx, pid, &structpb.ListValue{Values: []*structpb.Value{structpb.NewNumberValue(1)}})
	_ = actor.Tell(ctx, pid, NewSetSetting(0, "wingspan", 3))
	_ = actor.Tell(ctx, pid, &structpb.Struct{})
	_ = actor.Tell(ctx, pid, NewTick(t0))

	snap := nextSnapshot(t, ch)
	if snap.Tick != 1 || snap.Active != 0 || snap.Anchor != nil {
		t.Errorf("bad messages changed the world: tick=%d active=%d anchor=%v", snap.Tick, snap.Active, snap.Anchor)
	}
}
