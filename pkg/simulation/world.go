package simulation

import (
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WorldActor owns the Stepper. Ticks and input commands arrive through its
// mailbox, so the simulation state is only ever touched by one goroutine.
type WorldActor struct {
	stepper *Stepper
	// Communication with UI
	snapshotCh chan<- *WorldSnapshot

	// --- Benchmark Stats ---
	tickCount    int
	commandCount int
	droppedCount int
	lastLogTime  time.Time
}

// NewWorldActor creates the world logic unit. Snapshots are pushed on snapshotCh
// after every tick; a full channel drops the frame.
func NewWorldActor(stepper *Stepper, snapshotCh chan<- *WorldSnapshot) *WorldActor {
	return &WorldActor{
		stepper:     stepper,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is starting with %d flocks", len(w.stepper.Flocks()))
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		for _, f := range w.stepper.Flocks() {
			ctx.Logger().Infof("flock %s: %d boids", f.Type.Name, f.Size())
		}

	// The Main Simulation Step (Driven by Game Loop)
	case *timestamppb.Timestamp:
		w.tickCount++
		w.logBenchmarks(ctx)
		w.stepper.Step(msg.AsTime())
		w.pushSnapshot()

	case *wrapperspb.StringValue:
		w.commandCount++
		w.handleCommand(ctx, msg.GetValue())

	case *wrapperspb.Int32Value:
		w.commandCount++
		if err := w.stepper.Select(int(msg.GetValue())); err != nil {
			ctx.Logger().Warnf("select flock: %v", err)
		}

	case *structpb.ListValue:
		w.commandCount++
		anchor, err := DecodeAnchor(msg)
		if err != nil {
			ctx.Logger().Warnf("set anchor: %v", err)
			return
		}
		w.stepper.SetAnchor(anchor)

	case *structpb.Struct:
		w.commandCount++
		flock, name, value, err := DecodeSetting(msg)
		if err != nil {
			ctx.Logger().Warnf("set setting: %v", err)
			return
		}
		stored, err := w.stepper.SetSetting(flock, name, value)
		if err != nil {
			ctx.Logger().Warnf("set setting: %v", err)
			return
		}
		ctx.Logger().Debugf("flock %d %s = %g", flock, name, stored)

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) handleCommand(ctx *actor.ReceiveContext, cmd string) {
	switch cmd {
	case CmdPause:
		w.stepper.TogglePause()
		ctx.Logger().Infof("paused: %v", w.stepper.Paused())
	case CmdSolo:
		w.stepper.ToggleSolo()
		ctx.Logger().Infof("solo: %v", w.stepper.Solo())
	case CmdCollisions:
		w.stepper.ToggleCollisions()
		ctx.Logger().Infof("cross-flock collisions: %v", w.stepper.Collisions())
	case CmdScatter:
		w.stepper.Scatter()
	case CmdClearAnchor:
		w.stepper.SetAnchor(nil)
	case CmdResetClock:
		w.stepper.ResetClock()
	default:
		ctx.Logger().Warnf("unknown command %q", cmd)
	}
}

func (w *WorldActor) logBenchmarks(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 TICK RATE: %d/sec | Commands: %d | Dropped frames: %d | Sim time: %.1fs",
			w.tickCount, w.commandCount, w.droppedCount, w.stepper.SimTime())
		w.tickCount = 0
		w.commandCount = 0
		w.droppedCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.stepper.Snapshot():
	default:
		// UI busy, skip frame
		w.droppedCount++
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	return nil
}
