package main

import (
	"context"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/game"
	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/telemetry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
)

// headlessRate is the synthetic frame rate used without a window.
const headlessRate = 60

func main() {
	configPath := flag.String("config", "", "Path to a .json, .yaml or .toml flock config (empty = built-in defaults)")
	schemaPath := flag.String("schema", "", "Path to a JSON schema overriding the embedded one")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = config seed, or time-based)")
	debug := flag.Bool("debug", false, "Debug-level actor logging")
	headless := flag.Bool("headless", false, "Run without a window")
	ticks := flag.Int("ticks", 0, "Headless: stop after N ticks (0 = until interrupted)")
	statsCSV := flag.String("stats-csv", "", "Write per-flock statistics to this CSV file")
	statsEvery := flag.Int("stats-every", 60, "Record statistics every N ticks")
	flag.Parse()

	level := golog.InfoLevel
	if *debug {
		level = golog.DebugLevel
	}
	logger := golog.New(level, os.Stderr)

	// 1. Configuration
	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath, *schemaPath); err != nil {
			log.Fatalf("💥 loading config: %v", err)
		}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	logger.Infof("🌱 seed %d, %d flocks in a %.0fx%.0f world", cfg.Seed, len(cfg.Flocks), cfg.WorldWidth, cfg.WorldHeight)

	stepper, err := cfg.NewStepper(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>1|1)))
	if err != nil {
		log.Fatalf("💥 building flocks: %v", err)
	}

	recorder, err := telemetry.Create(*statsCSV, *statsEvery)
	if err != nil {
		log.Fatalf("💥 %v", err)
	}
	defer recorder.Close()

	// 2. Actor system
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	system, err := actor.NewActorSystem("FlockWorld",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		log.Fatalf("💥 creating actor system: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		log.Fatalf("💥 starting actor system: %v", err)
	}
	defer system.Stop(context.Background())

	if *headless {
		if err := runHeadless(ctx, system, stepper, recorder, *ticks, logger); err != nil {
			log.Fatal(err)
		}
		return
	}

	// 3. Window
	g, err := game.GetNewGame(ctx, cfg, system, stepper)
	if err != nil {
		log.Fatal(err)
	}
	g.Recorder = recorder

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Flocks")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

// runHeadless drives the world actor with evenly spaced timestamps and
// waits for each snapshot before sending the next tick.
func runHeadless(ctx context.Context, system actor.ActorSystem, stepper *simulation.Stepper,
	recorder *telemetry.Recorder, ticks int, logger golog.Logger) error {
	snapshotCh := make(chan *simulation.WorldSnapshot, 1)
	worldPID, err := system.Spawn(ctx, "world", simulation.NewWorldActor(stepper, snapshotCh))
	if err != nil {
		return err
	}

	logger.Infof("🚀 headless run, %d ticks at %d Hz", ticks, headlessRate)
	frame := time.Second / headlessRate
	now := time.Now()

	for i := 0; ticks <= 0 || i < ticks; i++ {
		if err := actor.Tell(ctx, worldPID, simulation.NewTick(now)); err != nil {
			return err
		}
		now = now.Add(frame)

		var snap *simulation.WorldSnapshot
		select {
		case snap = <-snapshotCh:
		case <-ctx.Done():
			logger.Info("🛑 interrupted")
			return nil
		case <-time.After(5 * time.Second):
			logger.Warnf("no snapshot for tick %d", i)
			continue
		}

		if err := recorder.Record(snap); err != nil {
			return err
		}
		if snap.Tick%headlessRate == 0 {
			for _, st := range snap.Stats {
				logger.Debugf("t=%.1fs %-7s n=%d v=%.1f±%.1f spread=%.1f",
					snap.SimTime, st.Name, st.Count, st.MeanSpeed, st.SpeedStdDev, st.Spread)
			}
		}
	}

	logger.Infof("✅ done, %d telemetry rows", recorder.Rows())
	return nil
}
