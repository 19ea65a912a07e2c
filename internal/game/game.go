// Package game is the ebiten front-end: it draws world snapshots and turns
// keyboard, mouse and panel input into messages for the world actor.
package game

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tochemey/goakt/v3/actor"
	"google.golang.org/protobuf/proto"

	"github.com/lao-tseu-is-alive/go-flock-simulation/internal/telemetry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/ui"
)

const (
	panelWidth       = 260.0
	doubleClickDelay = 300 * time.Millisecond
	doubleClickSlop  = 6.0
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

	backgroundColor = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	anchorColor     = color.RGBA{R: 255, G: 182, B: 193, A: 255}
)

func init() {
	whiteImage.Fill(color.White)
}

// sections groups SettingsOrder for the settings panel.
var sections = []struct {
	title string
	names []string
}{
	{"Appearance", []string{"size", "shape", "flockSize"}},
	{"Speed", []string{"minSpeed", "maxSpeed", "turnFactor"}},
	{"Radii", []string{"separationRadius", "perceptionRadius"}},
	{"Weights", []string{"separationWeight", "alignmentWeight", "cohesionWeight"}},
	{"Anchor", []string{"anchorRadius", "anchoredCohesionWeight"}},
}

var flockKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

var settingLabels = map[string]string{
	"size":                   "Size",
	"shape":                  "Shape (0 circle, 1 triangle)",
	"flockSize":              "Flock Size",
	"minSpeed":               "Min Speed",
	"maxSpeed":               "Max Speed",
	"turnFactor":             "Turn Factor",
	"separationRadius":       "Separation Radius",
	"perceptionRadius":       "Perception Radius",
	"separationWeight":       "Separation",
	"alignmentWeight":        "Alignment",
	"cohesionWeight":         "Cohesion",
	"anchorRadius":           "Anchor Radius",
	"anchoredCohesionWeight": "Anchored Cohesion",
}

type flockPanel struct {
	panel      *ui.UIPanel
	sliders    map[string]*ui.Slider
	solo       *ui.Checkbox
	collisions *ui.Checkbox
}

type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	worldPID   *actor.PID
	snapshotCh chan *simulation.WorldSnapshot
	lastState  *simulation.WorldSnapshot

	cfg    *simulation.Config
	panels []*flockPanel

	// Recorder, when set, receives every snapshot the game consumes.
	Recorder *telemetry.Recorder

	// showPanel hides the settings panel when false
	showPanel bool

	// Anchor input
	tracker       simulation.AnchorTracker
	resume        *simulation.ResumeDetector
	sentAnchor    *geometry.Vector2D
	lastPress     time.Time
	lastPressPos  geometry.Vector2D
	lastCursorPos geometry.Vector2D

	// reused every frame
	colors   map[string]color.RGBA
	vertices []ebiten.Vertex
	indices  []uint16

	// Timing instrumentation
	lastUpdateDuration time.Duration
	lastDrawDuration   time.Duration
	updateAvg          float64 // Rolling average in ms
	drawAvg            float64 // Rolling average in ms
}

// GetNewGame spawns the world actor around stepper and builds one settings panel per flock.
func GetNewGame(ctx context.Context, cfg *simulation.Config, system actor.ActorSystem, stepper *simulation.Stepper) (*Game, error) {
	// 1. Create Channels for communication
	snapshotCh := make(chan *simulation.WorldSnapshot, 10) // Buffer to avoid blocking

	// 2. Spawn World Actor
	worldPID, err := system.Spawn(ctx, "world", simulation.NewWorldActor(stepper, snapshotCh))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		System:     system,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		lastState:  stepper.Snapshot(), // Avoid nil pointer
		cfg:        cfg,
		showPanel:  true,
		colors:     make(map[string]color.RGBA),
		resume:     simulation.NewResumeDetector(),
	}

	// 3. Initialize one UI Panel per flock
	for i := range cfg.Flocks {
		g.panels = append(g.panels, g.newFlockPanel(i, &cfg.Flocks[i]))
	}
	return g, nil
}

func (g *Game) newFlockPanel(index int, bt *behavior.BoidType) *flockPanel {
	fp := &flockPanel{
		panel:   ui.NewUIPanel(fmt.Sprintf("%d. %s flock", index+1, bt.Name), 10, 10, panelWidth, g.cfg.WorldHeight-20),
		sliders: make(map[string]*ui.Slider, len(behavior.SettingsOrder)),
	}
	fp.panel.AccentColor = dim(ParseHexColor(bt.Color))

	for _, sec := range sections {
		fp.panel.AddSection(sec.title)
		for _, name := range sec.names {
			c := behavior.Constraints[name]
			v, _ := bt.Get(name)
			s := fp.panel.AddSlider(settingLabels[name], c.Min, c.Max, c.Step, v)
			s.OnChange = func(v float64) {
				g.tell(simulation.NewSetSetting(index, name, v))
			}
			fp.sliders[name] = s
		}
	}

	fp.panel.AddSection("Modes")
	fp.solo = fp.panel.AddCheckbox("Solo [S]", g.lastState.Solo)
	fp.solo.OnChange = func(bool) { g.tell(simulation.NewCommand(simulation.CmdSolo)) }
	fp.collisions = fp.panel.AddCheckbox("Cross-flock collisions [C]", g.lastState.Collisions)
	fp.collisions.OnChange = func(bool) { g.tell(simulation.NewCommand(simulation.CmdCollisions)) }
	fp.panel.AddButton("Scatter [R]", func() { g.tell(simulation.NewCommand(simulation.CmdScatter)) })
	fp.panel.EndSection()
	return fp
}

func (g *Game) tell(msg proto.Message) {
	_ = actor.Tell(g.ctx, g.worldPID, msg)
}

func (g *Game) activePanel() *flockPanel {
	if !g.showPanel || g.lastState == nil {
		return nil
	}
	if i := g.lastState.Active; i >= 0 && i < len(g.panels) {
		return g.panels[i]
	}
	return nil
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.lastUpdateDuration = time.Since(start)
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(g.lastUpdateDuration.Microseconds())/1000.0*0.05
	}()

	// 1. Retrieve Latest State (Non-blocking)
	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
		if err := g.Recorder.Record(snap); err != nil {
			return err
		}
	default:
		// Use previous state if new one isn't ready
	}

	// 2. Update UI Panel
	if fp := g.activePanel(); fp != nil {
		fp.solo.Value = g.lastState.Solo
		fp.collisions.Value = g.lastState.Collisions
		fp.panel.Update()
	}

	// 3. Keyboard and mouse
	g.handleKeys()
	g.handleMouse()
	if g.tracker.Dragging() || g.tracker.Tracking() {
		ebiten.SetCursorShape(ebiten.CursorShapeCrosshair)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
	if a := g.tracker.Anchor(); !simulation.SameAnchor(a, g.sentAnchor) {
		g.tell(simulation.NewSetAnchor(a))
		g.sentAnchor = a
	}

	// 4. Trigger Simulation Step, without integrating time spent unfocused
	now := time.Now()
	if g.resume.Observe(now, ebiten.IsFocused()) {
		g.tell(simulation.NewCommand(simulation.CmdResetClock))
	}
	g.tell(simulation.NewTick(now))
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.tell(simulation.NewCommand(simulation.CmdPause))
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.tell(simulation.NewCommand(simulation.CmdScatter))
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.tell(simulation.NewCommand(simulation.CmdSolo))
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.tell(simulation.NewCommand(simulation.CmdCollisions))
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.showPanel = !g.showPanel
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.tracker.Clear()
	}

	for i, k := range flockKeys {
		if i < len(g.panels) && inpututil.IsKeyJustPressed(k) {
			g.tell(simulation.NewSelectFlock(i))
		}
	}
}

func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	p := geometry.Vector2D{X: float64(mx), Y: float64(my)}
	inside := p.X >= 0 && p.X <= g.cfg.WorldWidth && p.Y >= 0 && p.Y <= g.cfg.WorldHeight
	overPanel := g.activePanel() != nil && g.activePanel().panel.Contains(p.X, p.Y)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !overPanel {
		now := time.Now()
		double := now.Sub(g.lastPress) < doubleClickDelay && p.DistanceTo(g.lastPressPos) < doubleClickSlop
		g.lastPress, g.lastPressPos = now, p

		g.tracker.MouseDown(p, inside)
		if double && inside {
			g.tracker.DoubleClick()
			g.lastPress = time.Time{}
		}
	}

	if !p.Eq(g.lastCursorPos) {
		g.tracker.MouseMove(p, inside)
		g.lastCursorPos = p
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.tracker.MouseUp()
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.lastDrawDuration = time.Since(start)
		g.drawAvg = g.drawAvg*0.95 + float64(g.lastDrawDuration.Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)

	// 1. Draw all boids from the last known snapshot
	if g.lastState != nil {
		g.drawBoids(screen, g.lastState.Boids)
		g.drawAnchor(screen, g.lastState.Anchor)
	}

	// 2. Draw UI Panel
	if fp := g.activePanel(); fp != nil {
		fp.panel.Draw(screen)
	}

	// 3. Draw the flock stats and performance
	g.drawStats(screen)
}

// drawBoids batches every triangle into DrawTriangles calls and draws circles directly.
func (g *Game) drawBoids(screen *ebiten.Image, boids []simulation.BoidView) {
	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]

	for _, b := range boids {
		clr := g.colorOf(b.Color)
		if b.Shape == behavior.ShapeCircle {
			vector.FillCircle(screen, float32(b.Position.X), float32(b.Position.Y), float32(b.Size), clr, true)
			continue
		}
		if len(g.vertices)+3 > math.MaxUint16 {
			g.flushTriangles(screen)
		}
		g.appendTriangle(b, clr)
	}
	g.flushTriangles(screen)
}

// appendTriangle adds an isosceles triangle pointing along the velocity.
func (g *Game) appendTriangle(b simulation.BoidView, clr color.RGBA) {
	angle := b.Velocity.Angle()
	front := b.Size
	back := front * 0.6

	points := [3]geometry.Vector2D{
		b.Position.Add(geometry.Vector2D{X: front}.Rotate(angle)),
		b.Position.Add(geometry.Vector2D{X: -back, Y: -back}.Rotate(angle)),
		b.Position.Add(geometry.Vector2D{X: -back, Y: back}.Rotate(angle)),
	}

	r, gr, bl, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	base := uint16(len(g.vertices))
	for _, pt := range points {
		g.vertices = append(g.vertices, ebiten.Vertex{
			DstX: float32(pt.X), DstY: float32(pt.Y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: gr, ColorB: bl, ColorA: a,
		})
	}
	g.indices = append(g.indices, base, base+1, base+2)
}

func (g *Game) colorOf(hex string) color.RGBA {
	c, ok := g.colors[hex]
	if !ok {
		c = ParseHexColor(hex)
		g.colors[hex] = c
	}
	return c
}

func (g *Game) flushTriangles(screen *ebiten.Image) {
	if len(g.indices) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(g.vertices, g.indices, whiteSubImage, op)
	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]
}

func (g *Game) drawAnchor(screen *ebiten.Image, anchor *geometry.Vector2D) {
	if anchor == nil {
		return
	}
	vector.FillCircle(screen, float32(anchor.X), float32(anchor.Y), 3, anchorColor, true)

	if fp := g.panelFor(g.lastState.Active); fp != nil {
		if r := fp.sliders["anchorRadius"].Value; r > 0 {
			ring := color.NRGBA{R: anchorColor.R, G: anchorColor.G, B: anchorColor.B, A: 80}
			vector.StrokeCircle(screen, float32(anchor.X), float32(anchor.Y), float32(r), 1, ring, true)
		}
	}
}

func (g *Game) panelFor(i int) *flockPanel {
	if i >= 0 && i < len(g.panels) {
		return g.panels[i]
	}
	return nil
}

func (g *Game) drawStats(screen *ebiten.Image) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "FPS: %.2f  TPS: %.2f\nUpdate: %.2fms  Draw: %.2fms\n",
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.updateAvg, g.drawAvg)

	if s := g.lastState; s != nil {
		fmt.Fprintf(&sb, "Tick %d  t=%.1fs\n", s.Tick, s.SimTime)
		var modes []string
		if s.Paused {
			modes = append(modes, "PAUSED")
		}
		if s.Solo {
			modes = append(modes, "SOLO")
		}
		if !s.Collisions {
			modes = append(modes, "OWN-FLOCK SEPARATION")
		}
		if g.tracker.Tracking() {
			modes = append(modes, "TRACKING")
		}
		if len(modes) > 0 {
			sb.WriteString(strings.Join(modes, " ") + "\n")
		}
		sb.WriteString("\n")
		for i, st := range s.Stats {
			marker := " "
			if i == s.Active {
				marker = ">"
			}
			fmt.Fprintf(&sb, "%s%d %-7s %3d  v=%.0f\n", marker, i+1, st.Name, st.Count, st.MeanSpeed)
		}
	}
	sb.WriteString("\nSpace pause  R scatter  S solo\nC collisions  1-9 flock  P panel\nclick anchor  dbl-click track  Esc clear")

	ebitenutil.DebugPrintAt(screen, sb.String(), int(g.cfg.WorldWidth)-250, 10)
}

func (g *Game) Layout(w, h int) (int, int) { return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight) }

// dim darkens a flock colour enough for white title text to stay readable.
func dim(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 255}
}

// ParseHexColor converts "#rrggbb" to an opaque colour; malformed input gives white.
func ParseHexColor(s string) color.RGBA {
	c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return c
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
