package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a simple UI widget for a bounded numeric value.
// A positive Step snaps the value to Min + k*Step.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	Step     float64
	X, Y     float64
	W, H     float64

	// OnChange is called with the new value whenever a drag moves it.
	OnChange func(float64)

	dragging bool
}

// NewSlider creates a new slider instance
func NewSlider(x, y, w float64, label string, min, max, step, value float64) *Slider {
	s := &Slider{
		Label: label,
		Min:   min,
		Max:   max,
		Step:  step,
		X:     x,
		Y:     y,
		W:     w,
		H:     12,
	}
	s.Value = s.quantize(value)
	return s
}

// SetValue moves the knob without firing OnChange.
func (s *Slider) SetValue(v float64) {
	s.Value = s.quantize(v)
}

// Update checks for mouse interaction
func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		s.dragging = false
		return
	}
	// A drag starts with a press on the bar and follows the cursor until release
	if !s.dragging {
		s.dragging = clickedIn(s.X, s.Y, s.W, s.H)
	}
	if !s.dragging || s.W <= 0 {
		return
	}

	mx, _ := ebiten.CursorPosition()

	// Calculate value based on horizontal position
	p := (float64(mx) - s.X) / s.W
	v := s.quantize(s.Min + p*(s.Max-s.Min))
	if v != s.Value {
		s.Value = v
		if s.OnChange != nil {
			s.OnChange(v)
		}
	}
}

func (s *Slider) quantize(v float64) float64 {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
		// drop float noise such as 0.30000000000000004
		v = math.Round(v*1e6) / 1e6
	}
	return math.Max(s.Min, math.Min(s.Max, v))
}

// Draw renders the slider
func (s *Slider) Draw(screen *ebiten.Image) {
	// Draw Background (Dark Gray)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	// Draw Value Bar (Light Gray/White)
	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	// Current value right-aligned above the bar
	txt := s.format()
	ebitenutil.DebugPrintAt(screen, txt, int(s.X+s.W)-len(txt)*6, int(s.Y)-15)
}

func (s *Slider) format() string {
	if s.Step >= 1 {
		return fmt.Sprintf("%.0f", s.Value)
	}
	return fmt.Sprintf("%.2f", s.Value)
}
