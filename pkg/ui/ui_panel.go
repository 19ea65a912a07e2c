package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// UIWidget is an interface for all UI widgets
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
	setY(y float64)
}

// SliderWrapper wraps Slider to implement UIWidget
type SliderWrapper struct {
	*Slider
}

func (s *SliderWrapper) GetHeight() float64 {
	return s.H + 25 // Slider height + label space
}

func (s *SliderWrapper) setY(y float64) { s.Y = y }

// CheckboxWrapper wraps Checkbox to implement UIWidget
type CheckboxWrapper struct {
	*Checkbox
}

func (c *CheckboxWrapper) GetHeight() float64 {
	return c.Size + 20 // Checkbox size + label space
}

func (c *CheckboxWrapper) setY(y float64) { c.Y = y }

// ButtonWrapper wraps Button to implement UIWidget
type ButtonWrapper struct {
	*Button
}

func (b *ButtonWrapper) GetHeight() float64 {
	return b.Height + 20
}

func (b *ButtonWrapper) setY(y float64) { b.Y = y }

// UIPanel manages a collection of labelled widgets grouped in sections,
// scrollable with the mouse wheel.
type UIPanel struct {
	Title         string
	X, Y          float64 // Panel position
	Width, Height float64 // Panel dimensions
	Widgets       []UIWidget
	Labels        []string // Labels for widgets
	ScrollOffset  float64  // Current scroll position

	// Styling
	BGColor     color.RGBA
	BorderColor color.RGBA
	AccentColor color.RGBA // Title bar, usually the flock colour

	sections []PanelSection
}

// PanelSection is a titled run of widgets [StartIndex, EndIndex).
type PanelSection struct {
	Title      string
	StartIndex int
	EndIndex   int
}

// NewUIPanel creates a new UI panel
func NewUIPanel(title string, x, y, width, height float64) *UIPanel {
	return &UIPanel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
		AccentColor: color.RGBA{R: 60, G: 60, B: 70, A: 255},
	}
}

// AddSection starts a new section; the previous one is closed.
func (p *UIPanel) AddSection(title string) {
	p.EndSection()
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   -1,
	})
}

// EndSection closes the current section
func (p *UIPanel) EndSection() {
	if n := len(p.sections); n > 0 && p.sections[n-1].EndIndex < 0 {
		p.sections[n-1].EndIndex = len(p.Widgets)
	}
}

func (p *UIPanel) add(label string, w UIWidget) {
	w.setY(p.Y + p.calculateNextYOffset() + 20)
	p.Widgets = append(p.Widgets, w)
	p.Labels = append(p.Labels, label)
}

// AddSlider adds a slider widget to the panel
func (p *UIPanel) AddSlider(label string, min, max, step, value float64) *Slider {
	slider := NewSlider(p.X+10, 0, p.Width-20, label, min, max, step, value)
	p.add(label, &SliderWrapper{slider})
	return slider
}

// AddCheckbox adds a checkbox widget to the panel
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	checkbox := NewCheckbox(p.X+10, 0, label, value)
	p.add(label, &CheckboxWrapper{checkbox})
	return checkbox
}

// AddButton adds a full-width button to the panel
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	button := NewButton(p.X+10, 0, p.Width-20, 24, label, onClick)
	p.add("", &ButtonWrapper{button})
	return button
}

// calculateNextYOffset calculates the Y offset for the next widget
func (p *UIPanel) calculateNextYOffset() float64 {
	offset := 30 + float64(len(p.sections))*25
	for _, widget := range p.Widgets {
		offset += widget.GetHeight()
	}
	return offset
}

// Contains reports whether the screen point is over the panel.
func (p *UIPanel) Contains(x, y float64) bool {
	return x >= p.X && x <= p.X+p.Width && y >= p.Y && y <= p.Y+p.Height
}

// Update handles scrolling and input for all widgets
func (p *UIPanel) Update() {
	mx, my := ebiten.CursorPosition()
	if _, dy := ebiten.Wheel(); dy != 0 && p.Contains(float64(mx), float64(my)) {
		p.ScrollOffset -= dy * 20

		maxScroll := max(p.calculateTotalHeight()-p.Height+40, 0)
		p.ScrollOffset = min(max(p.ScrollOffset, 0), maxScroll)
	}

	p.layout()
	for _, widget := range p.Widgets {
		widget.Update()
	}
}

// layout places every widget for the current scroll offset.
func (p *UIPanel) layout() {
	currentY := p.Y + 30 - p.ScrollOffset
	for _, section := range p.sections {
		currentY += 25
		for i := section.StartIndex; i < p.sectionEnd(section); i++ {
			p.Widgets[i].setY(currentY + 15)
			currentY += p.Widgets[i].GetHeight()
		}
	}
}

func (p *UIPanel) sectionEnd(s PanelSection) int {
	if s.EndIndex < 0 || s.EndIndex > len(p.Widgets) {
		return len(p.Widgets)
	}
	return s.EndIndex
}

// Draw renders the panel and all widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)

	// Title bar
	vector.FillRect(screen,
		float32(p.X+2), float32(p.Y+2),
		float32(p.Width-4), 20,
		p.AccentColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+4))

	p.layout()
	currentY := p.Y + 30 - p.ScrollOffset
	for _, section := range p.sections {
		if p.visible(currentY) {
			vector.FillRect(screen,
				float32(p.X+5), float32(currentY),
				float32(p.Width-10), 20,
				color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, section.Title, int(p.X+10), int(currentY+3))
		}
		currentY += 25

		for i := section.StartIndex; i < p.sectionEnd(section); i++ {
			widget := p.Widgets[i]
			if p.visible(currentY) {
				if label := p.Labels[i]; label != "" {
					ebitenutil.DebugPrintAt(screen, label, int(p.X+10), int(currentY))
				}
				widget.Draw(screen)
			}
			currentY += widget.GetHeight()
		}
	}
}

func (p *UIPanel) visible(y float64) bool {
	return y >= p.Y+25 && y <= p.Y+p.Height-20
}

// calculateTotalHeight calculates the total content height
func (p *UIPanel) calculateTotalHeight() float64 {
	return p.calculateNextYOffset()
}
