package behavior

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrUnknownSetting is returned when a setting name is not part of SettingsOrder.
	ErrUnknownSetting = errors.New("unknown boid setting")
	// ErrOutOfRange is returned by Validate for a value outside its declared domain.
	ErrOutOfRange = errors.New("boid setting out of range")
)

// Shape selects how the renderer draws a boid. The force model never looks at it.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeTriangle
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeTriangle:
		return "triangle"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// BoidType is the tuning profile shared by every boid of one flock.
// It is built once at startup and then edited in place by the settings panel,
// so boids keep a pointer to it instead of a copy.
type BoidType struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Color string `json:"color" yaml:"color" toml:"color"` // "#rrggbb"

	Size      float64 `json:"size" yaml:"size" toml:"size"`
	Shape     Shape   `json:"shape" yaml:"shape" toml:"shape"`
	FlockSize int     `json:"flockSize" yaml:"flockSize" toml:"flockSize"`

	MinSpeed   float64 `json:"minSpeed" yaml:"minSpeed" toml:"minSpeed"`
	MaxSpeed   float64 `json:"maxSpeed" yaml:"maxSpeed" toml:"maxSpeed"`
	TurnFactor float64 `json:"turnFactor" yaml:"turnFactor" toml:"turnFactor"` // Edge turning strength

	PerceptionRadius float64 `json:"perceptionRadius" yaml:"perceptionRadius" toml:"perceptionRadius"` // Alignment and cohesion range
	SeparationRadius float64 `json:"separationRadius" yaml:"separationRadius" toml:"separationRadius"` // Personal space

	SeparationWeight float64 `json:"separationWeight" yaml:"separationWeight" toml:"separationWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight" yaml:"alignmentWeight" toml:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight" yaml:"cohesionWeight" toml:"cohesionWeight"`

	AnchorRadius           float64 `json:"anchorRadius" yaml:"anchorRadius" toml:"anchorRadius"`
	AnchoredCohesionWeight float64 `json:"anchoredCohesionWeight" yaml:"anchoredCohesionWeight" toml:"anchoredCohesionWeight"`
}

// Constraint is the declared [Min, Max] domain of a setting and its input step.
type Constraint struct {
	Min  float64
	Max  float64
	Step float64
}

// Clamp restricts v to [Min, Max].
func (c Constraint) Clamp(v float64) float64 {
	return math.Max(c.Min, math.Min(c.Max, v))
}

// Contains reports whether v lies inside the domain.
func (c Constraint) Contains(v float64) bool {
	return v >= c.Min && v <= c.Max
}

// Constraints holds the domain of every editable setting, keyed by its JSON name.
// The force model does not enforce them; the settings panel clamps before writing.
var Constraints = map[string]Constraint{
	"size":                   {Min: 5, Max: 25, Step: 1},
	"shape":                  {Min: 0, Max: 1, Step: 1},
	"flockSize":              {Min: 0, Max: 50, Step: 1},
	"minSpeed":               {Min: 0, Max: 0.8, Step: 0.01},
	"maxSpeed":               {Min: 0.1, Max: 2, Step: 0.01},
	"turnFactor":             {Min: 0, Max: 2, Step: 0.1},
	"separationRadius":       {Min: 10, Max: 50, Step: 1},
	"perceptionRadius":       {Min: 20, Max: 100, Step: 1},
	"separationWeight":       {Min: 0, Max: 2, Step: 0.1},
	"alignmentWeight":        {Min: 0, Max: 2, Step: 0.1},
	"cohesionWeight":         {Min: 0, Max: 2, Step: 0.1},
	"anchorRadius":           {Min: 0, Max: 100, Step: 1},
	"anchoredCohesionWeight": {Min: 0, Max: 2, Step: 0.1},
}

// SettingsOrder is the top-down order of the settings panel.
var SettingsOrder = []string{
	"size",
	"shape",
	"flockSize",

	"minSpeed",
	"maxSpeed",
	"turnFactor",

	"separationRadius",
	"perceptionRadius",

	"separationWeight",
	"alignmentWeight",
	"cohesionWeight",

	"anchorRadius",
	"anchoredCohesionWeight",
}

// IsIntegerSetting reports whether the setting only takes whole values.
func IsIntegerSetting(name string) bool {
	switch name {
	case "size", "shape", "flockSize":
		return true
	}
	return false
}

// field maps a setting name to the float view of the matching struct field.
// Integer-typed fields go through the get/set closures.
func (t *BoidType) field(name string) (get func() float64, set func(float64), ok bool) {
	ptr := func(p *float64) (func() float64, func(float64), bool) {
		return func() float64 { return *p }, func(v float64) { *p = v }, true
	}
	switch name {
	case "size":
		return ptr(&t.Size)
	case "shape":
		return func() float64 { return float64(t.Shape) }, func(v float64) { t.Shape = Shape(v) }, true
	case "flockSize":
		return func() float64 { return float64(t.FlockSize) }, func(v float64) { t.FlockSize = int(v) }, true
	case "minSpeed":
		return ptr(&t.MinSpeed)
	case "maxSpeed":
		return ptr(&t.MaxSpeed)
	case "turnFactor":
		return ptr(&t.TurnFactor)
	case "separationRadius":
		return ptr(&t.SeparationRadius)
	case "perceptionRadius":
		return ptr(&t.PerceptionRadius)
	case "separationWeight":
		return ptr(&t.SeparationWeight)
	case "alignmentWeight":
		return ptr(&t.AlignmentWeight)
	case "cohesionWeight":
		return ptr(&t.CohesionWeight)
	case "anchorRadius":
		return ptr(&t.AnchorRadius)
	case "anchoredCohesionWeight":
		return ptr(&t.AnchoredCohesionWeight)
	}
	return nil, nil, false
}

// Get returns the current value of a setting by name.
func (t *BoidType) Get(name string) (float64, error) {
	get, _, ok := t.field(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	return get(), nil
}

// Set writes a setting by name, clamped into its domain and rounded for integer
// settings, and returns the value actually stored.
// Callers changing flockSize must reconcile the flock population afterwards.
func (t *BoidType) Set(name string, value float64) (float64, error) {
	_, set, ok := t.field(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	if math.IsNaN(value) {
		return 0, fmt.Errorf("%w: %s is NaN", ErrOutOfRange, name)
	}
	if c, ok := Constraints[name]; ok {
		value = c.Clamp(value)
	}
	if IsIntegerSetting(name) {
		value = math.Round(value)
	}
	set(value)
	return value, nil
}

// Validate reports every setting outside its declared domain.
// minSpeed > maxSpeed is allowed: maxSpeed wins when velocities are clamped.
func (t *BoidType) Validate() error {
	var problems []string
	for _, name := range SettingsOrder {
		v, _ := t.Get(name)
		if c := Constraints[name]; !c.Contains(v) {
			problems = append(problems, fmt.Sprintf("%s=%g not in [%g, %g]", name, v, c.Min, c.Max))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrOutOfRange, t.Name, strings.Join(problems, ", "))
	}
	return nil
}

// DefaultBoidTypes returns the five stock flock profiles, every value already
// clamped into its Constraints domain.
func DefaultBoidTypes() []BoidType {
	return []BoidType{
		{
			Name: "Red", Color: "#ff0000",
			Size: 10, Shape: ShapeTriangle, FlockSize: 5,
			MinSpeed: 0.3, MaxSpeed: 0.3, TurnFactor: 0.15,
			PerceptionRadius: 100, SeparationRadius: 50,
			SeparationWeight: 1.0, AlignmentWeight: 1.0, CohesionWeight: 1.0,
			AnchorRadius: 50, AnchoredCohesionWeight: 1.0,
		},
		{
			Name: "Yellow", Color: "#ffff00",
			Size: 16, Shape: ShapeTriangle, FlockSize: 40,
			MinSpeed: 0.8, MaxSpeed: 2.0, TurnFactor: 0.10,
			PerceptionRadius: 60, SeparationRadius: 40,
			SeparationWeight: 1.5, AlignmentWeight: 1.0, CohesionWeight: 0.5,
			AnchorRadius: 50, AnchoredCohesionWeight: 1.0,
		},
		{
			Name: "Blue", Color: "#0000ff",
			Size: 5, Shape: ShapeTriangle, FlockSize: 20,
			MinSpeed: 0.8, MaxSpeed: 2.0, TurnFactor: 0.20,
			PerceptionRadius: 30, SeparationRadius: 10,
			SeparationWeight: 1.0, AlignmentWeight: 1.5, CohesionWeight: 1.3,
			AnchorRadius: 50, AnchoredCohesionWeight: 1.0,
		},
		{
			Name: "Green", Color: "#00ff00",
			Size: 12, Shape: ShapeTriangle, FlockSize: 2,
			MinSpeed: 0.8, MaxSpeed: 2.0, TurnFactor: 0.10,
			PerceptionRadius: 40, SeparationRadius: 15,
			SeparationWeight: 0.8, AlignmentWeight: 1.6, CohesionWeight: 1.0,
			AnchorRadius: 50, AnchoredCohesionWeight: 1.0,
		},
		{
			Name: "White", Color: "#ffffff",
			Size: 10, Shape: ShapeCircle, FlockSize: 30,
			MinSpeed: 0.8, MaxSpeed: 2.0, TurnFactor: 0.08,
			PerceptionRadius: 20, SeparationRadius: 10,
			SeparationWeight: 0.2, AlignmentWeight: 0.5, CohesionWeight: 0.5,
			AnchorRadius: 50, AnchoredCohesionWeight: 0,
		},
	}
}
