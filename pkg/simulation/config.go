package simulation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/behavior"
)

//go:embed flocks.schema.json
var defaultSchema string

const defaultSchemaURL = "flocks.schema.json"

var (
	// ErrNoFlocks is returned when a configuration defines no flock.
	ErrNoFlocks = errors.New("config has no flocks")
	// ErrInvalidConfig is returned when world settings are unusable.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnsupportedFormat is returned for config files that are not json, yaml or toml.
	ErrUnsupportedFormat = errors.New("unsupported config format")
)

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth" yaml:"worldWidth" toml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" yaml:"worldHeight" toml:"worldHeight"`

	// HeightScaledSpeeds expresses minSpeed, maxSpeed and turnFactor as fractions of
	// the world height per second. When false they are raw pixels per second.
	HeightScaledSpeeds bool `json:"heightScaledSpeeds" yaml:"heightScaledSpeeds" toml:"heightScaledSpeeds"`

	// Startup modes
	CrossFlockCollisions bool `json:"crossFlockCollisions" yaml:"crossFlockCollisions" toml:"crossFlockCollisions"`
	Solo                 bool `json:"solo" yaml:"solo" toml:"solo"`
	ActiveFlock          int  `json:"activeFlock" yaml:"activeFlock" toml:"activeFlock"`

	// Seed feeds the random spawner; 0 picks one at startup.
	Seed uint64 `json:"seed" yaml:"seed" toml:"seed"`

	Flocks []behavior.BoidType `json:"flocks" yaml:"flocks" toml:"flocks"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:           1000,
		WorldHeight:          600,
		HeightScaledSpeeds:   true,
		CrossFlockCollisions: true,
		Solo:                 false,
		ActiveFlock:          0,
		Flocks:               behavior.DefaultBoidTypes(),
	}
}

// LoadConfig loads configuration from a JSON, YAML or TOML file and validates it
// against the schema. An empty schemaFile uses the embedded schema.
// Top-level fields missing from the file keep their DefaultConfig value; a file
// without flocks gets the stock ones.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := compileSchema(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Decode into a generic document
	ext := strings.ToLower(filepath.Ext(configFile))
	var doc interface{}
	switch ext {
	case ".json":
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
	case ".toml":
		var m map[string]interface{}
		if _, err := toml.Decode(string(b), &m); err != nil {
			return nil, fmt.Errorf("failed to decode config toml: %w", err)
		}
		doc = m
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	// 4. Validate against the schema
	doc, err = asJSONDocument(doc)
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 5. Unmarshal into the struct
	cfg := DefaultConfig()
	cfg.Flocks = nil
	switch ext {
	case ".json":
		err = json.Unmarshal(b, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, cfg)
	case ".toml":
		_, err = toml.Decode(string(b), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Flocks == nil {
		cfg.Flocks = behavior.DefaultBoidTypes()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func compileSchema(schemaFile string) (*jsonschema.Schema, error) {
	if schemaFile == "" {
		return jsonschema.CompileString(defaultSchemaURL, defaultSchema)
	}
	return jsonschema.Compile(schemaFile)
}

// asJSONDocument round-trips a decoded yaml or toml document through encoding/json
// so the validator only sees the types a JSON decoder produces.
func asJSONDocument(doc interface{}) (interface{}, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalise config document: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to normalise config document: %w", err)
	}
	return out, nil
}

// Validate checks the world settings and every flock profile.
func (c *Config) Validate() error {
	if len(c.Flocks) == 0 {
		return ErrNoFlocks
	}
	var errs []error
	if c.WorldWidth <= 0 || c.WorldHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: world size %gx%g", ErrInvalidConfig, c.WorldWidth, c.WorldHeight))
	}
	if c.ActiveFlock < 0 || c.ActiveFlock >= len(c.Flocks) {
		errs = append(errs, fmt.Errorf("%w: activeFlock %d with %d flocks", ErrInvalidConfig, c.ActiveFlock, len(c.Flocks)))
	}
	for i := range c.Flocks {
		if !validColor(c.Flocks[i].Color) {
			errs = append(errs, fmt.Errorf("%w: flock %q color %q is not #rrggbb", ErrInvalidConfig, c.Flocks[i].Name, c.Flocks[i].Color))
		}
		if err := c.Flocks[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Bounds returns the world described by the configuration.
func (c *Config) Bounds() behavior.Bounds {
	b := behavior.Bounds{Width: c.WorldWidth, Height: c.WorldHeight, SpeedScale: 1}
	if c.HeightScaledSpeeds {
		b.SpeedScale = c.WorldHeight
	}
	return b
}

// NewStepper builds the populated world. Each flock gets its own copy of the
// profile, so editing settings never touches the configuration.
func (c *Config) NewStepper(rng *rand.Rand) (*Stepper, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	bounds := c.Bounds()
	types := make([]behavior.BoidType, len(c.Flocks))
	copy(types, c.Flocks)

	flocks := make([]*behavior.Flock, len(types))
	for i := range types {
		flocks[i] = behavior.NewFlock(&types[i], bounds, rng)
		flocks[i].ReconcilePopulation()
	}

	s := NewStepper(flocks, bounds)
	if err := s.Select(c.ActiveFlock); err != nil {
		return nil, err
	}
	s.SetSolo(c.Solo)
	s.SetCollisions(c.CrossFlockCollisions)
	return s, nil
}
