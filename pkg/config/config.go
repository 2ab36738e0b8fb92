// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/opd-ai/go-ballpit/pkg/physics"
	"github.com/opd-ai/go-ballpit/pkg/quadtree"
)

// MaxTickRate caps Run.TickRate so the tick period stays a usable ticker
// interval.
const MaxTickRate = 10000

// SimConfig contains configuration for a ballpit simulation run
type SimConfig struct {
	Arena   ArenaConfig   `json:"arena"`
	Bodies  BodiesConfig  `json:"bodies"`
	Tree    TreeConfig    `json:"tree"`
	Physics PhysicsConfig `json:"physics"`
	Run     RunConfig     `json:"run"`
}

// ArenaConfig is the walled rectangle anchored at the origin.
type ArenaConfig struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BodiesConfig controls the spawned population.
type BodiesConfig struct {
	Count     int     `json:"count"`
	MinRadius float64 `json:"minRadius"`
	MaxRadius float64 `json:"maxRadius"`
	MaxSpeed  float64 `json:"maxSpeed"`
	// Seed of 0 picks a fresh seed per run.
	Seed uint64 `json:"seed"`
}

// TreeConfig maps onto quadtree.Options.
type TreeConfig struct {
	Capacity  int     `json:"capacity"`
	MaxDepth  *int    `json:"maxDepth,omitempty"`
	MinWidth  float64 `json:"minWidth,omitempty"`
	MinHeight float64 `json:"minHeight,omitempty"`
}

// PhysicsConfig contains physics-related configuration
type PhysicsConfig struct {
	// Friction is the velocity damping coefficient per second. 0 disables it.
	Friction   float64 `json:"friction"`
	DedupPairs bool    `json:"dedupPairs"`
}

// RunConfig drives the fixed timestep loop.
type RunConfig struct {
	TickRate       int `json:"tickRate"`
	Ticks          int `json:"ticks"`
	ReportInterval int `json:"reportInterval"`
}

// ValidationError names the first invalid field found by Validate.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault behaves like LoadConfig but falls back to
// DefaultConfig when path does not exist.
func LoadConfigOrDefault(path string) (*SimConfig, error) {
	config, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return config, err
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimConfig, path string) error {
	if config == nil {
		return errors.New("cannot save nil config")
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns 200 bodies of radius 3 to 12 moving at up to 50
// units per second in a 1024x768 arena, stepped 60 times per second.
func DefaultConfig() *SimConfig {
	return &SimConfig{
		Arena: ArenaConfig{
			Width:  1024,
			Height: 768,
		},
		Bodies: BodiesConfig{
			Count:     200,
			MinRadius: 3,
			MaxRadius: 12,
			MaxSpeed:  50,
		},
		Tree: TreeConfig{
			Capacity: quadtree.DefaultCapacity,
		},
		Physics: PhysicsConfig{
			Friction:   0,
			DedupPairs: false,
		},
		Run: RunConfig{
			TickRate:       60,
			Ticks:          0,
			ReportInterval: 60,
		},
	}
}

// ArenaBounds returns the arena rectangle with its top-left at the origin.
func (c *SimConfig) ArenaBounds() physics.Bounds {
	return physics.NewBounds(physics.Zero, c.Arena.Width, c.Arena.Height)
}

// TreeOptions converts the tree section to quadtree.Options.
func (c *SimConfig) TreeOptions() quadtree.Options {
	opts := quadtree.Options{Capacity: c.Tree.Capacity}
	if c.Tree.MaxDepth != nil {
		opts = opts.WithMaxDepth(*c.Tree.MaxDepth)
	}
	if c.Tree.MinWidth > 0 || c.Tree.MinHeight > 0 {
		opts = opts.WithMinSize(c.Tree.MinWidth, c.Tree.MinHeight)
	}
	return opts
}

// Validate checks the configuration and reports the first invalid field.
func (c *SimConfig) Validate() error {
	switch {
	case !(c.Arena.Width > 0):
		return &ValidationError{Field: "Arena.Width", Message: "must be positive"}
	case !(c.Arena.Height > 0):
		return &ValidationError{Field: "Arena.Height", Message: "must be positive"}
	case c.Bodies.Count < 0:
		return &ValidationError{Field: "Bodies.Count", Message: "must not be negative"}
	case !(c.Bodies.MinRadius > 0):
		return &ValidationError{Field: "Bodies.MinRadius", Message: "must be positive"}
	case c.Bodies.MaxRadius < c.Bodies.MinRadius:
		return &ValidationError{Field: "Bodies.MaxRadius", Message: "must not be below minRadius"}
	case 2*c.Bodies.MaxRadius >= c.Arena.Width || 2*c.Bodies.MaxRadius >= c.Arena.Height:
		return &ValidationError{Field: "Bodies.MaxRadius", Message: "body does not fit in the arena"}
	case c.Bodies.MaxSpeed < 0:
		return &ValidationError{Field: "Bodies.MaxSpeed", Message: "must not be negative"}
	case c.Tree.Capacity <= 0:
		return &ValidationError{Field: "Tree.Capacity", Message: "must be positive"}
	case c.Tree.MaxDepth != nil && *c.Tree.MaxDepth < 0:
		return &ValidationError{Field: "Tree.MaxDepth", Message: "must not be negative"}
	case c.Tree.MinWidth < 0 || c.Tree.MinHeight < 0:
		return &ValidationError{Field: "Tree.MinSize", Message: "must not be negative"}
	case c.Physics.Friction < 0:
		return &ValidationError{Field: "Physics.Friction", Message: "must not be negative"}
	case c.Run.TickRate <= 0:
		return &ValidationError{Field: "Run.TickRate", Message: "must be positive"}
	case c.Run.TickRate > MaxTickRate:
		return &ValidationError{Field: "Run.TickRate", Message: fmt.Sprintf("must not exceed %d", MaxTickRate)}
	case c.Run.Ticks < 0:
		return &ValidationError{Field: "Run.Ticks", Message: "must not be negative"}
	case c.Run.ReportInterval < 0:
		return &ValidationError{Field: "Run.ReportInterval", Message: "must not be negative"}
	}
	return nil
}
