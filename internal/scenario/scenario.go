// Package scenario loads, saves and exports planning problems.
package scenario

import (
	"context"
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/paulmach/orb"
	"github.com/segmentio/encoding/json"

	"rrt-planner/internal/geometry"
	"rrt-planner/internal/planner"
)

// Scenario describes a planning problem.
type Scenario struct {
	Name      string            `json:"name,omitempty"`
	Start     orb.Point         `json:"start"`
	Goal      geometry.Region   `json:"goal"`
	Obstacles []geometry.Region `json:"obstacles,omitempty"`

	// The sampling domain. The base configuration world is used when nil.
	World *geometry.Region `json:"world,omitempty"`

	Settings Settings `json:"settings,omitempty"`
}

// Settings holds optional planner overrides. Zero values keep the base
// configuration.
type Settings struct {
	GoalBias      *float64             `json:"goalBias,omitempty"`
	StepSize      *float64             `json:"stepSize,omitempty"`
	Sampling      planner.SamplingMode `json:"sampling,omitempty"`
	Index         planner.IndexKind    `json:"index,omitempty"`
	EdgeCheck     bool                 `json:"edgeCheck,omitempty"`
	MaxIterations int                  `json:"maxIterations,omitempty"`
	MaxNodes      int                  `json:"maxNodes,omitempty"`
	Seed          uint64               `json:"seed,omitempty"`
}

// Reference returns the two wall problem: a start at (25, 25) below a wall
// open on the right, a second wall open on the left and a 10 x 10 goal at
// (75, 75).
func Reference() Scenario {
	world := geometry.NewRegion(0, 0, planner.DefaultWorldSize, planner.DefaultWorldSize)

	return Scenario{
		Name:  "reference",
		Start: orb.Point{25, 25},
		Goal:  geometry.NewRegion(75, 75, 10, 10),
		Obstacles: []geometry.Region{
			geometry.NewRegion(0, 30, 80, 10),
			geometry.NewRegion(20, 60, 80, 10),
		},
		World: &world,
	}
}

// Config returns base with the scenario world and settings applied.
func (s Scenario) Config(base planner.Config) planner.Config {
	conf := base
	if s.World != nil {
		conf.World = *s.World
	}

	settings := s.Settings
	if settings.GoalBias != nil {
		conf.GoalBias = *settings.GoalBias
	}
	if settings.StepSize != nil {
		conf.StepSize = *settings.StepSize
	}
	if settings.Sampling != "" {
		conf.Sampling = settings.Sampling
	}
	if settings.Index != "" {
		conf.Index = settings.Index
	}
	if settings.EdgeCheck {
		conf.EdgeCheck = true
	}
	if settings.MaxIterations > 0 {
		conf.MaxIterations = settings.MaxIterations
	}
	if settings.MaxNodes > 0 {
		conf.MaxNodes = settings.MaxNodes
	}
	if settings.Seed != 0 {
		conf.Seed = settings.Seed
	}
	return conf
}

// Plan runs the planner on the scenario with its settings applied over
// base.
func (s Scenario) Plan(ctx context.Context, base planner.Config) (*planner.Tree, error) {
	return planner.Plan(ctx, s.Start, s.Goal, s.Obstacles, s.Config(base))
}

// Load reads a scenario from a JSON file.
func Load(filename string) (Scenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Scenario{}, errors.New("reading scenario file failed").
			WithTag("filename", filename).
			Wrap(err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return Scenario{}, errors.New("decoding scenario failed").
			WithTag("filename", filename).
			Wrap(err)
	}
	return s, nil
}

// Save writes the scenario to a JSON file.
func Save(s Scenario, filename string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.New("encoding scenario failed").Wrap(err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.New("writing scenario file failed").
			WithTag("filename", filename).
			Wrap(err)
	}
	return nil
}
