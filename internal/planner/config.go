package planner

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"

	"rrt-planner/internal/geometry"
)

// SamplingMode selects how uniform samples are drawn over the world.
type SamplingMode string

const (
	// SamplingLattice draws integer coordinates over the inclusive world
	// range, e.g. 0..100 for a 100 wide world starting at 0.
	SamplingLattice SamplingMode = "lattice"

	// SamplingContinuous draws real coordinates over the world.
	SamplingContinuous SamplingMode = "continuous"
)

// IndexKind selects the structure used for nearest node and obstacle
// lookups.
type IndexKind string

const (
	// IndexLinear scans nodes and obstacles in order. The nearest node is the
	// first minimum in id order.
	IndexLinear IndexKind = "linear"

	// IndexRTree uses the R-tree indexes from the spatial package.
	IndexRTree IndexKind = "rtree"
)

// Default values used by DefaultConfig.
const (
	DefaultWorldSize        = 100
	DefaultGoalBias         = 0.01
	DefaultStepSize         = 1
	DefaultMaxIterations    = 1_000_000
	DefaultProgressInterval = 100
)

// maxLatticeSide is the largest world side sampled on the integer lattice.
// Every integer up to it is exactly representable as a float64.
const maxLatticeSide = 1 << 53

// Progress is reported to Config.OnProgress while the tree grows.
type Progress struct {
	Nodes      int
	Iterations int
	Elapsed    time.Duration
}

// Config holds the parameters of a planning run.
type Config struct {
	// The sampling domain.
	World geometry.Region

	// The probability of sampling the goal centroid instead of a uniform
	// point. Must be within [0, 1].
	GoalBias float64

	// The steer step, measured along the Manhattan direction.
	StepSize float64

	Sampling SamplingMode
	Index    IndexKind

	// EdgeCheck also rejects steps whose segment from the nearest node
	// touches an obstacle. When false, only node positions are checked and a
	// short edge may clip an obstacle corner.
	EdgeCheck bool

	// The maximum number of loop iterations, rejected samples included.
	// Required.
	MaxIterations int

	// The maximum number of nodes in the tree. 0 disables the cap.
	MaxNodes int

	// Seed for the random source. 0 picks a random seed. Ignored when Source
	// is set.
	Seed   uint64
	Source rand.Source

	// OnProgress is called every ProgressInterval added nodes. 0 disables
	// progress reports.
	ProgressInterval int
	OnProgress       func(Progress)
}

// DefaultConfig returns the configuration of the reference planner: a 100 x
// 100 world sampled on the integer lattice, a 1% goal bias and a unit step.
func DefaultConfig() Config {
	return Config{
		World:            geometry.NewRegion(0, 0, DefaultWorldSize, DefaultWorldSize),
		GoalBias:         DefaultGoalBias,
		StepSize:         DefaultStepSize,
		Sampling:         SamplingLattice,
		Index:            IndexLinear,
		MaxIterations:    DefaultMaxIterations,
		ProgressInterval: DefaultProgressInterval,
	}
}

// Validate checks that the configuration can be used for planning.
func (c Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return errors.New("invalid world bounds").
			WithType(ErrTypeInvalidConfig).
			Wrap(err)
	}

	if math.IsNaN(c.GoalBias) || c.GoalBias < 0 || c.GoalBias > 1 {
		return errors.New("goal bias must be within [0, 1]").
			WithType(ErrTypeInvalidConfig).
			WithTag("goal_bias", c.GoalBias)
	}

	if math.IsNaN(c.StepSize) || math.IsInf(c.StepSize, 0) || c.StepSize <= 0 {
		return errors.New("step size must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("step_size", c.StepSize)
	}

	switch c.Sampling {
	case SamplingLattice, SamplingContinuous:
	default:
		return errors.New("unknown sampling mode").
			WithType(ErrTypeInvalidConfig).
			WithTag("sampling", c.Sampling)
	}

	if c.Sampling == SamplingLattice &&
		(c.World.Width > maxLatticeSide || c.World.Height > maxLatticeSide) {
		return errors.New("world is too large for lattice sampling").
			WithType(ErrTypeInvalidConfig).
			WithTag("width", c.World.Width).
			WithTag("height", c.World.Height).
			WithTag("max_side", maxLatticeSide)
	}

	switch c.Index {
	case IndexLinear, IndexRTree:
	default:
		return errors.New("unknown index kind").
			WithType(ErrTypeInvalidConfig).
			WithTag("index", c.Index)
	}

	if c.MaxIterations <= 0 {
		return errors.New("max iterations must be positive").
			WithType(ErrTypeInvalidConfig).
			WithTag("max_iterations", c.MaxIterations)
	}

	if c.MaxNodes < 0 {
		return errors.New("max nodes must not be negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("max_nodes", c.MaxNodes)
	}

	if c.ProgressInterval < 0 {
		return errors.New("progress interval must not be negative").
			WithType(ErrTypeInvalidConfig).
			WithTag("progress_interval", c.ProgressInterval)
	}
	return nil
}

func (c Config) newRand() *rand.Rand {
	if c.Source != nil {
		return rand.New(c.Source)
	}

	seed := c.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed))
}
