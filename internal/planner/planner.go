package planner

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/paulmach/orb"

	"rrt-planner/internal/geometry"
)

// Plan grows a rapidly-exploring random tree from start until a node lands
// inside the goal region, never adding a node inside an obstacle.
//
// Each iteration draws a sample (the goal centroid with probability
// conf.GoalBias, otherwise a uniform point over conf.World), discards it when
// it lies in an obstacle, steers from the nearest node toward it by
// conf.StepSize, and appends the new position unless it lies in an obstacle.
// Discarded samples count as iterations.
//
// On success, the last node of the returned tree lies inside the goal. When
// the context is done or a cap from conf is reached first, the partial tree
// is returned along with an error of type ErrTypeCanceled or
// ErrTypeNotConverged. Invalid configurations and degenerate inputs are
// reported before any sample is drawn, with a nil tree.
func Plan(ctx context.Context, start orb.Point, goal geometry.Region, obstacles []geometry.Region, conf Config) (*Tree, error) {
	if err := validateInputs(start, goal, obstacles, conf); err != nil {
		instrumentPlan(outcomeInvalid, 0, 0, rejectCounter{})
		return nil, err
	}

	r := run{
		conf:      conf,
		goal:      goal,
		centroid:  goal.Centroid(),
		world:     conf.World.Bound(),
		obstacles: NewObstacles(obstacles, conf.Index),
		rng:       conf.newRand(),
		tree:      newTree(start),
		startedAt: time.Now(),
	}
	r.finder = newNearestFinder(r.tree, conf.Index)

	err := r.grow(ctx)
	r.tree.Iterations = r.iterations
	r.report(err)
	return r.tree, err
}

func validateInputs(start orb.Point, goal geometry.Region, obstacles []geometry.Region, conf Config) error {
	if err := conf.Validate(); err != nil {
		return err
	}

	if err := goal.Validate(); err != nil {
		return errors.New("invalid goal region").
			WithType(ErrTypeInvalidConfig).
			Wrap(err)
	}

	for i, obstacle := range obstacles {
		if err := obstacle.Validate(); err != nil {
			return errors.New("invalid obstacle region").
				WithType(ErrTypeInvalidConfig).
				WithTag("obstacle", i).
				Wrap(err)
		}
	}

	if math.IsNaN(start[0]) || math.IsNaN(start[1]) || !geometry.Contains(conf.World, start) {
		return errors.New("start point is outside the world").
			WithType(ErrTypeDegenerateInput).
			WithTag("start", start)
	}

	for i, obstacle := range obstacles {
		if geometry.Contains(obstacle, start) {
			return errors.New("start point is inside an obstacle").
				WithType(ErrTypeDegenerateInput).
				WithTag("start", start).
				WithTag("obstacle", i)
		}
	}

	if geometry.Contains(goal, start) {
		return errors.New("start point is already inside the goal region").
			WithType(ErrTypeDegenerateInput).
			WithTag("start", start)
	}
	return nil
}

type run struct {
	conf      Config
	goal      geometry.Region
	centroid  orb.Point
	world     orb.Bound
	obstacles Obstacles
	rng       *rand.Rand
	tree      *Tree
	finder    nearestFinder
	startedAt time.Time

	iterations int
	rejected   rejectCounter
}

func (r *run) grow(ctx context.Context) error {
	for {
		if err := r.checkLimits(ctx); err != nil {
			return err
		}
		r.iterations++

		sample := r.sample()
		if r.obstacles.Contains(sample) {
			r.rejected.sampleBlocked++
			continue
		}

		nearest := r.finder.nearest(sample)
		if sample == nearest.Pos {
			r.rejected.sampleOnNode++
			continue
		}

		pos := geometry.Steer(nearest.Pos, sample, r.conf.StepSize)
		if r.obstacles.Contains(pos) ||
			(r.conf.EdgeCheck && !r.obstacles.SegmentClear(nearest.Pos, pos)) {
			r.rejected.stepBlocked++
			continue
		}

		node := r.tree.add(pos, nearest.ID)
		r.finder.insert(node)

		if interval := r.conf.ProgressInterval; interval > 0 && r.tree.Len()%interval == 0 {
			r.progress()
		}

		if geometry.Contains(r.goal, pos) {
			return nil
		}
	}
}

func (r *run) checkLimits(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.New("planning canceled").
			WithType(ErrTypeCanceled).
			WithTag("nodes", r.tree.Len()).
			WithTag("iterations", r.iterations).
			Wrap(err)
	}

	if r.iterations >= r.conf.MaxIterations {
		return errors.New("planning did not converge within the iteration limit").
			WithType(ErrTypeNotConverged).
			WithTag("nodes", r.tree.Len()).
			WithTag("max_iterations", r.conf.MaxIterations)
	}

	if r.conf.MaxNodes > 0 && r.tree.Len() >= r.conf.MaxNodes {
		return errors.New("planning did not converge within the node limit").
			WithType(ErrTypeNotConverged).
			WithTag("iterations", r.iterations).
			WithTag("max_nodes", r.conf.MaxNodes)
	}
	return nil
}

func (r *run) sample() orb.Point {
	if r.rng.Float64() < r.conf.GoalBias {
		return r.centroid
	}

	width := r.world.Max[0] - r.world.Min[0]
	height := r.world.Max[1] - r.world.Min[1]

	if r.conf.Sampling == SamplingContinuous {
		return orb.Point{
			r.world.Min[0] + r.rng.Float64()*width,
			r.world.Min[1] + r.rng.Float64()*height,
		}
	}

	return orb.Point{
		r.world.Min[0] + float64(r.rng.IntN(int(width)+1)),
		r.world.Min[1] + float64(r.rng.IntN(int(height)+1)),
	}
}

func (r *run) progress() {
	p := Progress{
		Nodes:      r.tree.Len(),
		Iterations: r.iterations,
		Elapsed:    time.Since(r.startedAt),
	}

	if r.conf.OnProgress != nil {
		r.conf.OnProgress(p)
		return
	}

	logs.WithTag("nodes", p.Nodes).
		WithTag("iterations", p.Iterations).
		Debug("nodes searched")
}

func (r *run) report(err error) {
	outcome := outcomeReached
	switch {
	case errors.IsType(err, ErrTypeCanceled):
		outcome = outcomeCanceled
	case errors.IsType(err, ErrTypeNotConverged):
		outcome = outcomeNotConverged
	}
	instrumentPlan(outcome, r.iterations, r.tree.Len(), r.rejected)

	entry := logs.WithTag("outcome", outcome).
		WithTag("nodes", r.tree.Len()).
		WithTag("iterations", r.iterations).
		WithTag("duration", time.Since(r.startedAt).String())

	if err != nil {
		entry.Warn(err)
		return
	}
	entry.Info("planning finished")
}
