package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/paulmach/orb"
	"github.com/segmentio/encoding/json"

	"rrt-planner/internal/planner"
	"rrt-planner/internal/scenario"
	"rrt-planner/internal/server"
)

// The version number. Set at build.
var version = "v0.1.0"

type config struct {
	Scenario         string        `cli:""        env:"RRT_SCENARIO"          help:"Scenario JSON file. The reference scenario is used when empty."`
	ObstaclesGeoJSON string        `cli:""        env:"RRT_OBSTACLES_GEOJSON" help:"Glob pattern of GeoJSON files whose features are added as obstacles."`
	Output           string        `cli:""        env:"RRT_OUTPUT"            help:"GeoJSON result file. The result is written to stdout when empty."`
	SaveScenario     string        `cli:""        env:"RRT_SAVE_SCENARIO"     help:"Writes the scenario, loaded obstacles included, to a JSON file."`
	Seed             int           `cli:""        env:"RRT_SEED"              help:"Random seed. 0 picks a random seed."`
	MaxIterations    int           `cli:""        env:"RRT_MAX_ITERATIONS"    help:"The maximum number of planning iterations."`
	Index            string        `cli:""        env:"RRT_INDEX"             help:"Spatial index (linear|rtree). Defaults to rtree, unlike the library default."`
	EdgeCheck        bool          `cli:""        env:"RRT_EDGE_CHECK"        help:"Rejects tree edges that touch an obstacle."`
	Shortcut         bool          `cli:""        env:"RRT_SHORTCUT"          help:"Shortcuts the path before writing it."`
	Serve            bool          `cli:""        env:"RRT_SERVE"             help:"Serves the planning HTTP API instead of planning once."`
	Addr             string        `cli:""        env:"RRT_ADDR"              help:"Listening address of the HTTP API."`
	Timeout          time.Duration `cli:",hidden" env:"RRT_TIMEOUT"           help:"The maximum duration of an HTTP plan request."`
	ProgressInterval int           `cli:",hidden" env:"RRT_PROGRESS_INTERVAL" help:"The number of added nodes between progress logs."`
	LogLevel         string        `cli:""        env:"RRT_LOG_LEVEL"         help:"Log level (debug|info|warning|error)."`
	LogIndent        bool          `cli:""        env:"RRT_LOG_INDENT"        help:"Indent logs."`
	Version          bool          `cli:""        env:"-"                     help:"Show version."`
	Help             bool          `cli:""        env:"-"                     help:"Show help."`
}

// defaultConfig returns the command defaults. The command plans with the
// R-tree index, while planner.DefaultConfig keeps the linear scan.
func defaultConfig() config {
	return config{
		MaxIterations:    planner.DefaultMaxIterations,
		Index:            string(planner.IndexRTree),
		Addr:             ":8080",
		Timeout:          time.Minute,
		ProgressInterval: 1000,
		LogLevel:         logs.InfoLevel.String(),
	}
}

func main() {
	conf := defaultConfig()

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Plans collision free paths with a rapidly-exploring random tree.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	base, err := plannerConfig(conf)
	if err != nil {
		logs.Fatal(err)
	}

	if conf.Serve {
		logs.WithTag("version", version).
			WithTag("log_level", conf.LogLevel).
			WithTag("index", base.Index).
			Info("starting rrt planner server")

		server.ListenAndServe(ctx, &http.Server{
			Addr: conf.Addr,
			Handler: metrics.HTTPHandler(&server.Handler{
				Config:  base,
				Timeout: conf.Timeout,
			}, server.MetricsPathFormatter),
		})
		return
	}

	if err := planOnce(ctx, conf, base); err != nil {
		logs.Fatal(err)
	}
}

func plannerConfig(conf config) (planner.Config, error) {
	base := planner.DefaultConfig()
	base.MaxIterations = conf.MaxIterations
	base.Index = planner.IndexKind(conf.Index)
	base.EdgeCheck = conf.EdgeCheck
	base.Seed = uint64(conf.Seed)
	base.ProgressInterval = conf.ProgressInterval
	base.OnProgress = func(p planner.Progress) {
		logs.WithTag("nodes", p.Nodes).
			WithTag("iterations", p.Iterations).
			WithTag("elapsed", p.Elapsed.String()).
			Info("nodes searched")
	}

	if err := base.Validate(); err != nil {
		return planner.Config{}, errors.New("invalid planner configuration").Wrap(err)
	}
	return base, nil
}

func planOnce(ctx context.Context, conf config, base planner.Config) error {
	s, err := loadScenario(conf)
	if err != nil {
		return err
	}

	tree, planErr := s.Plan(ctx, base)
	if tree == nil {
		return planErr
	}

	var path []orb.Point
	if planErr == nil {
		path = tree.Path()
		if conf.Shortcut {
			path = planner.Shortcut(path, planner.NewObstacles(s.Obstacles, s.Config(base).Index))
		}

		logs.WithTag("waypoints", len(path)).
			WithTag("length", planner.PathLength(path)).
			Info("path found")
	}

	data, err := scenario.ResultFeatureCollection(s, tree, path).MarshalJSON()
	if err != nil {
		return errors.New("encoding result failed").Wrap(err)
	}

	if conf.Output == "" {
		data = append(data, '\n')
		if _, err := os.Stdout.Write(data); err != nil {
			return errors.New("writing result failed").Wrap(err)
		}
	} else if err := os.WriteFile(conf.Output, data, 0644); err != nil {
		return errors.New("writing result failed").
			WithTag("filename", conf.Output).
			Wrap(err)
	}

	return planErr
}

func loadScenario(conf config) (scenario.Scenario, error) {
	s := scenario.Reference()
	if conf.Scenario != "" {
		var err error
		if s, err = scenario.Load(conf.Scenario); err != nil {
			return scenario.Scenario{}, err
		}
	}

	if conf.ObstaclesGeoJSON != "" {
		obstacles, err := scenario.LoadObstaclesGeoJSON(conf.ObstaclesGeoJSON)
		if err != nil {
			return scenario.Scenario{}, err
		}
		s.Obstacles = append(s.Obstacles, obstacles...)
	}
	s.Obstacles = scenario.PruneContained(s.Obstacles)

	if conf.SaveScenario != "" {
		if err := scenario.Save(s, conf.SaveScenario); err != nil {
			return scenario.Scenario{}, err
		}
	}

	logs.WithTag("name", s.Name).
		WithTag("obstacles", len(s.Obstacles)).
		Info("scenario loaded")
	return s, nil
}
