package scenario

import (
	"os"
	"path/filepath"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"rrt-planner/internal/geometry"
	"rrt-planner/internal/planner"
)

// Feature kinds set in the "kind" property of exported features.
const (
	KindWorld    = "world"
	KindObstacle = "obstacle"
	KindGoal     = "goal"
	KindStart    = "start"
	KindTree     = "tree"
	KindPath     = "path"
)

// LoadObstaclesGeoJSON loads the obstacles of every GeoJSON feature
// collection file matching the glob pattern. See ParseObstaclesGeoJSON.
func LoadObstaclesGeoJSON(pattern string) ([]geometry.Region, error) {
	filenames, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.New("invalid obstacle file pattern").
			WithTag("pattern", pattern).
			Wrap(err)
	}
	if len(filenames) == 0 {
		return nil, errors.New("no obstacle file found").
			WithTag("pattern", pattern)
	}

	var obstacles []geometry.Region
	for _, filename := range filenames {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, errors.New("reading obstacle file failed").
				WithTag("filename", filename).
				Wrap(err)
		}

		regions, err := ParseObstaclesGeoJSON(data)
		if err != nil {
			return nil, errors.New("parsing obstacle file failed").
				WithTag("filename", filename).
				Wrap(err)
		}

		logs.WithTag("filename", filepath.Base(filename)).
			WithTag("obstacles", len(regions)).
			Info("obstacles loaded")
		obstacles = append(obstacles, regions...)
	}
	return obstacles, nil
}

// ParseObstaclesGeoJSON turns each feature of a GeoJSON feature collection
// into the rectangle bounding its geometry. Features without a geometry and
// features whose bounding rectangle has no area, such as points or axis
// aligned lines, are skipped.
func ParseObstaclesGeoJSON(data []byte) ([]geometry.Region, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.New("decoding feature collection failed").Wrap(err)
	}

	regions := make([]geometry.Region, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			logs.WithTag("feature", i).Warn("skipping feature without geometry")
			continue
		}

		region := geometry.RegionFromBound(f.Geometry.Bound())
		if err := region.Validate(); err != nil {
			logs.Warn(errors.New("skipping degenerate obstacle").
				WithTag("feature", i).
				WithTag("geometry", f.Geometry.GeoJSONType()).
				Wrap(err))
			continue
		}
		regions = append(regions, region)
	}
	return regions, nil
}

// ResultFeatureCollection exports a scenario and its planning result as
// GeoJSON. The tree and the path are omitted when nil.
func ResultFeatureCollection(s Scenario, tree *planner.Tree, path []orb.Point) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if s.World != nil {
		fc.Append(regionFeature(*s.World, KindWorld))
	}

	for i, obstacle := range s.Obstacles {
		f := regionFeature(obstacle, KindObstacle)
		f.Properties["index"] = i
		fc.Append(f)
	}

	fc.Append(regionFeature(s.Goal, KindGoal))

	start := geojson.NewFeature(s.Start)
	start.Properties["kind"] = KindStart
	fc.Append(start)

	if tree != nil {
		segments := tree.Segments()
		f := geojson.NewFeature(orb.MultiLineString(segments))
		f.Properties["kind"] = KindTree
		f.Properties["nodes"] = tree.Len()
		fc.Append(f)
	}

	if len(path) > 1 {
		f := geojson.NewFeature(orb.LineString(path))
		f.Properties["kind"] = KindPath
		f.Properties["waypoints"] = len(path)
		f.Properties["length"] = planner.PathLength(path)
		fc.Append(f)
	}

	return fc
}

func regionFeature(r geometry.Region, kind string) *geojson.Feature {
	f := geojson.NewFeature(r.Bound().ToPolygon())
	f.Properties["kind"] = kind
	return f
}
