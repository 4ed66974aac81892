package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"

	"rrt-planner/internal/geometry"
	"rrt-planner/internal/planner"
)

const obstaclesGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"name": "wall"},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[0, 30], [80, 30], [80, 40], [0, 40], [0, 30]]]
			}
		},
		{
			"type": "Feature",
			"properties": {},
			"geometry": {
				"type": "MultiPolygon",
				"coordinates": [
					[[[20, 60], [50, 60], [50, 70], [20, 60]]],
					[[[60, 65], [100, 65], [100, 68], [60, 65]]]
				]
			}
		},
		{
			"type": "Feature",
			"properties": {},
			"geometry": {"type": "LineString", "coordinates": [[10, 10], [12, 15]]}
		},
		{
			"type": "Feature",
			"properties": {},
			"geometry": {"type": "Point", "coordinates": [5, 5]}
		},
		{
			"type": "Feature",
			"properties": {},
			"geometry": {"type": "LineString", "coordinates": [[10, 90], [40, 90]]}
		}
	]
}`

func TestParseObstaclesGeoJSON(t *testing.T) {
	regions, err := ParseObstaclesGeoJSON([]byte(obstaclesGeoJSON))
	require.NoError(t, err)
	require.Equal(t, []geometry.Region{
		geometry.NewRegion(0, 30, 80, 10),
		geometry.NewRegion(20, 60, 80, 10),
		geometry.NewRegion(10, 10, 2, 5),
	}, regions)
}

func TestParseObstaclesGeoJSONError(t *testing.T) {
	_, err := ParseObstaclesGeoJSON([]byte(`{"type": "FeatureCollection", "features": [`))
	require.Error(t, err)
}

func TestLoadObstaclesGeoJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.geojson"), []byte(obstaclesGeoJSON), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.geojson"), []byte(`{
		"type": "FeatureCollection",
		"features": [{
			"type": "Feature",
			"properties": {},
			"geometry": {"type": "Polygon", "coordinates": [[[1, 1], [2, 1], [2, 2], [1, 2], [1, 1]]]}
		}]
	}`), 0644))

	regions, err := LoadObstaclesGeoJSON(filepath.Join(dir, "*.geojson"))
	require.NoError(t, err)
	require.Len(t, regions, 4)
	require.Equal(t, geometry.NewRegion(1, 1, 1, 1), regions[3])

	regions, err = LoadObstaclesGeoJSON(filepath.Join(dir, "b.geojson"))
	require.NoError(t, err)
	require.Len(t, regions, 1)

	_, err = LoadObstaclesGeoJSON(filepath.Join(dir, "*.json"))
	require.Error(t, err)
}

func TestResultFeatureCollection(t *testing.T) {
	s := Reference()
	s.Settings.Seed = 42
	s.Settings.Index = planner.IndexRTree

	tree, err := s.Plan(context.Background(), planner.DefaultConfig())
	require.NoError(t, err)

	path := tree.Path()
	fc := ResultFeatureCollection(s, tree, path)

	kinds := make(map[string]int)
	for _, f := range fc.Features {
		kinds[f.Properties.MustString("kind")]++
	}
	require.Equal(t, map[string]int{
		KindWorld:    1,
		KindObstacle: len(s.Obstacles),
		KindGoal:     1,
		KindStart:    1,
		KindTree:     1,
		KindPath:     1,
	}, kinds)

	data, err := fc.MarshalJSON()
	require.NoError(t, err)

	decoded, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, decoded.Features, len(fc.Features))

	for _, f := range decoded.Features {
		switch f.Properties.MustString("kind") {
		case KindTree:
			require.Len(t, f.Geometry.(orb.MultiLineString), tree.Len()-1)
			require.Equal(t, float64(tree.Len()), f.Properties.MustFloat64("nodes"))

		case KindPath:
			line := f.Geometry.(orb.LineString)
			require.Equal(t, s.Start, line[0])
			require.True(t, geometry.Contains(s.Goal, line[len(line)-1]))

		case KindGoal:
			require.Equal(t, s.Goal.Bound(), f.Geometry.Bound())
		}
	}
}

func TestResultFeatureCollectionWithoutResult(t *testing.T) {
	s := Reference()
	s.World = nil

	fc := ResultFeatureCollection(s, nil, nil)
	require.Len(t, fc.Features, len(s.Obstacles)+2)
}
