package spatial

import (
	"math/rand/v2"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"rrt-planner/internal/geometry"
)

func TestObstacleIndex(t *testing.T) {
	obstacles := []geometry.Region{
		geometry.NewRegion(0, 30, 80, 10),
		geometry.NewRegion(20, 60, 80, 10),
		geometry.NewRegion(45, 45, 5, 5),
	}
	index := NewObstacleIndex(obstacles)
	require.Equal(t, 3, index.Len())

	t.Run("boundary points are inside", func(t *testing.T) {
		require.True(t, index.Contains(orb.Point{0, 30}))
		require.True(t, index.Contains(orb.Point{80, 40}))
		require.True(t, index.Contains(orb.Point{50, 50}))
		require.False(t, index.Contains(orb.Point{80.001, 40}))
	})

	t.Run("agrees with a linear scan", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(3, 4))

		for i := 0; i < 2000; i++ {
			p := orb.Point{float64(rng.IntN(101)), float64(rng.IntN(101))}
			require.Equal(t, geometry.ContainsAny(obstacles, p), index.Contains(p), "point %v", p)
		}
	})

	t.Run("segment clearance", func(t *testing.T) {
		require.True(t, index.SegmentClear(orb.Point{90, 20}, orb.Point{90, 50}))
		require.False(t, index.SegmentClear(orb.Point{40, 20}, orb.Point{40, 50}))
		require.False(t, index.SegmentClear(orb.Point{40, 50}, orb.Point{60, 50}))
	})

	t.Run("query region", func(t *testing.T) {
		regions := index.QueryRegion(orb.Bound{Min: orb.Point{85, 0}, Max: orb.Point{95, 100}})
		require.Len(t, regions, 1)
		require.Equal(t, obstacles[1], regions[0])
	})

	t.Run("degenerate regions are skipped", func(t *testing.T) {
		index := NewObstacleIndex([]geometry.Region{geometry.NewRegion(0, 0, 0, 10)})
		require.Zero(t, index.Len())
		require.False(t, index.Contains(orb.Point{0, 5}))
	})
}

func TestNodeIndex(t *testing.T) {
	t.Run("empty index", func(t *testing.T) {
		index := NewNodeIndex()
		id, _, ok := index.Nearest(orb.Point{1, 1})
		require.False(t, ok)
		require.Equal(t, -1, id)
	})

	t.Run("agrees with a linear scan", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(5, 6))
		index := NewNodeIndex()
		points := make([]orb.Point, 0, 300)

		for i := 0; i < 300; i++ {
			p := orb.Point{rng.Float64() * 100, rng.Float64() * 100}
			points = append(points, p)
			index.Insert(i, p)
		}
		require.Equal(t, len(points), index.Len())

		for i := 0; i < 300; i++ {
			query := orb.Point{rng.Float64() * 100, rng.Float64() * 100}

			best := 0
			for j := range points {
				if geometry.Distance(points[j], query) < geometry.Distance(points[best], query) {
					best = j
				}
			}

			id, p, ok := index.Nearest(query)
			require.True(t, ok)
			require.Equal(t, points[id], p)
			require.Equal(t, geometry.Distance(points[best], query), geometry.Distance(p, query))
		}
	})

	t.Run("ties go to the lowest id", func(t *testing.T) {
		index := NewNodeIndex()
		index.Insert(0, orb.Point{0, 0})
		index.Insert(1, orb.Point{2, 0})

		id, _, ok := index.Nearest(orb.Point{1, 0})
		require.True(t, ok)
		require.Equal(t, 0, id)
	})

	t.Run("ties among many equidistant nodes", func(t *testing.T) {
		circle := []orb.Point{
			{5, 0}, {0, 5}, {-5, 0}, {0, -5},
			{3, 4}, {4, 3}, {-3, 4}, {-4, 3},
			{3, -4}, {4, -3}, {-3, -4}, {-4, -3},
		}

		index := NewNodeIndex()
		for i, p := range circle {
			index.Insert(len(circle)-1-i, p)
		}
		index.Insert(len(circle), orb.Point{50, 50})

		id, p, ok := index.Nearest(orb.Point{0, 0})
		require.True(t, ok)
		require.Equal(t, 0, id)
		require.Equal(t, circle[len(circle)-1], p)
	})

	t.Run("ties among duplicated nodes", func(t *testing.T) {
		index := NewNodeIndex()
		for id := 9; id >= 0; id-- {
			index.Insert(id, orb.Point{10, 10})
		}

		id, _, ok := index.Nearest(orb.Point{12, 12})
		require.True(t, ok)
		require.Equal(t, 0, id)
	})
}
