package planner

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Shortcut reduces the number of waypoints of a path by replacing runs of
// waypoints with straight segments wherever the segment stays clear of the
// obstacles. The first and last points are kept, and every newly
// added segment is clear. Where no shortcut exists the original edge is
// kept. Paths of two points or fewer are returned as is.
func Shortcut(path []orb.Point, obstacles Obstacles) []orb.Point {
	if len(path) <= 2 {
		return path
	}

	result := []orb.Point{path[0]}
	for i := 0; i < len(path)-1; {
		// Farthest waypoint reachable in a straight line.
		next := i + 1
		for j := len(path) - 1; j > next; j-- {
			if obstacles.SegmentClear(path[i], path[j]) {
				next = j
				break
			}
		}

		result = append(result, path[next])
		i = next
	}

	return result
}

// PathLength returns the Euclidean length of a path.
func PathLength(path []orb.Point) float64 {
	return planar.Length(orb.LineString(path))
}
