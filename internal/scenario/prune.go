package scenario

import (
	"github.com/aukilabs/go-tooling/pkg/logs"

	"rrt-planner/internal/geometry"
)

// PruneContained removes the obstacles that lie fully inside another
// obstacle. Of identical obstacles, only the first is kept. Pruning does not
// change which points are blocked.
func PruneContained(regions []geometry.Region) []geometry.Region {
	if len(regions) <= 1 {
		return regions
	}

	result := make([]geometry.Region, 0, len(regions))
	for i, region := range regions {
		if !isContainedInOther(regions, i) {
			result = append(result, region)
		}
	}

	if removed := len(regions) - len(result); removed > 0 {
		logs.WithTag("obstacles", len(result)).
			WithTag("removed", removed).
			Debug("contained obstacles pruned")
	}
	return result
}

func isContainedInOther(regions []geometry.Region, i int) bool {
	for j, other := range regions {
		if i == j || !isRegionContainedIn(regions[i], other) {
			continue
		}

		// Identical regions contain each other.
		if regions[i] == other && j > i {
			continue
		}
		return true
	}
	return false
}

func isRegionContainedIn(inner, outer geometry.Region) bool {
	b := outer.Bound()
	return b.Contains(inner.Min) && b.Contains(inner.Bound().Max)
}
