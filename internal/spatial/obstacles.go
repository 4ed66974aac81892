package spatial

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"rrt-planner/internal/geometry"
)

// queryTolerance is the half side of the box used to query a single point.
// Candidates are confirmed with an exact containment test, so it only has to
// be positive.
const queryTolerance = 1e-9

// ObstacleEntry wraps an obstacle region for R-tree storage.
type ObstacleEntry struct {
	Region geometry.Region
	BBox   rtreego.Rect
}

// Bounds implements rtreego.Spatial interface.
func (o *ObstacleEntry) Bounds() rtreego.Rect {
	return o.BBox
}

// ObstacleIndex answers point-in-obstacle queries through an R-tree.
type ObstacleIndex struct {
	tree *rtreego.Rtree
}

// NewObstacleIndex creates a new obstacle index. Regions without a positive
// size cannot be stored in the R-tree and are skipped; callers validate
// regions beforehand.
func NewObstacleIndex(regions []geometry.Region) *ObstacleIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, region := range regions {
		bbox, err := regionRect(region)
		if err != nil {
			continue
		}

		tree.Insert(&ObstacleEntry{
			Region: region,
			BBox:   bbox,
		})
	}

	return &ObstacleIndex{tree: tree}
}

// Len returns the number of indexed obstacles.
func (oi *ObstacleIndex) Len() int {
	return oi.tree.Size()
}

// Contains reports whether the point lies inside at least one obstacle,
// boundaries included.
func (oi *ObstacleIndex) Contains(point orb.Point) bool {
	for _, item := range oi.tree.SearchIntersect(pointRect(point)) {
		if geometry.Contains(item.(*ObstacleEntry).Region, point) {
			return true
		}
	}
	return false
}

// SegmentClear checks if the segment between a and b avoids every obstacle.
// Only obstacles whose box meets the segment's box are tested exactly.
func (oi *ObstacleIndex) SegmentClear(a, b orb.Point) bool {
	candidates := oi.QueryRegion(orb.Bound{Min: a, Max: a}.Extend(b))
	return geometry.SegmentClear(a, b, candidates)
}

// QueryRegion returns the obstacles that intersect with the given box,
// touching edges included.
func (oi *ObstacleIndex) QueryRegion(bound orb.Bound) []geometry.Region {
	bbox, err := rtreego.NewRect(
		rtreego.Point{bound.Min[0] - queryTolerance, bound.Min[1] - queryTolerance},
		[]float64{
			bound.Max[0] - bound.Min[0] + 2*queryTolerance,
			bound.Max[1] - bound.Min[1] + 2*queryTolerance,
		},
	)
	if err != nil {
		return []geometry.Region{}
	}

	results := oi.tree.SearchIntersect(bbox)
	regions := make([]geometry.Region, 0, len(results))
	for _, item := range results {
		regions = append(regions, item.(*ObstacleEntry).Region)
	}
	return regions
}

func regionRect(region geometry.Region) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{region.Min[0], region.Min[1]},
		[]float64{region.Width, region.Height},
	)
}

func pointRect(point orb.Point) rtreego.Rect {
	return rtreego.Point{point[0], point[1]}.ToRect(queryTolerance)
}
