package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// SegmentIntersects checks if the segment between a and b touches the closed
// region.
func SegmentIntersects(a, b orb.Point, region Region) bool {
	if Contains(region, a) || Contains(region, b) {
		return true
	}

	bound := region.Bound()
	corners := [4]orb.Point{
		bound.Min,
		{bound.Max[0], bound.Min[1]},
		bound.Max,
		{bound.Min[0], bound.Max[1]},
	}

	for i := range corners {
		if segmentsIntersect(a, b, corners[i], corners[(i+1)%len(corners)]) {
			return true
		}
	}
	return false
}

// SegmentClear checks if a straight move between a and b avoids all regions.
func SegmentClear(a, b orb.Point, regions []Region) bool {
	for _, region := range regions {
		if SegmentIntersects(a, b, region) {
			return false
		}
	}
	return true
}

// segmentsIntersect checks if segments p1p2 and p3p4 share at least one point.
func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 orb.Point) float64 {
	return (p3[0]-p1[0])*(p2[1]-p1[1]) - (p2[0]-p1[0])*(p3[1]-p1[1])
}

// onSegment checks if point q lies within the bounding box of segment pr
func onSegment(p, r, q orb.Point) bool {
	return q[0] <= math.Max(p[0], r[0]) && q[0] >= math.Min(p[0], r[0]) &&
		q[1] <= math.Max(p[1], r[1]) && q[1] >= math.Min(p[1], r[1])
}
