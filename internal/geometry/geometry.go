package geometry

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ErrTypeInvalidRegion is the error type returned by Region.Validate.
const ErrTypeInvalidRegion = "invalid-region"

// Region represents an axis-aligned rectangle used both as an obstacle and
// as the goal area. Min is the bottom-left corner.
type Region struct {
	Min    orb.Point `json:"min"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
}

// NewRegion creates a region from its bottom-left corner and its size.
func NewRegion(x, y, width, height float64) Region {
	return Region{
		Min:    orb.Point{x, y},
		Width:  width,
		Height: height,
	}
}

// RegionFromBound converts an orb bound into a region.
func RegionFromBound(b orb.Bound) Region {
	return Region{
		Min:    b.Min,
		Width:  b.Max[0] - b.Min[0],
		Height: b.Max[1] - b.Min[1],
	}
}

// Bound returns the closed box covered by the region.
func (r Region) Bound() orb.Bound {
	return orb.Bound{
		Min: r.Min,
		Max: orb.Point{r.Min[0] + r.Width, r.Min[1] + r.Height},
	}
}

// Centroid returns the center of the region.
func (r Region) Centroid() orb.Point {
	return orb.Point{r.Min[0] + r.Width/2, r.Min[1] + r.Height/2}
}

// Validate checks that the region has a finite corner and a positive size.
func (r Region) Validate() error {
	if !isFinite(r.Min[0]) || !isFinite(r.Min[1]) {
		return errors.New("region corner is not finite").
			WithType(ErrTypeInvalidRegion).
			WithTag("min", r.Min)
	}

	if !isFinite(r.Width) || !isFinite(r.Height) || r.Width <= 0 || r.Height <= 0 {
		return errors.New("region must have a positive width and height").
			WithType(ErrTypeInvalidRegion).
			WithTag("width", r.Width).
			WithTag("height", r.Height)
	}
	return nil
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// Contains reports whether the point lies inside the region. Both bounds are
// inclusive, so points on the boundary count as inside.
func Contains(region Region, point orb.Point) bool {
	return region.Bound().Contains(point)
}

// ContainsAny reports whether the point lies inside at least one region.
func ContainsAny(regions []Region, point orb.Point) bool {
	for _, region := range regions {
		if Contains(region, point) {
			return true
		}
	}
	return false
}

// Steer returns the point reached by moving from "from" toward "toward" by
// step, where the direction is normalized by the Manhattan length |dx|+|dy|.
// The Euclidean length of the move is therefore step only along the axes.
//
// from and toward must differ.
func Steer(from, toward orb.Point, step float64) orb.Point {
	dx := toward[0] - from[0]
	dy := toward[1] - from[1]
	totalOffset := math.Abs(dx) + math.Abs(dy)

	return orb.Point{
		from[0] + dx*step/totalOffset,
		from[1] + dy*step/totalOffset,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
