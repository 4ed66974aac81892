package geometry

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	require.Equal(t, 5.0, Distance(orb.Point{0, 0}, orb.Point{3, 4}))
	require.Equal(t, 5.0, Distance(orb.Point{3, 4}, orb.Point{0, 0}))
	require.Zero(t, Distance(orb.Point{7, -2}, orb.Point{7, -2}))
}

func TestContains(t *testing.T) {
	region := NewRegion(75, 75, 10, 10)
	const epsilon = 1e-6

	t.Run("corners and centroid are inside", func(t *testing.T) {
		bound := region.Bound()
		points := []orb.Point{
			bound.Min,
			{bound.Max[0], bound.Min[1]},
			bound.Max,
			{bound.Min[0], bound.Max[1]},
			region.Centroid(),
		}

		for _, p := range points {
			require.True(t, Contains(region, p), "point %v", p)
		}
	})

	t.Run("points beyond an edge are outside", func(t *testing.T) {
		points := []orb.Point{
			{75 - epsilon, 80},
			{85 + epsilon, 80},
			{80, 75 - epsilon},
			{80, 85 + epsilon},
		}

		for _, p := range points {
			require.False(t, Contains(region, p), "point %v", p)
		}
	})
}

func TestContainsAny(t *testing.T) {
	obstacles := []Region{
		NewRegion(0, 30, 80, 10),
		NewRegion(20, 60, 80, 10),
	}

	require.False(t, ContainsAny(nil, orb.Point{0, 0}))
	require.True(t, ContainsAny(obstacles, orb.Point{10, 35}))
	require.True(t, ContainsAny(obstacles, orb.Point{90, 65}))
	require.False(t, ContainsAny(obstacles, orb.Point{90, 35}))
	require.False(t, ContainsAny(obstacles, orb.Point{10, 65}))
}

func TestSteer(t *testing.T) {
	t.Run("manhattan normalized step", func(t *testing.T) {
		p := Steer(orb.Point{0, 0}, orb.Point{3, 1}, 2)
		require.InDelta(t, 1.5, p[0], 1e-12)
		require.InDelta(t, 0.5, p[1], 1e-12)
	})

	t.Run("diagonal step is shorter than step size", func(t *testing.T) {
		p := Steer(orb.Point{10, 10}, orb.Point{80, 80}, 1)
		require.Equal(t, orb.Point{10.5, 10.5}, p)
		require.Less(t, Distance(orb.Point{10, 10}, p), 1.0)
	})

	t.Run("step length property", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(1, 2))

		for i := 0; i < 1000; i++ {
			a := orb.Point{rng.Float64() * 100, rng.Float64() * 100}
			b := orb.Point{rng.Float64() * 100, rng.Float64() * 100}
			if a == b {
				continue
			}
			step := 0.1 + rng.Float64()*5

			p := Steer(a, b, step)
			require.InDelta(t, step, math.Abs(p[0]-a[0])+math.Abs(p[1]-a[1]), 1e-9)
		}
	})
}

func TestPureFunctions(t *testing.T) {
	region := NewRegion(1, 2, 3, 4)
	a := orb.Point{0.25, 9}
	b := orb.Point{7, -3}

	for i := 0; i < 3; i++ {
		require.Equal(t, Distance(a, b), Distance(a, b))
		require.Equal(t, Contains(region, a), Contains(region, a))
		require.Equal(t, Steer(a, b, 0.5), Steer(a, b, 0.5))
	}
}

func TestRegionValidate(t *testing.T) {
	tests := []struct {
		name   string
		region Region
		valid  bool
	}{
		{name: "valid", region: NewRegion(0, 0, 1, 1), valid: true},
		{name: "zero width", region: NewRegion(0, 0, 0, 1)},
		{name: "negative height", region: NewRegion(0, 0, 1, -1)},
		{name: "nan corner", region: NewRegion(math.NaN(), 0, 1, 1)},
		{name: "infinite size", region: NewRegion(0, 0, math.Inf(1), 1)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.region.Validate()
			if test.valid {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, errors.IsType(err, ErrTypeInvalidRegion))
		})
	}
}

func TestRegionFromBound(t *testing.T) {
	region := NewRegion(20, 60, 80, 10)
	require.Equal(t, region, RegionFromBound(region.Bound()))
	require.Equal(t, orb.Point{60, 65}, region.Centroid())
}
