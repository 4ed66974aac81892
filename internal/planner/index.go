package planner

import (
	"github.com/paulmach/orb"

	"rrt-planner/internal/geometry"
	"rrt-planner/internal/spatial"
)

// Obstacles answers the collision queries made while planning and
// shortcutting.
type Obstacles interface {
	Contains(point orb.Point) bool
	SegmentClear(a, b orb.Point) bool
}

// NewObstacles returns the obstacle lookup matching the index kind.
func NewObstacles(regions []geometry.Region, kind IndexKind) Obstacles {
	if kind == IndexRTree {
		return spatial.NewObstacleIndex(regions)
	}
	return obstacleList(regions)
}

type obstacleList []geometry.Region

func (l obstacleList) Contains(point orb.Point) bool {
	return geometry.ContainsAny(l, point)
}

func (l obstacleList) SegmentClear(a, b orb.Point) bool {
	return geometry.SegmentClear(a, b, l)
}

// nearestFinder finds the node closest to a sample.
type nearestFinder interface {
	insert(node Node)
	nearest(point orb.Point) Node
}

func newNearestFinder(tree *Tree, kind IndexKind) nearestFinder {
	if kind == IndexRTree {
		f := &rtreeFinder{tree: tree, index: spatial.NewNodeIndex()}
		for _, node := range tree.Nodes {
			f.insert(node)
		}
		return f
	}
	return linearFinder{tree: tree}
}

type linearFinder struct {
	tree *Tree
}

func (f linearFinder) insert(Node) {}

func (f linearFinder) nearest(point orb.Point) Node {
	return f.tree.nearest(point)
}

type rtreeFinder struct {
	tree  *Tree
	index *spatial.NodeIndex
}

func (f *rtreeFinder) insert(node Node) {
	f.index.Insert(node.ID, node.Pos)
}

func (f *rtreeFinder) nearest(point orb.Point) Node {
	id, _, ok := f.index.Nearest(point)
	if !ok {
		return f.tree.nearest(point)
	}
	return f.tree.Nodes[id]
}
