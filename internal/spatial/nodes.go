package spatial

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"rrt-planner/internal/geometry"
)

// nearestCandidates is how many R-tree neighbours are compared exactly when
// looking up the nearest node.
const nearestCandidates = 4

// nodeTolerance is the half side of the box stored for each node.
const nodeTolerance = 1e-6

// NodeEntry is a tree node stored in the node index.
type NodeEntry struct {
	ID    int
	Point orb.Point
}

// Bounds returns a small box around the node point for rtreego.
func (n *NodeEntry) Bounds() rtreego.Rect {
	return rtreego.Point{n.Point[0], n.Point[1]}.ToRect(nodeTolerance)
}

// NodeIndex finds the tree node nearest to a point through an R-tree.
type NodeIndex struct {
	tree *rtreego.Rtree
}

// NewNodeIndex creates an empty node index.
func NewNodeIndex() *NodeIndex {
	return &NodeIndex{tree: rtreego.NewTree(2, 25, 50)}
}

// Insert adds a node to the index.
func (ni *NodeIndex) Insert(id int, point orb.Point) {
	ni.tree.Insert(&NodeEntry{ID: id, Point: point})
}

// Len returns the number of indexed nodes.
func (ni *NodeIndex) Len() int {
	return ni.tree.Size()
}

// Nearest returns the id and position of the node closest to the point by
// Euclidean distance, ties going to the lowest id. The R-tree ranks nodes by
// distance to their boxes, so candidates are compared exactly and the
// search widens until no node left out can be as close as the best one. It
// returns false when the index is empty.
func (ni *NodeIndex) Nearest(point orb.Point) (int, orb.Point, bool) {
	size := ni.tree.Size()
	if size == 0 {
		return -1, orb.Point{}, false
	}

	for k := nearestCandidates; ; k *= 2 {
		best, bestDist, farthest, found := ni.nearestAmong(k, point)
		if best == nil {
			return -1, orb.Point{}, false
		}

		// Nodes left out are at least as far as the farthest candidate's box.
		if found < k || k >= size || farthest-2*nodeTolerance > bestDist {
			return best.ID, best.Point, true
		}
	}
}

// nearestAmong compares the k nearest R-tree candidates exactly. It returns
// the best entry, its distance, the distance of the last ranked candidate
// and the number of candidates found.
func (ni *NodeIndex) nearestAmong(k int, point orb.Point) (*NodeEntry, float64, float64, int) {
	candidates := ni.tree.NearestNeighbors(k, rtreego.Point{point[0], point[1]})

	var best *NodeEntry
	bestDist := math.MaxFloat64
	farthest := 0.0
	found := 0

	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		found++

		entry := candidate.(*NodeEntry)
		dist := geometry.Distance(entry.Point, point)
		farthest = dist
		if best == nil || dist < bestDist || (dist == bestDist && entry.ID < best.ID) {
			best = entry
			bestDist = dist
		}
	}
	return best, bestDist, farthest, found
}
