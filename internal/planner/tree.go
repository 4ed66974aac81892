package planner

import (
	"github.com/paulmach/orb"

	"rrt-planner/internal/geometry"
)

// Node represents a node of the planning tree. ID is the creation index and
// Parent is the id of the node it was grown from. The root is its own
// parent.
type Node struct {
	ID     int       `json:"id"`
	Pos    orb.Point `json:"pos"`
	Parent int       `json:"parent"`
}

// IsRoot reports whether the node is the root of its tree.
func (n Node) IsRoot() bool {
	return n.ID == 0
}

// Tree is the append-only list of nodes grown by Plan, indexed by id. Every
// non-root node has a parent with a smaller id, so parent chains always end
// at the root.
type Tree struct {
	Nodes []Node `json:"nodes"`

	// The number of loop iterations spent growing the tree, rejected samples
	// included.
	Iterations int `json:"iterations"`
}

func newTree(start orb.Point) *Tree {
	return &Tree{
		Nodes: []Node{{ID: 0, Pos: start, Parent: 0}},
	}
}

func (t *Tree) add(pos orb.Point, parent int) Node {
	node := Node{
		ID:     len(t.Nodes),
		Pos:    pos,
		Parent: parent,
	}
	t.Nodes = append(t.Nodes, node)
	return node
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.Nodes)
}

// Root returns the node at the start position.
func (t *Tree) Root() Node {
	return t.Nodes[0]
}

// Last returns the most recently added node. On a successful run, it is the
// node that reached the goal.
func (t *Tree) Last() Node {
	return t.Nodes[len(t.Nodes)-1]
}

// Node returns the node with the given id.
func (t *Tree) Node(id int) (Node, bool) {
	if id < 0 || id >= len(t.Nodes) {
		return Node{}, false
	}
	return t.Nodes[id], true
}

// Reached reports whether the last node lies inside the goal region.
func (t *Tree) Reached(goal geometry.Region) bool {
	return t.Len() > 1 && geometry.Contains(goal, t.Last().Pos)
}

// PathTo returns the positions from the root to the node with the given id.
// It returns nil when the id is unknown.
func (t *Tree) PathTo(id int) []orb.Point {
	node, ok := t.Node(id)
	if !ok {
		return nil
	}

	path := []orb.Point{node.Pos}
	for !node.IsRoot() {
		node = t.Nodes[node.Parent]
		path = append(path, node.Pos)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Path returns the positions from the root to the last node.
func (t *Tree) Path() []orb.Point {
	return t.PathTo(t.Len() - 1)
}

// Segments returns every tree edge as a two point line string, from the
// parent to the child, for visualization.
func (t *Tree) Segments() []orb.LineString {
	lines := make([]orb.LineString, 0, len(t.Nodes)-1)
	for _, node := range t.Nodes[1:] {
		parent := t.Nodes[node.Parent]
		lines = append(lines, orb.LineString{parent.Pos, node.Pos})
	}
	return lines
}

// nearest returns the node closest to the point, keeping the first minimum
// in id order.
func (t *Tree) nearest(point orb.Point) Node {
	nearest := t.Nodes[0]
	minDist := geometry.Distance(nearest.Pos, point)

	for _, node := range t.Nodes[1:] {
		if dist := geometry.Distance(node.Pos, point); dist < minDist {
			minDist = dist
			nearest = node
		}
	}
	return nearest
}
