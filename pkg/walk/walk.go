// Package walk visits every scalar of a document tree, depth-first or
// breadth-first, and reports each one together with its Key.
//
// Both orders visit the same set of (path, value) pairs; only the sequence
// differs. A visitor stops a walk early by returning false, in which case the
// walk function returns false as well.
package walk

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
)

// Visitor receives each scalar with its path. The path is nil when the
// document root is itself a scalar. Returning false stops the walk.
type Visitor func(path *Key, value tree.Scalar) bool

// Order selects the traversal order.
type Order string

const (
	DepthFirstOrder   Order = "depth-first"
	BreadthFirstOrder Order = "breadth-first"
)

// ParseOrder accepts "dfs", "depth-first", "bfs" and "breadth-first",
// case-insensitively. The empty string means depth-first.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dfs", "depth", "depth-first":
		return DepthFirstOrder, nil
	case "bfs", "breadth", "breadth-first":
		return BreadthFirstOrder, nil
	default:
		return "", fmt.Errorf("unknown traversal order %q (want dfs or bfs)", s)
	}
}

// Walk runs the traversal selected by order. It returns true if every scalar
// was visited.
func Walk(root tree.Node, order Order, visit Visitor) (bool, error) {
	switch order {
	case DepthFirstOrder, "":
		return DepthFirst(root, visit), nil
	case BreadthFirstOrder:
		return BreadthFirst(root, visit), nil
	default:
		return false, fmt.Errorf("unknown traversal order %q", order)
	}
}

// DepthFirst visits scalars by recursive descent: object members in document
// order, array elements by ascending index. It returns false if visit asked
// to stop.
func DepthFirst(root tree.Node, visit Visitor) bool {
	return depthFirst(root, nil, visit)
}

func depthFirst(node tree.Node, path *Key, visit Visitor) bool {
	switch n := tree.Deref(node).(type) {
	case *tree.Object:
		for i := 0; i < n.Len(); i++ {
			m := n.At(i)
			if !depthFirst(m.Value, Field(path, m.Key), visit) {
				return false
			}
		}
	case tree.Array:
		for i, child := range n {
			if !depthFirst(child, Index(path, i), visit) {
				return false
			}
		}
	case tree.Scalar:
		return visit(path, n)
	}
	return true
}

type pending struct {
	node tree.Node
	path *Key
}

// BreadthFirst visits scalars in FIFO order. Dequeuing a container appends
// its children to the back of the queue; dequeuing a scalar calls visit. It
// returns false if visit asked to stop, leaving the rest of the queue unread.
func BreadthFirst(root tree.Node, visit Visitor) bool {
	queue := []pending{{node: root}}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		queue[head] = pending{}
		switch n := tree.Deref(cur.node).(type) {
		case *tree.Object:
			for i := 0; i < n.Len(); i++ {
				m := n.At(i)
				queue = append(queue, pending{node: m.Value, path: Field(cur.path, m.Key)})
			}
		case tree.Array:
			for i, child := range n {
				queue = append(queue, pending{node: child, path: Index(cur.path, i)})
			}
		case tree.Scalar:
			if !visit(cur.path, n) {
				return false
			}
		}
		// Reclaim the consumed prefix once it dominates the backing array.
		if head > 1024 && head*2 > len(queue) {
			queue = append(queue[:0], queue[head+1:]...)
			head = -1
		}
	}
	return true
}
