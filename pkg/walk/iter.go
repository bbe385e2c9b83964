package walk

import (
	"iter"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
)

// All returns the scalars of root as a sequence in the given order. Breaking
// out of the range loop stops the walk. An unknown order yields nothing.
//
//	for path, value := range walk.All(root, walk.BreadthFirstOrder) {
//		fmt.Println(path, value)
//	}
func All(root tree.Node, order Order) iter.Seq2[*Key, tree.Scalar] {
	return func(yield func(*Key, tree.Scalar) bool) {
		_, _ = Walk(root, order, Visitor(yield))
	}
}
