package navigator

import (
	"github.com/oakwood-commons/jsonwalk/pkg/tree"
)

// ShapeKind describes the general structure of a node.
type ShapeKind string

const (
	ShapeScalar           ShapeKind = "scalar"
	ShapeObject           ShapeKind = "object"
	ShapeArray            ShapeKind = "array"
	ShapeHomogeneousArray ShapeKind = "homogeneous_array" // Array of objects with identical keys
)

// ShapeInfo describes the structure of a document for logging and
// diagnostics.
type ShapeInfo struct {
	Kind     ShapeKind
	Fields   []string // For homogeneous arrays: the common keys in document order
	Length   int      // Members or elements of the top-level node
	Scalars  int      // Scalars anywhere below the node
	MaxDepth int      // Deepest scalar path length
}

// DetectShape analyzes node and returns its structural characteristics.
func DetectShape(node tree.Node) ShapeInfo {
	info := ShapeInfo{Kind: ShapeScalar}
	switch t := tree.Deref(node).(type) {
	case *tree.Object:
		info.Kind = ShapeObject
		info.Length = t.Len()
	case tree.Array:
		info.Kind = ShapeArray
		info.Length = len(t)
		if ok, fields := IsHomogeneousArray(t); ok {
			info.Kind = ShapeHomogeneousArray
			info.Fields = fields
		}
	}
	count(node, 0, &info)
	return info
}

func count(node tree.Node, depth int, info *ShapeInfo) {
	switch t := tree.Deref(node).(type) {
	case *tree.Object:
		for i := 0; i < t.Len(); i++ {
			count(t.At(i).Value, depth+1, info)
		}
	case tree.Array:
		for _, child := range t {
			count(child, depth+1, info)
		}
	case tree.Scalar:
		info.Scalars++
		if depth > info.MaxDepth {
			info.MaxDepth = depth
		}
	}
}

// IsHomogeneousArray reports whether arr is a non-empty array of objects that
// all have the same set of keys. The keys are returned in the order of the
// first element.
func IsHomogeneousArray(arr tree.Array) (bool, []string) {
	if len(arr) == 0 {
		return false, nil
	}
	first, ok := tree.Deref(arr[0]).(*tree.Object)
	if !ok || first.Len() == 0 {
		return false, nil
	}
	fields := first.Keys()
	for _, el := range arr[1:] {
		obj, ok := tree.Deref(el).(*tree.Object)
		if !ok || obj.Len() != len(fields) {
			return false, nil
		}
		for _, f := range fields {
			if _, ok := obj.Get(f); !ok {
				return false, nil
			}
		}
	}
	return true, fields
}
