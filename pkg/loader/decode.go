package loader

import (
	"github.com/oakwood-commons/jsonwalk/pkg/tree"
)

// TryDecode attempts to parse a string value as structured data (JWT, JSON,
// YAML, TOML, NDJSON). It returns the decoded tree and true only if the
// result is an object or array; plain strings, numbers and other scalars
// return (nil, false).
func TryDecode(value string) (tree.Node, bool) {
	if value == "" {
		return nil, false
	}

	parsed, err := LoadRoot(value)
	if err != nil {
		return nil, false
	}
	if isStructured(parsed) {
		return parsed, true
	}
	return nil, false
}

// RecursiveDecode returns a copy of node in which every string scalar holding
// serialized data is replaced by its parsed tree. Nested serialized strings
// are expanded too, up to a fixed depth. node itself is not modified.
func RecursiveDecode(node tree.Node) tree.Node {
	return recursiveDecode(node, 0)
}

const maxDecodeDepth = 20

func recursiveDecode(node tree.Node, depth int) tree.Node {
	if depth > maxDecodeDepth {
		return node
	}

	switch v := tree.Deref(node).(type) {
	case *tree.Object:
		out := tree.NewObject()
		for i := 0; i < v.Len(); i++ {
			m := v.At(i)
			out.Set(m.Key, recursiveDecode(m.Value, depth+1))
		}
		return out
	case tree.Array:
		out := make(tree.Array, len(v))
		for i, child := range v {
			out[i] = recursiveDecode(child, depth+1)
		}
		return out
	case tree.Scalar:
		s, ok := v.Value().(string)
		if !ok {
			return v
		}
		if decoded, ok := TryDecode(s); ok {
			return recursiveDecode(decoded, depth+1)
		}
		return v
	default:
		return node
	}
}

// isStructured reports whether n is an object or array.
func isStructured(n tree.Node) bool {
	if n == nil {
		return false
	}
	kind := n.Kind()
	return kind == tree.KindObject || kind == tree.KindArray
}
