// Package navigator resolves rendered paths back to nodes of a document tree.
package navigator

import (
	"fmt"
	"strconv"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
	"github.com/oakwood-commons/jsonwalk/pkg/walk"
)

// NodeAtPath navigates a dotted, bracket or JSONPath-style path into root.
// Keys are separated by '.'; numeric segments index arrays. The empty path
// returns root.
func NodeAtPath(root tree.Node, path string) (tree.Node, error) {
	steps, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return NodeAtSteps(root, steps)
}

// NodeAtSteps follows already parsed steps from root.
func NodeAtSteps(root tree.Node, steps []Step) (tree.Node, error) {
	cur := root
	for i, st := range steps {
		next, err := navigateStep(cur, st)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ReconstructPath(steps[:i+1]), err)
		}
		cur = next
	}
	return cur, nil
}

// NodeAtKey resolves a Key produced by a walk. Unlike the dotted rendering,
// a Key is never ambiguous, so keys containing dots resolve correctly.
func NodeAtKey(root tree.Node, key *walk.Key) (tree.Node, error) {
	return NodeAtSteps(root, StepsOf(key))
}

// StepsOf converts a Key into navigation steps.
func StepsOf(key *walk.Key) []Step {
	segs := key.Segments()
	steps := make([]Step, len(segs))
	for i, s := range segs {
		if s.IsIndex {
			steps[i] = ArrayIndex{Index: s.Index}
			continue
		}
		steps[i] = QuotedKey{Name: s.Field}
	}
	return steps
}

// navigateStep navigates a single step (key or index) in the tree.
func navigateStep(cur tree.Node, st Step) (tree.Node, error) {
	switch t := tree.Deref(cur).(type) {
	case *tree.Object:
		var key string
		switch s := st.(type) {
		case Field:
			key = s.Name
		case QuotedKey:
			key = s.Name
		case ArrayIndex:
			return nil, fmt.Errorf("cannot index object with [%d]", s.Index)
		}
		v, ok := t.Get(key)
		if !ok {
			return nil, fmt.Errorf("key '%s' not found", key)
		}
		return v, nil
	case tree.Array:
		var idx int
		switch s := st.(type) {
		case ArrayIndex:
			idx = s.Index
		case Field:
			n, err := strconv.Atoi(s.Name)
			if err != nil {
				return nil, fmt.Errorf("expected numeric index into array but got '%s'", s.Name)
			}
			idx = n
		case QuotedKey:
			return nil, fmt.Errorf("expected numeric index into array but got key '%s'", s.Name)
		}
		if idx < 0 || idx >= len(t) {
			return nil, fmt.Errorf("index %d out of range", idx)
		}
		return t[idx], nil
	case nil:
		return nil, fmt.Errorf("cannot descend into nil node")
	default:
		return nil, fmt.Errorf("cannot descend into %s", t.Kind())
	}
}
