package loader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
)

// loadYAML parses a single YAML document.
func loadYAML(input string) ([]tree.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	node, err := fromYAML(&doc)
	if err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return []tree.Node{node}, nil
}

// loadMultiDocYAML parses YAML with one or more documents separated by ---.
// Empty documents are dropped.
func loadMultiDocYAML(input string) ([]tree.Node, error) {
	var results []tree.Node
	decoder := yaml.NewDecoder(strings.NewReader(input))

	for {
		var doc yaml.Node
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		node, err := fromYAML(&doc)
		if err != nil {
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		if s, ok := node.(tree.Scalar); ok && s.IsNull() {
			continue
		}
		results = append(results, node)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no documents found in multi-document YAML")
	}
	return results, nil
}

// maxYAMLAliasNodes bounds the number of nodes produced by alias expansion,
// so that nested anchors cannot blow a small document up exponentially.
const maxYAMLAliasNodes = 500_000

// yamlConverter turns a yaml.Node graph into a tree. Aliases are expanded in
// place; an alias to a node that is still being expanded is an error.
type yamlConverter struct {
	active   map[*yaml.Node]bool
	inAlias  int
	expanded int
}

// fromYAML converts a yaml.Node, keeping mapping order. Merge keys (<<) add
// the merged members that the mapping does not define itself.
func fromYAML(n *yaml.Node) (tree.Node, error) {
	c := &yamlConverter{active: make(map[*yaml.Node]bool)}
	return c.convert(n)
}

func (c *yamlConverter) enter(alias *yaml.Node) (*yaml.Node, error) {
	target := alias.Alias
	if target == nil {
		return nil, fmt.Errorf("line %d: unknown alias %q", alias.Line, alias.Value)
	}
	if c.active[target] {
		return nil, fmt.Errorf("line %d: recursive alias", alias.Line)
	}
	c.active[target] = true
	c.inAlias++
	return target, nil
}

func (c *yamlConverter) leave(target *yaml.Node) {
	delete(c.active, target)
	c.inAlias--
}

func (c *yamlConverter) convert(n *yaml.Node) (tree.Node, error) {
	if c.inAlias > 0 {
		c.expanded++
		if c.expanded > maxYAMLAliasNodes {
			return nil, fmt.Errorf("line %d: document contains excessive aliasing", n.Line)
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return tree.Null(), nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		target, err := c.enter(n)
		if err != nil {
			return nil, err
		}
		defer c.leave(target)
		return c.convert(target)
	case yaml.SequenceNode:
		arr := make(tree.Array, len(n.Content))
		for i, item := range n.Content {
			child, err := c.convert(item)
			if err != nil {
				return nil, err
			}
			arr[i] = child
		}
		return arr, nil
	case yaml.MappingNode:
		obj := tree.NewObject()
		var merges []*yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if key.Tag == "!!merge" {
				merges = append(merges, value)
				continue
			}
			child, err := c.convert(value)
			if err != nil {
				return nil, err
			}
			obj.Set(yamlKey(key), child)
		}
		for _, m := range merges {
			if err := c.merge(obj, m); err != nil {
				return nil, err
			}
		}
		return obj, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return tree.FromValue(v)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func (c *yamlConverter) merge(obj *tree.Object, src *yaml.Node) error {
	if src.Kind == yaml.AliasNode {
		target, err := c.enter(src)
		if err != nil {
			return err
		}
		defer c.leave(target)
		src = target
	}
	var sources []*yaml.Node
	switch src.Kind {
	case yaml.MappingNode:
		sources = []*yaml.Node{src}
	case yaml.SequenceNode:
		sources = src.Content
	default:
		return fmt.Errorf("line %d: merge value must be a mapping", src.Line)
	}
	for _, s := range sources {
		merged, err := c.convert(s)
		if err != nil {
			return err
		}
		mo, ok := merged.(*tree.Object)
		if !ok {
			return fmt.Errorf("line %d: merge value must be a mapping", s.Line)
		}
		for _, k := range mo.Keys() {
			if _, exists := obj.Get(k); exists {
				continue
			}
			v, _ := mo.Get(k)
			obj.Set(k, v)
		}
	}
	return nil
}

func yamlKey(key *yaml.Node) string {
	if key.Kind == yaml.AliasNode && key.Alias != nil {
		key = key.Alias
	}
	if key.Kind == yaml.ScalarNode {
		return key.Value
	}
	var v any
	if err := key.Decode(&v); err != nil {
		return key.Value
	}
	return fmt.Sprintf("%v", v)
}
