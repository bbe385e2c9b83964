// Package core is the embeddable entry point: it loads documents and walks
// them with an optional start path, JSONPath selection, CEL filter and
// record limits.
package core

import (
	"context"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/theory/jsonpath"

	"github.com/oakwood-commons/jsonwalk/internal/cel"
	"github.com/oakwood-commons/jsonwalk/internal/limiter"
	"github.com/oakwood-commons/jsonwalk/internal/navigator"
	"github.com/oakwood-commons/jsonwalk/pkg/loader"
	"github.com/oakwood-commons/jsonwalk/pkg/logger"
	"github.com/oakwood-commons/jsonwalk/pkg/tree"
	"github.com/oakwood-commons/jsonwalk/pkg/walk"
)

// Filter decides whether a visited scalar is passed on.
type Filter interface {
	Match(path *walk.Key, value tree.Scalar) (bool, error)
}

// Engine walks documents with a fixed configuration. An Engine is safe for
// concurrent use once built.
type Engine struct {
	Order  walk.Order
	Filter Filter
	Limits limiter.Config
	// Start is a navigator path resolved before walking; empty means the root.
	Start string
	// Selector picks the nodes to walk; nil walks the start node itself.
	Selector *jsonpath.Path

	filterExpr string
	selectExpr string
}

// Option configures the Engine.
type Option func(*Engine)

// WithOrder sets the traversal order.
func WithOrder(order walk.Order) Option {
	return func(e *Engine) {
		e.Order = order
	}
}

// WithFilter compiles expr as a CEL predicate when the Engine is built.
func WithFilter(expr string) Option {
	return func(e *Engine) {
		e.filterExpr = expr
	}
}

// WithFilterFunc sets a custom filter.
func WithFilterFunc(f Filter) Option {
	return func(e *Engine) {
		e.Filter = f
	}
}

// WithLimits sets the offset/limit/tail window.
func WithLimits(cfg limiter.Config) Option {
	return func(e *Engine) {
		e.Limits = cfg
	}
}

// WithStart sets the path of the node the walk starts from.
func WithStart(path string) Option {
	return func(e *Engine) {
		e.Start = path
	}
}

// WithSelect parses expr as a JSONPath query when the Engine is built. Each
// selected node is walked as a root of its own.
func WithSelect(expr string) Option {
	return func(e *Engine) {
		e.selectExpr = expr
	}
}

// New creates an Engine with defaults.
func New(opts ...Option) (*Engine, error) {
	engine := &Engine{
		Order: walk.DepthFirstOrder,
	}
	for _, opt := range opts {
		opt(engine)
	}

	if engine.Order != walk.DepthFirstOrder && engine.Order != walk.BreadthFirstOrder {
		return nil, fmt.Errorf("unknown traversal order %q", engine.Order)
	}
	if err := engine.Limits.Validate(); err != nil {
		return nil, err
	}
	if engine.filterExpr != "" {
		f, err := cel.NewFilter(engine.filterExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid filter: %w", err)
		}
		engine.Filter = f
	}
	if engine.selectExpr != "" {
		p, err := jsonpath.Parse(engine.selectExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid JSONPath %q: %w", engine.selectExpr, err)
		}
		engine.Selector = p
	}
	if _, err := navigator.ParsePath(engine.Start); err != nil {
		return nil, fmt.Errorf("invalid start path: %w", err)
	}
	return engine, nil
}

// LoadRoot parses input into a single root node; multi-doc inputs return an
// Array of documents.
func LoadRoot(input string) (tree.Node, error) {
	return loader.LoadRoot(input)
}

// LoadRootBytes parses input bytes into a single root node.
func LoadRootBytes(data []byte) (tree.Node, error) {
	return loader.LoadRootBytes(data)
}

// LoadRootBytesWithLogger is like LoadRootBytes but accepts a logger for
// recording fallback parse attempts.
func LoadRootBytesWithLogger(data []byte, lgr logr.Logger) (tree.Node, error) {
	return loader.LoadRootBytesWithLogger(data, lgr)
}

// LoadReader reads r and parses it with the given format.
func LoadReader(r io.Reader, format loader.Format, lgr logr.Logger) (tree.Node, error) {
	return loader.LoadReader(r, format, lgr)
}

// LoadFile reads a file and parses it into a single root node.
func LoadFile(path string) (tree.Node, error) {
	return loader.LoadFile(path)
}

// LoadFileWithLogger is like LoadFile but accepts a logger for recording
// fallback parse attempts and extension-based dispatch.
func LoadFileWithLogger(path string, lgr logr.Logger) (tree.Node, error) {
	return loader.LoadFileWithLogger(path, lgr)
}

// LoadObject accepts an already parsed value. Strings and byte slices are
// parsed using the shared loader to preserve auto-detection.
func LoadObject(value any) (tree.Node, error) {
	return loader.LoadObject(value)
}

// Roots resolves the start path and the JSONPath selection against root and
// returns the nodes to walk, in selection order.
func (e *Engine) Roots(root tree.Node) ([]tree.Node, error) {
	start, err := navigator.NodeAtPath(root, e.Start)
	if err != nil {
		return nil, fmt.Errorf("start path %q: %w", e.Start, err)
	}
	if e.Selector == nil {
		return []tree.Node{start}, nil
	}

	// Selection runs on plain Go values; the located paths then lead back to
	// the original nodes so that document key order survives.
	located := e.Selector.SelectLocated(start.Interface())
	roots := make([]tree.Node, 0, len(located))
	for _, loc := range located {
		node, err := navigator.NodeAtPath(start, loc.Path.String())
		if err != nil {
			return nil, fmt.Errorf("resolve selected %s: %w", loc.Path, err)
		}
		roots = append(roots, node)
	}
	return roots, nil
}

// Walk visits the scalars of root that pass the filter and limits. It
// returns true if every root was walked to the end, and false if the limit
// or visit stopped it early. Filter errors stop the walk and are returned.
func (e *Engine) Walk(ctx context.Context, root tree.Node, visit walk.Visitor) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	lgr := logger.FromContext(ctx).WithName("engine")

	roots, err := e.Roots(root)
	if err != nil {
		return false, err
	}
	lgr.V(1).Info("walking", "order", string(e.Order), "roots", len(roots), "start", e.Start, "limited", e.Limits.IsActive())

	var window *limiter.Window
	sink := visit
	if e.Limits.IsActive() {
		window = limiter.NewWindow(e.Limits, visit)
		sink = window.Visit
	}
	var filterErr error
	matched := 0
	step := func(path *walk.Key, value tree.Scalar) bool {
		if e.Filter != nil {
			ok, err := e.Filter.Match(path, value)
			if err != nil {
				filterErr = err
				return false
			}
			if !ok {
				return true
			}
		}
		matched++
		return sink(path, value)
	}

	completed := true
	for _, r := range roots {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		ok, err := walk.Walk(r, e.Order, step)
		if err != nil {
			return false, err
		}
		if filterErr != nil {
			return false, filterErr
		}
		if !ok {
			completed = false
			break
		}
	}
	emitted, limitReached := matched, false
	if window != nil {
		if !window.Flush() {
			completed = false
		}
		emitted, limitReached = window.Emitted(), window.LimitReached()
	}

	lgr.V(1).Info("walk finished",
		"completed", completed,
		"matched", matched,
		"emitted", emitted,
		"limitReached", limitReached,
	)
	return completed, nil
}

// Collect walks root and returns the visited pairs in order.
func (e *Engine) Collect(ctx context.Context, root tree.Node) ([]Pair, error) {
	var pairs []Pair
	_, err := e.Walk(ctx, root, func(path *walk.Key, value tree.Scalar) bool {
		pairs = append(pairs, Pair{Path: path, Value: value})
		return true
	})
	return pairs, err
}

// Pair is one visited scalar with its path.
type Pair struct {
	Path  *walk.Key
	Value tree.Scalar
}
