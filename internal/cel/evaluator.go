// Package cel compiles CEL predicates that decide which visited scalars are
// kept.
package cel

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/jsonwalk/pkg/tree"
	"github.com/oakwood-commons/jsonwalk/pkg/walk"
)

// Variables bound for every evaluation.
const (
	VarPath     = "path"     // dotted path, "" for a root scalar
	VarJSONPath = "jsonpath" // normalized JSONPath, "$" for a root scalar
	VarKey      = "key"      // last field name (string) or index (int); null at the root
	VarDepth    = "depth"    // number of path segments
	VarValue    = "value"    // the scalar: string, int, double, bool or null
	VarKind     = "kind"     // "string", "number", "bool" or "null"
)

// Filter is a compiled boolean CEL expression over one visited scalar.
// A Filter is safe for concurrent use.
type Filter struct {
	expr string
	prg  cel.Program
}

// newStandardCELEnv creates a CEL environment with the visit variables and
// common extensions. Additional options can be provided to extend the
// environment (e.g., custom functions).
func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 10+len(opts))
	allOpts = append(allOpts,
		cel.Variable(VarPath, cel.StringType),
		cel.Variable(VarJSONPath, cel.StringType),
		cel.Variable(VarKey, cel.DynType),
		cel.Variable(VarDepth, cel.IntType),
		cel.Variable(VarValue, cel.DynType),
		cel.Variable(VarKind, cel.StringType),
		cel.CrossTypeNumericComparisons(true),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// NewFilter compiles expr. The expression must produce a bool, e.g.
// `depth > 1 && kind == "number" && value > 10` or `path.startsWith("metadata.")`.
func NewFilter(expr string, opts ...cel.EnvOption) (*Filter, error) {
	env, err := newStandardCELEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("filter %q must evaluate to bool, got %s", expr, out)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Filter{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Match evaluates the filter for one visited scalar.
func (f *Filter) Match(path *walk.Key, value tree.Scalar) (bool, error) {
	result, _, err := f.prg.Eval(Activation(path, value))
	if err != nil {
		return false, fmt.Errorf("eval error at %q: %w", path.String(), err)
	}
	b, ok := result.(types.Bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %s at %q, want bool", f.expr, result.Type(), path.String())
	}
	return bool(b), nil
}

// Activation binds the visit variables for path and value.
func Activation(path *walk.Key, value tree.Scalar) map[string]any {
	vars := map[string]any{
		VarPath:     path.String(),
		VarJSONPath: path.JSONPath(),
		VarKey:      types.NullValue,
		VarDepth:    int64(path.Depth()),
		VarValue:    types.NullValue,
		VarKind:     KindOf(value),
	}
	if name, ok := path.Field(); ok {
		vars[VarKey] = name
	} else if i, ok := path.Index(); ok {
		vars[VarKey] = int64(i)
	}
	if v := value.Interface(); v != nil {
		vars[VarValue] = v
	}
	return vars
}

// KindOf names the JSON type of a scalar.
func KindOf(value tree.Scalar) string {
	switch value.Value().(type) {
	case string:
		return "string"
	case tree.Number:
		return "number"
	case bool:
		return "bool"
	default:
		return "null"
	}
}
