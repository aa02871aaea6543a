package registry

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// Filter is a compiled per-index record filter.
type Filter struct {
	prg cel.Program
}

// CompileFilter compiles a CEL expression into a Filter. The expression is
// evaluated against the record data bound to the doc variable and must
// produce a boolean.
func CompileFilter(expr string) (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("doc", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("CEL environment error: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %w", issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("CEL program creation error: %w", err)
	}

	return &Filter{prg: prg}, nil
}

// Match evaluates the filter against record data.
func (f *Filter) Match(data map[string]interface{}) (bool, error) {
	if f == nil || f.prg == nil {
		return true, nil
	}

	out, _, err := f.prg.Eval(map[string]interface{}{
		"doc": data,
	})
	if err != nil {
		return false, err
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL result is not boolean: %T", out.Value())
	}
	return result, nil
}
