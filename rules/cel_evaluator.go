package rules

import (
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
	functions "github.com/google/cel-go/common/functions"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

// celEvaluator type-checks expressions against the variables present in the
// context, so programs are cached per expression and variable set.
type celEvaluator struct {
	engine
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. Registered
// functions are reachable through call(name, [args...]).
func NewCELEvaluator(opts ...EngineOption) Evaluator {
	return &celEvaluator{engine: newEngine(EngineCEL, opts)}
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	ctx = ctx.withDefaults()
	activation := ctx.bindings()
	program, err := e.program(expression, variableNames(activation))
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, expression, ctx.label(), err)
	}
	out, _, err := program.Eval(activation)
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, expression, ctx.label(), err)
	}
	return out.Value(), nil
}

// Compile checks the expression against the base variables (and any
// declared with WithVariables). References to snapshot keys cannot be
// checked before evaluation and are tolerated.
func (e *celEvaluator) Compile(expression string, opts ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	cfg := applyCompileOptions(opts)
	if _, err := e.program(expression, mergeVariables(baseVariables(), cfg.variables)); err != nil {
		if !isUndeclaredReference(err) {
			return nil, wrapEvaluationError(EngineCEL, expression, "", err)
		}
	}
	return &celRule{evaluator: e, expression: expression}, nil
}

func (e *celEvaluator) program(expression string, variables []string) (celgo.Program, error) {
	return loadProgram(e.engine, e.cacheKey(expression, variables...), func() (celgo.Program, error) {
		env, err := e.env(variables)
		if err != nil {
			return nil, err
		}
		checked, issues := env.Compile(expression)
		if issues != nil && issues.Err() != nil {
			return nil, issues.Err()
		}
		return env.Program(checked)
	})
}

func (e *celEvaluator) env(variables []string) (*celgo.Env, error) {
	opts := make([]celgo.EnvOption, 0, len(variables)+1)
	for _, name := range variables {
		switch name {
		case "now":
			opts = append(opts, celgo.Variable(name, celgo.TimestampType))
		case "call":
		default:
			opts = append(opts, celgo.Variable(name, celgo.DynType))
		}
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call", celgo.Overload(
			"call_string_list",
			[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
			celgo.DynType,
			celgo.FunctionBinding(e.callBinding()),
		)))
	}
	return celgo.NewEnv(opts...)
}

type celRule struct {
	evaluator  *celEvaluator
	expression string
}

func (r *celRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil {
		return nil, wrapEvaluatorError(EngineCEL, errMissingEvaluator)
	}
	return r.evaluator.Evaluate(ctx, r.expression)
}

func baseVariables() []string {
	return []string{"args", "metadata", "name", "now", "path", "value"}
}

func variableNames(activation map[string]any) []string {
	names := make([]string, 0, len(activation))
	for name := range activation {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mergeVariables(base, extra []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, name := range append(append([]string(nil), base...), extra...) {
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func isUndeclaredReference(err error) bool {
	return err != nil && strings.Contains(err.Error(), "undeclared reference")
}

func (e *celEvaluator) callBinding() functions.FunctionOp {
	return func(values ...ref.Val) ref.Val {
		if len(values) != 2 {
			return types.NewErr("rules: call requires a function name and an argument list")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("rules: call name must be string")
		}
		list, ok := values[1].(traits.Lister)
		if !ok {
			return types.NewErr("rules: call arguments must be a list")
		}
		size, _ := list.Size().Value().(int64)
		args := make([]any, 0, size)
		for i := int64(0); i < size; i++ {
			args = append(args, list.Get(types.Int(i)).Value())
		}
		result, err := e.call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
