package rules

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// exprEvaluator runs expressions with github.com/expr-lang/expr. Undeclared
// variables evaluate to nil.
type exprEvaluator struct {
	engine
}

// NewExprEvaluator constructs the default Evaluator. Registered functions
// are callable by name and through call(name, args...).
func NewExprEvaluator(opts ...EngineOption) Evaluator {
	return &exprEvaluator{engine: newEngine(EngineExpr, opts)}
}

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	compiled, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return compiled.Evaluate(ctx)
}

func (e *exprEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	program, err := loadProgram(e.engine, e.cacheKey(expression), func() (*exprvm.Program, error) {
		return exprlang.Compile(expression, e.compileOptions()...)
	})
	if err != nil {
		return nil, wrapEvaluationError(EngineExpr, expression, "", err)
	}
	return &exprProgram{evaluator: e, program: program, expression: expression}, nil
}

func (e *exprEvaluator) compileOptions() []exprlang.Option {
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range e.registry.Names() {
		fn := name
		options = append(options, exprlang.Function(fn, func(arguments ...any) (any, error) {
			return e.call(fn, arguments...)
		}))
	}
	return options
}

type exprProgram struct {
	evaluator  *exprEvaluator
	program    *exprvm.Program
	expression string
}

func (p *exprProgram) Evaluate(ctx RuleContext) (any, error) {
	if p.evaluator == nil || p.program == nil {
		return nil, wrapEvaluatorError(EngineExpr, errMissingEvaluator)
	}
	ctx = ctx.withDefaults()
	env := ctx.bindings()
	if p.evaluator.registry != nil {
		env["call"] = p.evaluator.call
	}
	result, err := exprlang.Run(p.program, env)
	if err != nil {
		return nil, wrapEvaluationError(EngineExpr, p.expression, ctx.label(), err)
	}
	return result, nil
}
