//go:build js_eval

package rules

import (
	"fmt"

	"github.com/dop251/goja"
)

// jsEvaluator runs each evaluation in a fresh goja runtime.
type jsEvaluator struct {
	engine
}

// NewJSEvaluator constructs an Evaluator backed by goja. Registered
// functions become globals, and call(name, ...args) is available as well.
func NewJSEvaluator(opts ...EngineOption) Evaluator {
	return &jsEvaluator{engine: newEngine(EngineJS, opts)}
}

// JSAvailable reports whether the binary was built with the js_eval tag.
func JSAvailable() bool {
	return true
}

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	compiled, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return compiled.Evaluate(ctx)
}

func (e *jsEvaluator) Compile(expression string, _ ...CompileOption) (CompiledRule, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	program, err := loadProgram(e.engine, e.cacheKey(expression), func() (*goja.Program, error) {
		return goja.Compile("", fmt.Sprintf("(function(){ return (%s); })()", expression), false)
	})
	if err != nil {
		return nil, wrapEvaluationError(EngineJS, expression, "", err)
	}
	return &jsProgram{evaluator: e, expression: expression, program: program}, nil
}

func (e *jsEvaluator) globals(vm *goja.Runtime, ctx RuleContext) error {
	for key, value := range ctx.bindings() {
		if err := vm.Set(key, value); err != nil {
			return err
		}
	}
	if e.registry == nil {
		return nil
	}
	if err := vm.Set("call", e.call); err != nil {
		return err
	}
	for _, name := range e.registry.Names() {
		fn := name
		if err := vm.Set(fn, func(arguments ...any) (any, error) {
			return e.call(fn, arguments...)
		}); err != nil {
			return err
		}
	}
	return nil
}

type jsProgram struct {
	evaluator  *jsEvaluator
	expression string
	program    *goja.Program
}

func (p *jsProgram) Evaluate(ctx RuleContext) (any, error) {
	if p.evaluator == nil || p.program == nil {
		return nil, wrapEvaluatorError(EngineJS, errMissingEvaluator)
	}
	ctx = ctx.withDefaults()
	vm := goja.New()
	if err := p.evaluator.globals(vm, ctx); err != nil {
		return nil, wrapEvaluationError(EngineJS, p.expression, ctx.label(), err)
	}
	value, err := vm.RunProgram(p.program)
	if err != nil {
		return nil, wrapEvaluationError(EngineJS, p.expression, ctx.label(), err)
	}
	return value.Export(), nil
}
