package rules

import (
	"fmt"
	"time"

	props "github.com/goliatone/go-props"
)

// RuleOption configures a Rule.
type RuleOption func(*ruleConfig)

type ruleConfig struct {
	evaluator Evaluator
	engine    string
	cache     ProgramCache
	functions *FunctionRegistry
	logger    EvaluationLogger
	message   string
	args      map[string]any
	metadata  map[string]any
	now       func() time.Time
}

// WithEvaluator supplies the engine. Rules default to expr.
func WithEvaluator(evaluator Evaluator) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.evaluator = evaluator
	}
}

// WithEngine selects a built-in engine by name (EngineExpr, EngineCEL or
// EngineJS). The cache and functions configured on the rule are passed to it.
// WithEvaluator takes precedence.
func WithEngine(name string) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.engine = name
	}
}

// WithProgramCache shares compiled programs with the built-in engine.
func WithProgramCache(cache ProgramCache) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry exposes registry to the built-in engine.
func WithFunctionRegistry(registry *FunctionRegistry) RuleOption {
	return func(cfg *ruleConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for the built-in engine.
func WithCustomFunction(name string, fn Function) RuleOption {
	return func(cfg *ruleConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// WithEvaluationLogger records every evaluation.
func WithEvaluationLogger(logger EvaluationLogger) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.logger = logger
	}
}

// WithMessage replaces the generic violation text.
func WithMessage(message string) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.message = message
	}
}

// WithArgs exposes args to the expression as "args".
func WithArgs(args map[string]any) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.args = args
	}
}

// WithMetadata exposes metadata to the expression as "metadata".
func WithMetadata(metadata map[string]any) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.metadata = metadata
	}
}

// WithClock overrides the time source bound to "now".
func WithClock(now func() time.Time) RuleOption {
	return func(cfg *ruleConfig) {
		cfg.now = now
	}
}

// Rule is a compiled expression evaluated against a property. As a
// props.Validator it must yield a bool; false is reported as a
// *ViolationError.
type Rule struct {
	expression string
	engine     string
	compiled   CompiledRule
	cfg        ruleConfig
}

// New compiles expression with the configured engine.
func New(expression string, opts ...RuleOption) (*Rule, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	cfg := ruleConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	evaluator, err := resolveEvaluator(cfg)
	if err != nil {
		return nil, err
	}
	compiled, err := evaluator.Compile(expression)
	if err != nil {
		return nil, err
	}
	return &Rule{
		expression: expression,
		engine:     engineName(evaluator),
		compiled:   compiled,
		cfg:        cfg,
	}, nil
}

// MustNew is New for expressions known to compile; it panics on error.
func MustNew(expression string, opts ...RuleOption) *Rule {
	rule, err := New(expression, opts...)
	if err != nil {
		panic(err)
	}
	return rule
}

// Expression returns the source expression.
func (r *Rule) Expression() string {
	return r.expression
}

// Engine names the engine the rule was compiled with.
func (r *Rule) Engine() string {
	return r.engine
}

// Evaluate runs the rule against p and returns the raw result.
func (r *Rule) Evaluate(p props.Property) (any, error) {
	if p == nil {
		return nil, props.ErrNilProperty
	}
	return r.EvaluateWith(r.contextFor(p))
}

// EvaluateWith runs the rule against ctx. Unset args and metadata fall back
// to the rule configuration.
func (r *Rule) EvaluateWith(ctx RuleContext) (any, error) {
	if ctx.Args == nil {
		ctx.Args = r.cfg.args
	}
	if ctx.Metadata == nil {
		ctx.Metadata = r.cfg.metadata
	}
	if ctx.Now == nil && r.cfg.now != nil {
		now := r.cfg.now()
		ctx.Now = &now
	}
	ctx = ctx.withDefaults()
	start := time.Now()
	value, err := r.compiled.Evaluate(ctx)
	err = wrapEvaluationError(r.engine, r.expression, ctx.label(), err)
	r.logger().LogEvaluation(EvaluationEvent{
		Engine:     r.engine,
		Expression: r.expression,
		Path:       ctx.label(),
		Elapsed:    time.Since(start),
		Result:     value,
		Err:        err,
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Validate implements props.Validator.
func (r *Rule) Validate(p props.Property) error {
	result, err := r.Evaluate(p)
	if err != nil {
		return err
	}
	ok, isBool := result.(bool)
	if !isBool {
		return &EvaluationError{
			Engine:     r.engine,
			Expression: r.expression,
			Path:       props.PathOf(p),
			Err:        fmt.Errorf("%w, got %T", ErrNotBoolean, result),
		}
	}
	if !ok {
		return &ViolationError{
			Expression: r.expression,
			Path:       props.PathOf(p),
			Message:    r.cfg.message,
		}
	}
	return nil
}

func (r *Rule) contextFor(p props.Property) RuleContext {
	ctx := RuleContext{
		Value:    p.Raw(),
		Property: p.Name(),
		Path:     props.PathOf(p),
	}
	if owner := p.Owner(); owner != nil {
		ctx.Snapshot = props.Snapshot(owner.Root())
	}
	return ctx
}

func (r *Rule) logger() EvaluationLogger {
	if r.cfg.logger != nil {
		return r.cfg.logger
	}
	return discardEvaluations{}
}

func resolveEvaluator(cfg ruleConfig) (Evaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	opts := []EngineOption{EngineCache(cfg.cache), EngineFunctions(cfg.functions)}
	var evaluator Evaluator
	switch cfg.engine {
	case "", EngineExpr:
		evaluator = NewExprEvaluator(opts...)
	case EngineCEL:
		evaluator = NewCELEvaluator(opts...)
	case EngineJS:
		evaluator = NewJSEvaluator(opts...)
	}
	if evaluator == nil {
		return nil, fmt.Errorf("%w: engine %q", ErrNoEvaluator, cfg.engine)
	}
	return evaluator, nil
}
