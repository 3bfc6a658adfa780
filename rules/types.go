// Package rules evaluates expressions against property values. A Rule
// implements props.Validator, so expression checks can be attached to any
// property hint and run through props.Validate.
package rules

import (
	"time"
)

// RuleContext carries the inputs an expression sees.
type RuleContext struct {
	// Value is the raw value of the property under evaluation.
	Value any
	// Property is the property name.
	Property string
	// Path is the absolute slash path of the property.
	Path string
	// Snapshot is the tree the property belongs to, as nested maps. Its
	// top level keys are exposed as variables.
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) label() string {
	if ctx.Path != "" {
		return ctx.Path
	}
	if ctx.Property != "" {
		return ctx.Property
	}
	return "unknown"
}

// bindings returns the variables shared by every engine: the snapshot keys
// followed by value, name, path, now, args and metadata.
func (ctx RuleContext) bindings() map[string]any {
	out := map[string]any{}
	for key, value := range snapshotAsMap(ctx.Snapshot) {
		out[key] = value
	}
	out["value"] = ctx.Value
	out["name"] = ctx.Property
	out["path"] = ctx.Path
	out["now"] = ctx.timestamp()
	out["args"] = ctx.Args
	out["metadata"] = ctx.Metadata
	return out
}

func snapshotAsMap(value any) map[string]any {
	if value == nil {
		return map[string]any{}
	}
	if m, ok := value.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct {
	variables []string
}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// WithVariables declares extra top level variables at compile time. The CEL
// engine type-checks against the declared set; the other engines accept
// undeclared variables anyway.
func WithVariables(names ...string) CompileOption {
	return compileOptionFunc(func(cfg *compileConfig) {
		cfg.variables = append(cfg.variables, names...)
	})
}

func applyCompileOptions(opts []CompileOption) compileConfig {
	cfg := compileConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt.applyCompileOption(&cfg)
		}
	}
	return cfg
}
