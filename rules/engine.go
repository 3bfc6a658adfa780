package rules

import "strings"

// Engine names reported by Rule.Engine and evaluation events.
const (
	EngineExpr   = "expr"
	EngineCEL    = "cel"
	EngineJS     = "js"
	EngineCustom = "custom"
)

// EngineOption configures a built-in evaluator.
type EngineOption func(*engine)

// EngineCache shares compiled programs through cache. Keys are prefixed with
// the engine name, so one cache can serve every engine.
func EngineCache(cache ProgramCache) EngineOption {
	return func(e *engine) {
		e.cache = cache
	}
}

// EngineFunctions exposes the functions of registry to expressions. The
// registry is copied; later registrations are not seen.
func EngineFunctions(registry *FunctionRegistry) EngineOption {
	return func(e *engine) {
		if registry != nil {
			e.registry = registry.Clone()
		}
	}
}

// engine is embedded by every built-in evaluator.
type engine struct {
	name     string
	cache    ProgramCache
	registry *FunctionRegistry
}

func newEngine(name string, opts []EngineOption) engine {
	e := engine{name: name}
	for _, opt := range opts {
		if opt != nil {
			opt(&e)
		}
	}
	return e
}

// Engine names the evaluator.
func (e engine) Engine() string {
	return e.name
}

func (e engine) cacheKey(expression string, variables ...string) string {
	key := e.name + ":" + expression
	if len(variables) > 0 {
		key += "\x00" + strings.Join(variables, ",")
	}
	return key
}

func (e engine) call(name string, arguments ...any) (any, error) {
	return e.registry.Call(name, arguments...)
}

// loadProgram returns the cached program for key or compiles and caches a
// new one.
func loadProgram[P any](e engine, key string, compile func() (P, error)) (P, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(P); ok {
				return program, nil
			}
		}
	}
	program, err := compile()
	if err != nil {
		return program, err
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func engineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(interface{ Engine() string }); ok {
		return named.Engine()
	}
	return EngineCustom
}
