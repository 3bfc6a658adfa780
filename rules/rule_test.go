package rules

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	props "github.com/goliatone/go-props"
)

var evaluatorFactories = []struct {
	name string
	new  func(opts ...EngineOption) Evaluator
}{
	{name: EngineExpr, new: NewExprEvaluator},
	{name: EngineCEL, new: NewCELEvaluator},
	{name: EngineJS, new: NewJSEvaluator},
}

func newEvaluator(t *testing.T, name string, cache ProgramCache, registry *FunctionRegistry) Evaluator {
	t.Helper()
	for _, factory := range evaluatorFactories {
		if factory.name != name {
			continue
		}
		evaluator := factory.new(EngineCache(cache), EngineFunctions(registry))
		if evaluator == nil {
			t.Skipf("%s evaluator not available in this build", name)
		}
		return evaluator
	}
	t.Fatalf("unknown evaluator %q", name)
	return nil
}

func buildLimits(t *testing.T) (*props.Model, *props.Value[int64]) {
	t.Helper()
	m := props.MustModel("limits")
	limit, err := props.NewInt("limit", 10)
	if err != nil {
		t.Fatalf("new limit: %v", err)
	}
	if _, err := m.AddProperty(limit); err != nil {
		t.Fatalf("add limit: %v", err)
	}
	x, err := props.NewInt("x", 4)
	if err != nil {
		t.Fatalf("new x: %v", err)
	}
	if _, err := props.Add(m, x); err != nil {
		t.Fatalf("add x: %v", err)
	}
	return m, x
}

func TestRuleValidatesAcrossEvaluators(t *testing.T) {
	cases := []struct {
		name  string
		rule  string
		value int64
		want  bool
	}{
		{name: "positive", rule: "value > 0", value: 4, want: true},
		{name: "negative", rule: "value > 0", value: -1, want: false},
		{name: "sibling bound", rule: "value <= limit", value: 10, want: true},
		{name: "sibling exceeded", rule: "value <= limit", value: 11, want: false},
		{name: "name binding", rule: "name == 'x' && path == '/x'", value: 1, want: true},
	}

	for _, factory := range evaluatorFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			evaluator := newEvaluator(t, factory.name, nil, nil)
			for _, tc := range cases {
				tc := tc
				t.Run(tc.name, func(t *testing.T) {
					_, x := buildLimits(t)
					x.Set(tc.value)

					rule, err := New(tc.rule, WithEvaluator(evaluator))
					if err != nil {
						t.Fatalf("compile %q: %v", tc.rule, err)
					}
					err = rule.Validate(x)
					if tc.want && err != nil {
						t.Fatalf("expected %q to pass for %d, got %v", tc.rule, tc.value, err)
					}
					if !tc.want {
						var violation *ViolationError
						if !errors.As(err, &violation) {
							t.Fatalf("expected ViolationError, got %v", err)
						}
						if violation.Path != "/x" {
							t.Fatalf("expected path /x, got %q", violation.Path)
						}
					}
				})
			}
		})
	}
}

func TestRuleAsHintValidator(t *testing.T) {
	m := props.MustModel("server")
	port, err := props.NewInt("port", 8080, props.WithValidator(MustNew("value > 0 && value < 65536", WithMessage("port out of range"))))
	if err != nil {
		t.Fatalf("new port: %v", err)
	}
	if _, err := m.AddProperty(port); err != nil {
		t.Fatalf("add port: %v", err)
	}

	if err := props.Validate(m); err != nil {
		t.Fatalf("expected valid tree, got %v", err)
	}

	port.Set(70000)
	err = props.Validate(m)
	var validation *props.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validation.Path != "/port" {
		t.Fatalf("expected path /port, got %q", validation.Path)
	}
	if !strings.Contains(err.Error(), "port out of range") {
		t.Fatalf("expected custom message, got %q", err.Error())
	}
}

func TestRuleRejectsNonBooleanResult(t *testing.T) {
	_, x := buildLimits(t)
	rule := MustNew("value + 1")

	err := rule.Validate(x)
	if !errors.Is(err, ErrNotBoolean) {
		t.Fatalf("expected ErrNotBoolean, got %v", err)
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) || evalErr.Engine != "expr" {
		t.Fatalf("expected expr EvaluationError, got %v", err)
	}
}

func TestRuleEmptyExpression(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
}

func TestRuleDetachedPropertyHasNoSnapshot(t *testing.T) {
	flag, err := props.NewBool("flag", true)
	if err != nil {
		t.Fatalf("new flag: %v", err)
	}
	result, err := MustNew("value && path == 'flag'").Evaluate(flag)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if result != true {
		t.Fatalf("expected true, got %v", result)
	}
}

func TestRuleClockAndArgs(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	_, x := buildLimits(t)
	rule := MustNew("now.Year() == 2024 && value < args.max",
		WithClock(func() time.Time { return fixed }),
		WithArgs(map[string]any{"max": 5}),
	)
	if err := rule.Validate(x); err != nil {
		t.Fatalf("expected clock and args to be bound, got %v", err)
	}
}

func TestRuleLogsEvaluations(t *testing.T) {
	var events []EvaluationEvent
	_, x := buildLimits(t)
	rule := MustNew("value > 100", WithEvaluationLogger(EvaluationLoggerFunc(func(event EvaluationEvent) {
		events = append(events, event)
	})))

	if err := rule.Validate(x); err == nil {
		t.Fatalf("expected violation")
	}
	if len(events) != 1 {
		t.Fatalf("expected one log event, got %d", len(events))
	}
	if events[0].Engine != "expr" || events[0].Path != "/x" || events[0].Result != false {
		t.Fatalf("unexpected log event %+v", events[0])
	}
}

func TestCustomFunctionsAcrossEvaluators(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("equalsIgnoreCase", func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("equalsIgnoreCase expects 2 args")
		}
		a, _ := args[0].(string)
		b, _ := args[1].(string)
		return strings.EqualFold(a, b), nil
	}); err != nil {
		t.Fatalf("register equalsIgnoreCase: %v", err)
	}

	rulesByEngine := map[string]string{
		"expr": "equalsIgnoreCase(value, 'PROD')",
		"cel":  "call('equalsIgnoreCase', [value, 'PROD'])",
		"js":   "equalsIgnoreCase(value, 'PROD')",
	}

	for _, factory := range evaluatorFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			evaluator := newEvaluator(t, factory.name, nil, registry)
			env, err := props.NewString("env", "prod")
			if err != nil {
				t.Fatalf("new env: %v", err)
			}
			rule, err := New(rulesByEngine[factory.name], WithEvaluator(evaluator))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if err := rule.Validate(env); err != nil {
				t.Fatalf("expected custom function to match, got %v", err)
			}
			if err := env.FromString("staging"); err != nil {
				t.Fatalf("from string: %v", err)
			}
			if err := rule.Validate(env); err == nil {
				t.Fatalf("expected violation for staging")
			}
		})
	}
}

func TestEvaluatorProgramCache(t *testing.T) {
	for _, factory := range evaluatorFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			cache := NewMapCache()
			evaluator := newEvaluator(t, factory.name, cache, nil)
			ctx := RuleContext{Value: int64(3)}
			for i := 0; i < 3; i++ {
				result, err := evaluator.Evaluate(ctx, "value == 3")
				if err != nil {
					t.Fatalf("iteration %d: %v", i, err)
				}
				if result != true {
					t.Fatalf("iteration %d: expected true, got %v", i, result)
				}
			}
			if cache.Len() != 1 {
				t.Fatalf("expected one cached program, got %d", cache.Len())
			}
		})
	}
}

func TestEvaluateWithSnapshotContext(t *testing.T) {
	for _, factory := range evaluatorFactories {
		factory := factory
		t.Run(factory.name, func(t *testing.T) {
			evaluator := newEvaluator(t, factory.name, nil, nil)
			ctx := RuleContext{
				Snapshot: map[string]any{
					"features": map[string]any{"beta": true},
				},
			}
			result, err := evaluator.Evaluate(ctx, "features.beta")
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if result != true {
				t.Fatalf("expected snapshot lookup to be true, got %v", result)
			}
		})
	}
}

func TestRuleWithEngine(t *testing.T) {
	_, x := buildLimits(t)

	rule, err := New("value < limit", WithEngine(EngineCEL), WithProgramCache(NewMapCache()))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if rule.Engine() != EngineCEL {
		t.Fatalf("expected cel engine, got %q", rule.Engine())
	}
	if err := rule.Validate(x); err != nil {
		t.Fatalf("validate: %v", err)
	}

	_, err = New("value", WithEngine("lua"))
	if !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator for unknown engine, got %v", err)
	}

	_, err = New("value > 0", WithEngine(EngineJS))
	if JSAvailable() && err != nil {
		t.Fatalf("js engine available but compile failed: %v", err)
	}
	if !JSAvailable() && !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator without js_eval, got %v", err)
	}
}
