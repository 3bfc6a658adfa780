package rules

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoEvaluator is returned when no engine can be resolved for a rule.
	ErrNoEvaluator = errors.New("rules: evaluator not configured")
	// ErrEmptyExpression rejects rules without an expression.
	ErrEmptyExpression = errors.New("rules: expression must not be empty")
	// ErrNotBoolean is wrapped when a validation rule yields a non-bool.
	ErrNotBoolean = errors.New("rules: validation expression must yield a bool")

	errMissingEvaluator = errors.New("compiled rule missing evaluator")
)

// EvaluationError is a compile or runtime failure of an expression.
type EvaluationError struct {
	Engine     string
	Expression string
	// Path is the property the expression ran against, empty at compile time.
	Path string
	Err  error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	where := ""
	if e.Path != "" {
		where = " at " + e.Path
	}
	return fmt.Sprintf("rules: %s %s%s: %v", e.Engine, quoteExpression(e.Expression), where, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ViolationError reports a validation rule that evaluated to false.
type ViolationError struct {
	Expression string
	Path       string
	Message    string
}

func (e *ViolationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return fmt.Sprintf("rules: %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("rules: %s violates %s", e.Path, quoteExpression(e.Expression))
}

func quoteExpression(expression string) string {
	if expression == "" {
		return "<empty>"
	}
	return fmt.Sprintf("%q", expression)
}

// wrapEvaluatorError prefixes engine failures that carry no rules context.
func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) || strings.HasPrefix(err.Error(), "rules:") {
		return err
	}
	return fmt.Errorf("rules: %s: %w", engine, err)
}

// wrapEvaluationError returns err as an *EvaluationError, filling the
// fields an inner error left empty.
func wrapEvaluationError(engine, expression, path string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expression == "" {
			evalErr.Expression = expression
		}
		if evalErr.Path == "" {
			evalErr.Path = path
		}
		return evalErr
	}
	return &EvaluationError{
		Engine:     engine,
		Expression: expression,
		Path:       path,
		Err:        err,
	}
}
