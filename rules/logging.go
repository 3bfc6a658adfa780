package rules

import "time"

// EvaluationEvent describes one rule evaluation.
type EvaluationEvent struct {
	Engine     string
	Expression string
	Path       string
	Elapsed    time.Duration
	Result     any
	Err        error
}

// Passed reports whether the evaluation succeeded with a true result.
func (e EvaluationEvent) Passed() bool {
	ok, _ := e.Result.(bool)
	return e.Err == nil && ok
}

// EvaluationLogger receives evaluation events.
type EvaluationLogger interface {
	LogEvaluation(EvaluationEvent)
}

// EvaluationLoggerFunc adapts a function to EvaluationLogger.
type EvaluationLoggerFunc func(EvaluationEvent)

// LogEvaluation implements EvaluationLogger.
func (f EvaluationLoggerFunc) LogEvaluation(event EvaluationEvent) {
	if f != nil {
		f(event)
	}
}

type discardEvaluations struct{}

func (discardEvaluations) LogEvaluation(EvaluationEvent) {}
