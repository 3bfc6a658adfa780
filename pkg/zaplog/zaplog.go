// Package zaplog adapts go.uber.org/zap loggers to the logging hooks of
// props and rules.
package zaplog

import (
	"go.uber.org/zap"

	props "github.com/goliatone/go-props"
	"github.com/goliatone/go-props/rules"
)

// TreeLogger logs tree changes at debug level and activity failures at warn
// level. A nil logger yields a no-op logger.
func TreeLogger(logger *zap.Logger) props.TreeLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("props")
	return props.TreeLoggerFunc(func(event props.ChangeLogEvent) {
		fields := []zap.Field{
			zap.String("model", event.Model),
			zap.String("path", event.Path),
			zap.Bool("dirty", event.Dirty),
		}
		if event.Path == "" {
			fields = append(fields, zap.Bool("commit", true))
		}
		if event.Err != nil {
			logger.Warn("property tree event failed", append(fields, zap.Error(event.Err))...)
			return
		}
		logger.Debug("property tree changed", fields...)
	})
}

// RuleLogger logs rule evaluations at debug level, with passed=false for
// violations, and evaluation failures at warn level. A nil logger yields a
// no-op logger.
func RuleLogger(logger *zap.Logger) rules.EvaluationLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("rules")
	return rules.EvaluationLoggerFunc(func(event rules.EvaluationEvent) {
		fields := []zap.Field{
			zap.String("engine", event.Engine),
			zap.String("expression", event.Expression),
			zap.String("path", event.Path),
			zap.Duration("elapsed", event.Elapsed),
		}
		if event.Err != nil {
			logger.Warn("rule evaluation failed", append(fields, zap.Error(event.Err))...)
			return
		}
		logger.Debug("rule evaluated", append(fields, zap.Bool("passed", event.Passed()), zap.Any("result", event.Result))...)
	})
}
