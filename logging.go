package props

// ChangeLogEvent describes one published tree change.
type ChangeLogEvent struct {
	Model string
	Path  string
	Dirty bool
	Err   error
}

// TreeLogger records tree change events.
type TreeLogger interface {
	LogChange(ChangeLogEvent)
}

// TreeLoggerFunc adapts a function to TreeLogger.
type TreeLoggerFunc func(ChangeLogEvent)

// LogChange implements TreeLogger.
func (f TreeLoggerFunc) LogChange(event ChangeLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopTreeLogger struct{}

func (noopTreeLogger) LogChange(ChangeLogEvent) {}

// WithTreeLogger attaches a logger to a model. Each model logs only the
// events it publishes itself.
func WithTreeLogger(logger TreeLogger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopTreeLogger{}
			return
		}
		cfg.logger = logger
	}
}

func (a *Ambassador) treeLogger() TreeLogger {
	if a.logger != nil {
		return a.logger
	}
	return noopTreeLogger{}
}

func (a *Ambassador) logChange(path string) {
	a.treeLogger().LogChange(ChangeLogEvent{
		Model: a.name,
		Path:  path,
		Dirty: a.dirty,
	})
}
