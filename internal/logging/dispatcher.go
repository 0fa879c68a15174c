package logging

import "log/slog"

// DispatcherLogger adapts *slog.Logger to the small Debug/Info/Error logger
// interfaces used by the dispatcher, plugin, feed and HTTP bridge.
type DispatcherLogger struct {
	logger *slog.Logger
}

// NewDispatcherLogger creates a new DispatcherLogger. A nil logger falls back
// to slog.Default.
func NewDispatcherLogger(logger *slog.Logger) *DispatcherLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &DispatcherLogger{logger: logger}
}

func (l *DispatcherLogger) Debug(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *DispatcherLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *DispatcherLogger) Error(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

// With returns a logger that adds the given attributes to every record.
func (l *DispatcherLogger) With(keysAndValues ...any) *DispatcherLogger {
	return &DispatcherLogger{logger: l.logger.With(keysAndValues...)}
}
