package probe

// Logger is an optional logging interface that can be provided to the
// prober. *slog.Logger implements it.
//
// Example with the standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

// logSink forwards to a Logger if one is configured.
type logSink struct {
	logger Logger
}

func (l logSink) logDebug(msg string, keysAndValues ...interface{}) {
	if l.logger != nil {
		l.logger.Debug(msg, keysAndValues...)
	}
}

func (l logSink) logInfo(msg string, keysAndValues ...interface{}) {
	if l.logger != nil {
		l.logger.Info(msg, keysAndValues...)
	}
}

func (l logSink) logError(msg string, keysAndValues ...interface{}) {
	if l.logger != nil {
		l.logger.Error(msg, keysAndValues...)
	}
}
