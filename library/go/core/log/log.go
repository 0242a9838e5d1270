package log

// Logger is the logger used across the adapter. Every component receives it
// explicitly; there is no global instance.
type Logger interface {
	// Trace logs at Trace log level using fields
	Trace(msg string, fields ...Field)
	// Debug logs at Debug log level using fields
	Debug(msg string, fields ...Field)
	// Info logs at Info log level using fields
	Info(msg string, fields ...Field)
	// Warn logs at Warn log level using fields
	Warn(msg string, fields ...Field)
	// Error logs at Error log level using fields
	Error(msg string, fields ...Field)

	// Debugf logs at Debug log level using fmt formatter.
	// Mostly needed to plug third-party debug callbacks in.
	Debugf(format string, args ...any)

	// WithName returns logger with a name segment appended
	WithName(name string) Logger
}

// LoggerWith provides interface for logger modifications.
type LoggerWith interface {
	// With implements 'With'
	With(fields ...Field) Logger
}

// With for loggers that implement LoggerWith interface, returns logger that
// always adds provided key/value to every log entry. Otherwise returns same logger.
func With(l Logger, fields ...Field) Logger {
	e, ok := l.(LoggerWith)
	if !ok {
		return l
	}

	return e.With(fields...)
}
