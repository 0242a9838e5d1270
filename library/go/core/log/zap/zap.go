package zap

import (
	"fmt"

	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// callerSkip is number of stack frames to skip when logging caller
const callerSkip = 1

// Logger implements log.Logger interface
type Logger struct {
	L *zap.Logger
}

var _ log.Logger = &Logger{}
var _ log.LoggerWith = &Logger{}

// New constructs zap-based logger from provided config
func New(cfg zap.Config) (*Logger, error) {
	zl, err := cfg.Build(zap.AddCallerSkip(callerSkip))
	if err != nil {
		return nil, err
	}

	return &Logger{L: zl}, nil
}

// NewWithCore constructs zap-based logger from provided core
func NewWithCore(core zapcore.Core, options ...zap.Option) *Logger {
	options = append(options, zap.AddCallerSkip(callerSkip))

	return &Logger{L: zap.New(core, options...)}
}

// ConsoleConfig returns zap config for logging to console (zap's console encoder)
func ConsoleConfig(level log.Level) zap.Config {
	cfg := NewDeployConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(ZapifyLevel(level))
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return cfg
}

// With returns logger that always adds provided key/value to every log entry
func (l *Logger) With(fields ...log.Field) log.Logger {
	return &Logger{L: l.L.With(zapifyFields(fields...)...)}
}

// WithName adds name to logger
func (l *Logger) WithName(name string) log.Logger {
	return &Logger{L: l.L.Named(name)}
}

// Trace logs at Trace log level using fields. Zap has no trace level, so it goes to Debug.
func (l *Logger) Trace(msg string, fields ...log.Field) {
	l.write(zap.DebugLevel, msg, fields)
}

func (l *Logger) Debug(msg string, fields ...log.Field) {
	l.write(zap.DebugLevel, msg, fields)
}

func (l *Logger) Info(msg string, fields ...log.Field) {
	l.write(zap.InfoLevel, msg, fields)
}

func (l *Logger) Warn(msg string, fields ...log.Field) {
	l.write(zap.WarnLevel, msg, fields)
}

func (l *Logger) Error(msg string, fields ...log.Field) {
	l.write(zap.ErrorLevel, msg, fields)
}

// Debugf logs at Debug log level using fmt formatter
func (l *Logger) Debugf(format string, args ...any) {
	if ce := l.L.Check(zap.DebugLevel, ""); ce != nil {
		ce.Message = fmt.Sprintf(format, args...)
		ce.Write()
	}
}

func (l *Logger) write(lvl zapcore.Level, msg string, fields []log.Field) {
	if ce := l.L.Check(lvl, msg); ce != nil {
		ce.Write(zapifyFields(fields...)...)
	}
}
