package nop

import (
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log"
)

// Logger that does nothing
type Logger struct{}

var _ log.Logger = &Logger{}

func (l *Logger) Trace(msg string, fields ...log.Field) {}

func (l *Logger) Debug(msg string, fields ...log.Field) {}

func (l *Logger) Info(msg string, fields ...log.Field) {}

func (l *Logger) Warn(msg string, fields ...log.Field) {}

func (l *Logger) Error(msg string, fields ...log.Field) {}

func (l *Logger) Debugf(format string, args ...any) {}

func (l *Logger) WithName(name string) log.Logger { return l }
