package utils

import (
	"fmt"
	"io"
	"testing"

	"github.com/ydb-platform/clickhouse-adapter/app/config"
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log"
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log/zap"
	"go.uber.org/zap/zaptest"
)

func AnnotateLogger(logger log.Logger, method string, opts *config.ConnectionOptions) log.Logger {
	logger = log.With(logger, log.String("method", method))

	if opts != nil {
		logger = log.With(logger,
			log.String("host", opts.Host),
			log.String("port", opts.Port),
			log.String("database", opts.Database),
			log.String("user", opts.User),
			log.Bool("use_tls", opts.Secure),
		)
	}

	return logger
}

func LogCloserError(logger log.Logger, closer io.Closer, msg string) {
	if err := closer.Close(); err != nil {
		logger.Error(msg, log.Error(err))
	}
}

func NewLoggerFromConfig(cfg *config.LoggerConfig) (log.Logger, error) {
	if cfg == nil {
		return NewDefaultLogger()
	}

	logger, err := zap.New(zap.ConsoleConfig(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}

	return logger, nil
}

func NewDefaultLogger() (log.Logger, error) {
	return NewLoggerFromConfig(&config.LoggerConfig{Level: log.InfoLevel})
}

func NewTestLogger(t *testing.T) log.Logger { return &zap.Logger{L: zaptest.NewLogger(t)} }

type QueryLoggerFactory struct {
	enableQueryLogging bool
}

func NewQueryLoggerFactory(cfg *config.LoggerConfig) QueryLoggerFactory {
	var enabled bool
	if cfg != nil {
		enabled = cfg.EnableSQLQueryLogging
	}

	return QueryLoggerFactory{enableQueryLogging: enabled}
}

func (f *QueryLoggerFactory) Make(logger log.Logger) QueryLogger {
	return QueryLogger{Logger: logger, enabled: f.enableQueryLogging}
}

type QueryLogger struct {
	log.Logger
	enabled bool
}

func (ql *QueryLogger) Dump(query string, args ...any) {
	if !ql.enabled {
		return
	}

	logFields := []log.Field{log.String("query", query)}
	if len(args) > 0 {
		logFields = append(logFields, log.Any("args", args))
	}

	ql.Debug("execute SQL query", logFields...)
}
