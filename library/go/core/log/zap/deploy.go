package zap

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDeployEncoderConfig returns an opinionated EncoderConfig for
// machine-readable output.
func NewDeployEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		StacktraceKey:  "stackTrace",
		TimeKey:        "@timestamp",
		CallerKey:      "caller",
		NameKey:        "loggerName",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// NewDeployConfig returns default configuration (with no sampling).
// Logs go to stderr so that query output on stdout stays clean.
func NewDeployConfig() zap.Config {
	return zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.DebugLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    NewDeployEncoderConfig(),
	}
}
