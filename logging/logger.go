// Package logging holds the process-wide structured logger. Entries logged
// before Init are dropped.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = zap.NewNop().Sugar()

// Init builds the logger for appEnv: JSON in production, colourless console
// output anywhere else.
func Init(appEnv string) error {
	cfg := zap.NewDevelopmentConfig()
	if appEnv == "production" {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Use(l)
	return nil
}

// Use replaces the logger and returns a func restoring the previous one
func Use(l *zap.Logger) (restore func()) {
	prev := sugar
	sugar = l.Sugar()
	return func() { sugar = prev }
}

// Close flushes buffered entries
func Close() error {
	return sugar.Sync()
}

func Debug(msg string, kv ...interface{}) { sugar.Debugw(msg, kv...) }

func Info(msg string, kv ...interface{}) { sugar.Infow(msg, kv...) }

func Warn(msg string, kv ...interface{}) { sugar.Warnw(msg, kv...) }

func Error(msg string, kv ...interface{}) { sugar.Errorw(msg, kv...) }

// Fatal logs and exits with status 1
func Fatal(msg string, kv ...interface{}) { sugar.Fatalw(msg, kv...) }
