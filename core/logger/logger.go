package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = zap.Must(zap.NewProduction(zap.AddCallerSkip(1))).Sugar()

// Init rebuilds the global logger for the configured level.
// Called once from server startup; the package works with
// production defaults before that.
func Init(level string) {
	cfg := zap.NewProductionConfig()
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	if cfg.Level.Level() == zapcore.DebugLevel {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	sugar = zap.Must(cfg.Build(zap.AddCallerSkip(1))).Sugar()
}

func Info(msg string, args ...any) {
	sugar.Infow(msg, args...)
}

func Warn(msg string, args ...any) {
	sugar.Warnw(msg, args...)
}

func Error(msg string, args ...any) {
	sugar.Errorw(msg, args...)
}

func Fatal(msg string, args ...any) {
	sugar.Fatalw(msg, args...)
}

func Sync() {
	_ = sugar.Sync()
}
