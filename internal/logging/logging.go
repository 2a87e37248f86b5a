package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a sugared zap logger so callers get the Infow/Warnw
// family without importing zap directly.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a console logger writing to stderr. With verbose
// set, debug output is enabled and callers are annotated.
func NewLogger(verbose bool) *Logger {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.DisableCaller = !verbose
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")

	return &Logger{zap.Must(cfg.Build()).Sugar()}
}

// NewNop returns a logger that discards everything. Used while the
// terminal UI owns the screen.
func NewNop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}
