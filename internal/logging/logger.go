// Package logging configures the engine's structured logger. Since an LSP
// server's stdout is the JSON-RPC channel, all log output goes to stderr or
// to a rotating file, never to stdout.
package logging

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	global *zap.Logger = zap.NewNop()
)

// Options configures Init.
type Options struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string
	// File, if non-empty, additionally writes JSON logs to a
	// lumberjack-rotated file (spec: trace log for LSP clients that set
	// `--log-file`).
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init builds the global logger from opts and installs it as the package's
// singleton. Safe to call again to reconfigure (e.g. after a
// workspace/didChangeConfiguration notification changes the log level).
func Init(opts Options) error {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return fmt.Errorf("logging: invalid level %q: %w", opts.Level, err)
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stderr), level),
	}
	if opts.File != "" {
		sink := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    firstNonZero(opts.MaxSizeMB, 20),
			MaxBackups: firstNonZero(opts.MaxBackups, 5),
			MaxAge:     firstNonZero(opts.MaxAgeDays, 28),
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(sink), level))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	mu.Lock()
	global = logger
	mu.Unlock()
	return nil
}

func firstNonZero(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

// L returns the current global logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Sync flushes any buffered log entries. Call before process exit.
func Sync() {
	_ = L().Sync()
}

// Boot logs a boot/initialization-phase message at info level.
func Boot(format string, args ...interface{}) {
	L().Sugar().Infof(format, args...)
}

// BootDebug logs a boot/initialization-phase message at debug level.
func BootDebug(format string, args ...interface{}) {
	L().Sugar().Debugf(format, args...)
}

// BootError logs a boot/initialization-phase message at error level.
func BootError(format string, args ...interface{}) {
	L().Sugar().Errorf(format, args...)
}
