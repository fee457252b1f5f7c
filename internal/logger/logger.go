// Package logger provides a zap-backed structured logger shared by all
// commands and components.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.Mutex
	log *zap.SugaredLogger
)

// Initialize sets up the global logger. Debug mode switches to a
// human-readable development encoder and enables debug-level output.
// Logs go to stderr so stdout stays clean for command output.
func Initialize(debug bool) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(debug)
}

func newLogger(debug bool) *zap.SugaredLogger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// zap config above is static; a build failure is a programming error
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		l = zap.NewNop()
	}
	return l.Sugar()
}

// get returns the global logger, initializing a default one if a
// component logs before Initialize is called.
func get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		log = newLogger(false)
	}
	return log
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) { get().Debugf(format, args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { get().Infof(format, args...) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) { get().Warnf(format, args...) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) { get().Errorf(format, args...) }

// Infow logs a message with structured key/value pairs.
func Infow(msg string, keysAndValues ...any) { get().Infow(msg, keysAndValues...) }

// Errorw logs an error message with structured key/value pairs.
func Errorw(msg string, keysAndValues ...any) { get().Errorw(msg, keysAndValues...) }

// Sync flushes buffered log entries. Safe to call on exit.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if log != nil {
		_ = log.Sync()
	}
}
