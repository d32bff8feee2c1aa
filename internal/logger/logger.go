// Package logger provides leveled logging for kbqa.
//
// In CLI mode, messages are printed to stderr only when verbose mode is
// enabled via the --verbose flag. Long-running surfaces that own the
// terminal (TUI, MCP over stdio) switch to a rotating JSON log file with
// SetFile instead.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	rotator *lumberjack.Logger
	sugar   = zap.NewNop().Sugar()
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	rebuild()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for console logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// SetFile routes logs to a size-rotated JSON file instead of the console.
// Info and above are always written; Debug only in verbose mode.
// An empty path restores console logging.
func SetFile(path string) error {
	mu.Lock()
	defer mu.Unlock()

	closeRotator()
	if path == "" {
		rebuild()
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	rotator = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	rebuild()
	return nil
}

// Close flushes buffered entries and releases the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	_ = sugar.Sync()
	err := closeRotator()
	rebuild()
	return err
}

// Debug logs a diagnostic message.
func Debug(format string, args ...any) {
	current().Debugf(format, args...)
}

// Section logs a section header.
func Section(name string) {
	current().Infof("=== %s ===", name)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	current().Infof(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	current().Warnf(format, args...)
}

// Error logs a failure. Errors are written even when verbose mode is off.
func Error(format string, args ...any) {
	current().Errorf(format, args...)
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func closeRotator() error {
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

// rebuild must be called with mu held.
func rebuild() {
	level := zapcore.ErrorLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	var core zapcore.Core
	if rotator != nil {
		if !verbose {
			level = zapcore.InfoLevel
		}
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(rotator), level)
	} else {
		cfg := zapcore.EncoderConfig{
			LevelKey:         "level",
			MessageKey:       "msg",
			EncodeLevel:      bracketLevelEncoder,
			ConsoleSeparator: " ",
		}
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(zapcore.AddSync(output)), level)
	}

	sugar = zap.New(core).Sugar()
}

func bracketLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + l.CapitalString() + "]")
}
