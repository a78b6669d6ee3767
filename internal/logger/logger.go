// Package logger provides the process-wide logger for the PNLD ingest CLI.
// It is backed by zap. Informational lines are always written; debug lines
// appear only when verbose mode is enabled via the --verbose flag.
package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output formats accepted by SetFormat.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	mu      sync.RWMutex
	verbose bool
	format            = FormatConsole
	output  io.Writer = os.Stderr
	level             = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base    *zap.Logger
)

func init() {
	rebuild()
}

// rebuild constructs the zap core from the current settings (caller must hold lock).
func rebuild() {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if format == FormatJSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	base = zap.New(zapcore.NewCore(enc, zapcore.AddSync(output), level))
}

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// SetFormat selects the console or JSON encoder. Unknown values fall back to console.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	if f != FormatJSON {
		f = FormatConsole
	}
	format = f
	rebuild()
}

// L returns the underlying zap logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// With returns a child logger carrying the given fields.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = L().Sync()
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	L().Sugar().Debugf(format, args...)
}

// Section logs a section header if verbose mode is enabled.
func Section(name string) {
	L().Sugar().Debugf("=== %s ===", name)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	L().Sugar().Infof(format, args...)
}

// Warn logs a warning.
func Warn(format string, args ...any) {
	L().Sugar().Warnf(format, args...)
}

// Error logs an error.
func Error(format string, args ...any) {
	L().Sugar().Errorf(format, args...)
}
