// Package logging provides category-scoped loggers for hookmind, backed by
// zap. Logs are written to .hookmind/logs/ as JSON lines. When debug mode is
// off (the default), every logger is a no-op: the decision core runs inside
// short-lived hook invocations and must stay silent in production.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies a subsystem log stream.
type Category string

const (
	CategoryBoot        Category = "boot"
	CategorySignals     Category = "signals"
	CategoryCalibration Category = "calibration"
	CategoryRetry       Category = "retry"
	CategoryThrottle    Category = "throttle"
	CategoryUsage       Category = "usage"
	CategorySession     Category = "session"
)

var (
	mu      sync.RWMutex
	base    *zap.Logger = zap.NewNop()
	loggers             = make(map[Category]*zap.SugaredLogger)
)

// Initialize sets up file-backed logging under workspace/.hookmind/logs.
// A no-op unless debug is true. Safe to call more than once; the last call
// wins.
func Initialize(workspace string, debug bool, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if !debug {
		base = zap.NewNop()
		loggers = make(map[Category]*zap.SugaredLogger)
		return nil
	}
	if workspace == "" {
		return fmt.Errorf("workspace path required")
	}

	logsDir := filepath.Join(workspace, ".hookmind", "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	// One file per day keeps rotation trivial for the plugin wrapper.
	name := fmt.Sprintf("%s_hookmind.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(logsDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.EpochMillisTimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), parseLevel(level))

	base = zap.New(core)
	loggers = make(map[Category]*zap.SugaredLogger)

	base.Sugar().Named(string(CategoryBoot)).Infow("logging initialized",
		"workspace", workspace, "level", level)
	return nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns (or creates) the sugared logger for a category.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := base.Sugar().Named(string(category))
	loggers[category] = l
	return l
}

// Sync flushes buffered log entries. Call at process exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}
