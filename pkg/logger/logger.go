package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string
	// ServiceName is attached to every log entry
	ServiceName string
	// Development enables human-readable console output
	Development bool
}

// Logger wraps zap.Logger
type Logger struct {
	zap *zap.Logger
}

var (
	global *Logger
	mu     sync.RWMutex
)

// Init initializes the global logger
func Init(cfg *Config) error {
	if cfg == nil {
		cfg = &Config{Level: "info", ServiceName: "revticket"}
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(normalizeLevel(cfg.Level))); err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	z, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	if cfg.ServiceName != "" {
		z = z.With(zap.String("service", cfg.ServiceName))
	}

	mu.Lock()
	global = &Logger{zap: z}
	mu.Unlock()
	return nil
}

// Get returns the global logger, initializing a default one if needed
func Get() *Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	// Fall back to a no-frills production logger so callers never get nil
	_ = Init(nil)
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Sync flushes buffered log entries
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if global != nil {
		_ = global.zap.Sync()
	}
}

// normalizeLevel maps environment names used in config to zap levels
func normalizeLevel(level string) string {
	switch level {
	case "development", "dev":
		return "debug"
	case "production", "prod", "staging":
		return "info"
	}
	return level
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...zap.Field) { l.zap.Debug(msg, fields...) }

// Info logs an info message
func (l *Logger) Info(msg string, fields ...zap.Field) { l.zap.Info(msg, fields...) }

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...zap.Field) { l.zap.Warn(msg, fields...) }

// Error logs an error message
func (l *Logger) Error(msg string, fields ...zap.Field) { l.zap.Error(msg, fields...) }

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string, fields ...zap.Field) { l.zap.Fatal(msg, fields...) }

// With returns a child logger with the given fields attached
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(fields...)}
}
