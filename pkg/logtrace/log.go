// Package logtrace is the process-wide structured logger. It wraps a zap
// logger and enriches every line with the correlation id and origin found
// in the context.
package logtrace

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Setup installs a zap logger for the given service. env "dev" selects the
// colored console encoder; anything else logs JSON. level is one of
// debug, info, warn, error.
func Setup(service, env, level string) {
	lvl := zap.NewAtomicLevelAt(parseLevel(level))

	var encCfg zapcore.EncoderConfig
	var encoder zapcore.Encoder
	if env == "dev" {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), lvl)
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2), zap.AddStacktrace(zap.ErrorLevel)).
		With(zap.String("service", service))

	SetLogger(l)
}

// SetLogger replaces the underlying zap logger. Tests use it with
// zaptest/observer.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Sync flushes buffered log entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func Debug(ctx context.Context, msg string, fields Fields) {
	write(zapcore.DebugLevel, ctx, msg, fields)
}

func Info(ctx context.Context, msg string, fields Fields) {
	write(zapcore.InfoLevel, ctx, msg, fields)
}

func Warn(ctx context.Context, msg string, fields Fields) {
	write(zapcore.WarnLevel, ctx, msg, fields)
}

func Error(ctx context.Context, msg string, fields Fields) {
	write(zapcore.ErrorLevel, ctx, msg, fields)
}

// Fatal logs and exits the process.
func Fatal(ctx context.Context, msg string, fields Fields) {
	write(zapcore.FatalLevel, ctx, msg, fields)
}

func write(level zapcore.Level, ctx context.Context, msg string, fields Fields) {
	mu.RLock()
	l := logger
	mu.RUnlock()

	if ce := l.Check(level, msg); ce != nil {
		ce.Write(toZapFields(ctx, fields)...)
	}
}

func toZapFields(ctx context.Context, fields Fields) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+2)
	if cid := extractCorrelationID(ctx); cid != "unknown" {
		out = append(out, zap.String(FieldCorrelationID, cid))
	}
	if origin := OriginFromContext(ctx); origin != "" {
		out = append(out, zap.String(FieldOrigin, origin))
	}
	for k, v := range fields {
		if err, ok := v.(error); ok {
			out = append(out, zap.String(k, err.Error()))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
