// Package log defines the logger interface accepted by the SDK clients.
package log

import (
	"context"
	"fmt"

	"github.com/harmonyconnect/harmony-sdk-go/pkg/logtrace"
)

// Logger is a leveled, key/value structured logger.
type Logger interface {
	Debug(ctx context.Context, msg string, keysAndValues ...interface{})
	Info(ctx context.Context, msg string, keysAndValues ...interface{})
	Warn(ctx context.Context, msg string, keysAndValues ...interface{})
	Error(ctx context.Context, msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

// NewNoopLogger returns a Logger that discards everything.
func NewNoopLogger() Logger { return noopLogger{} }

func (noopLogger) Debug(context.Context, string, ...interface{}) {}
func (noopLogger) Info(context.Context, string, ...interface{})  {}
func (noopLogger) Warn(context.Context, string, ...interface{})  {}
func (noopLogger) Error(context.Context, string, ...interface{}) {}

// traceLogger forwards to pkg/logtrace, tagging every line with a module.
type traceLogger struct {
	module string
}

// NewTraceLogger returns a Logger backed by the process-wide logtrace logger.
func NewTraceLogger(module string) Logger {
	return traceLogger{module: module}
}

func (l traceLogger) Debug(ctx context.Context, msg string, kv ...interface{}) {
	logtrace.Debug(ctx, msg, l.fields(kv))
}

func (l traceLogger) Info(ctx context.Context, msg string, kv ...interface{}) {
	logtrace.Info(ctx, msg, l.fields(kv))
}

func (l traceLogger) Warn(ctx context.Context, msg string, kv ...interface{}) {
	logtrace.Warn(ctx, msg, l.fields(kv))
}

func (l traceLogger) Error(ctx context.Context, msg string, kv ...interface{}) {
	logtrace.Error(ctx, msg, l.fields(kv))
}

func (l traceLogger) fields(kv []interface{}) logtrace.Fields {
	fields := logtrace.Fields{}
	if l.module != "" {
		fields[logtrace.FieldModule] = l.module
	}
	for i := 0; i < len(kv); i += 2 {
		key := fmt.Sprint(kv[i])
		if i+1 >= len(kv) {
			fields[key] = "(MISSING)"
			break
		}
		fields[key] = kv[i+1]
	}
	return fields
}
