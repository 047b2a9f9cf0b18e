package logger

import (
	"context"
)

// Entry carries aggregatable metric fields (duration_ms, count, size, status).
type Entry struct {
	logger *Logger
	fields Fields
}

// With creates a new Entry with the given metric fields.
// Example: logger.With(logger.Fields{"count": 50}).WithDuration(1234).Info(ctx, "page loaded")
func With(fields Fields) *Entry {
	return &Entry{
		logger: GetDefault(),
		fields: fields,
	}
}

// With adds more fields to an existing Entry.
func (e *Entry) With(fields Fields) *Entry {
	merged := make(Fields, len(e.fields)+len(fields))
	for k, v := range e.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Entry{logger: e.logger, fields: merged}
}

// WithDuration adds a duration_ms field to the Entry.
func (e *Entry) WithDuration(ms int64) *Entry {
	return e.With(Fields{FieldDurationMs: ms})
}

// WithSize adds a size field (bytes) to the Entry.
func (e *Entry) WithSize(n int64) *Entry {
	return e.With(Fields{FieldSize: n})
}

// WithStatus adds the HTTP status of a backend response.
func (e *Entry) WithStatus(code int) *Entry {
	return e.With(Fields{FieldStatus: code})
}

// WithAction tags the line with a review action name.
func (e *Entry) WithAction(name string) *Entry {
	return e.With(Fields{FieldAction: name})
}

func (e *Entry) getLogger(ctx context.Context) *Logger {
	if ctx != nil {
		return FromContext(ctx)
	}
	return e.logger
}

// Debug logs at Debug level with metric fields.
func (e *Entry) Debug(ctx context.Context, format string, args ...interface{}) {
	e.getLogger(ctx).WithFields(e.fields).Debugf(format, args...)
}

// Info logs at Info level with metric fields.
func (e *Entry) Info(ctx context.Context, format string, args ...interface{}) {
	e.getLogger(ctx).WithFields(e.fields).Infof(format, args...)
}

// Warn logs at Warn level with metric fields.
func (e *Entry) Warn(ctx context.Context, format string, args ...interface{}) {
	e.getLogger(ctx).WithFields(e.fields).Warnf(format, args...)
}

// Error logs at Error level with metric fields.
func (e *Entry) Error(ctx context.Context, format string, args ...interface{}) {
	e.getLogger(ctx).WithFields(e.fields).Errorf(format, args...)
}
