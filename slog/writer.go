package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/erldoc"
)

// Compile-time interface verification.
var (
	_ erldoc.RecordWriter = (*LoggingRecordWriter)(nil)
	_ erldoc.TagWriter    = (*LoggingTagWriter)(nil)
)

// LoggingRecordWriter wraps a RecordWriter with logging.
type LoggingRecordWriter struct {
	next   erldoc.RecordWriter
	logger *slog.Logger
}

// NewLoggingRecordWriter creates a new LoggingRecordWriter.
func NewLoggingRecordWriter(next erldoc.RecordWriter, logger *slog.Logger) *LoggingRecordWriter {
	return &LoggingRecordWriter{next: next, logger: logger}
}

// WriteRecords delegates to the wrapped writer and logs the operation.
func (w *LoggingRecordWriter) WriteRecords(ctx context.Context, locales []erldoc.Locale, rec *erldoc.DocRecord) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("write record",
			"locales", locales,
			"module", rec.Name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteRecords(ctx, locales, rec)
}

// LoggingTagWriter wraps a TagWriter with logging.
type LoggingTagWriter struct {
	next   erldoc.TagWriter
	logger *slog.Logger
}

// NewLoggingTagWriter creates a new LoggingTagWriter.
func NewLoggingTagWriter(next erldoc.TagWriter, logger *slog.Logger) *LoggingTagWriter {
	return &LoggingTagWriter{next: next, logger: logger}
}

// WriteTags delegates to the wrapped writer and logs the operation.
func (w *LoggingTagWriter) WriteTags(ctx context.Context, index erldoc.TagIndex) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("write tags",
			"count", len(index),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteTags(ctx, index)
}
