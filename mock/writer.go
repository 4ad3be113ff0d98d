package mock

import (
	"context"

	"github.com/fwojciec/erldoc"
)

// Compile-time interface verification.
var (
	_ erldoc.RecordWriter = (*RecordWriter)(nil)
	_ erldoc.TagWriter    = (*TagWriter)(nil)
	_ erldoc.RecordStore  = (*RecordStore)(nil)
)

// RecordWriter is a mock implementation of erldoc.RecordWriter.
type RecordWriter struct {
	WriteRecordsFn func(ctx context.Context, locales []erldoc.Locale, rec *erldoc.DocRecord) error
}

func (w *RecordWriter) WriteRecords(ctx context.Context, locales []erldoc.Locale, rec *erldoc.DocRecord) error {
	return w.WriteRecordsFn(ctx, locales, rec)
}

// TagWriter is a mock implementation of erldoc.TagWriter.
type TagWriter struct {
	WriteTagsFn func(ctx context.Context, index erldoc.TagIndex) error
}

func (w *TagWriter) WriteTags(ctx context.Context, index erldoc.TagIndex) error {
	return w.WriteTagsFn(ctx, index)
}

// RecordStore is a mock implementation of erldoc.RecordStore.
type RecordStore struct {
	FindRecordsFn func(ctx context.Context, locale erldoc.Locale) ([]*erldoc.DocRecord, error)
}

func (s *RecordStore) FindRecords(ctx context.Context, locale erldoc.Locale) ([]*erldoc.DocRecord, error) {
	return s.FindRecordsFn(ctx, locale)
}
