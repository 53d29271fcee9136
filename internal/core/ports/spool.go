package ports

import (
	"context"
	"iter"

	"go.trai.ch/xlcache/internal/core/domain"
)

// RecordWriter receives the positional records of a split stage.
type RecordWriter interface {
	// Append adds the next record.
	Append(rec domain.Record) error
	// Close marks the record stream complete. It is safe to call more than once.
	Close() error
}

// RecordSpool carries positional records from the split stage to the join stage.
type RecordSpool interface {
	RecordWriter

	// Records yields the records in the order they were appended.
	Records(ctx context.Context) iter.Seq2[domain.Record, error]

	// Concurrent reports whether Records may be consumed while records are
	// still being appended. When false, Records is only complete after Close.
	Concurrent() bool
}
