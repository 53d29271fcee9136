// Package spool implements the hand-off of positional records from the split
// stage to the join stage.
package spool

import (
	"context"
	"iter"
	"sync"

	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
)

var _ ports.RecordSpool = (*Memory)(nil)

// Memory is an unbounded in-memory spool. Records can be consumed while they
// are still being appended, so a translator that reads its whole input before
// answering never blocks the split stage.
type Memory struct {
	mu      sync.Mutex
	records []domain.Record
	closed  bool
	ready   chan struct{}
}

// NewMemory returns an empty in-memory spool.
func NewMemory() *Memory {
	return &Memory{ready: make(chan struct{}, 1)}
}

// Append adds rec to the spool.
func (m *Memory) Append(rec domain.Record) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return domain.ErrSpoolClosed
	}
	m.records = append(m.records, rec)
	m.mu.Unlock()
	m.signal()
	return nil
}

// Close marks the spool complete.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.signal()
	return nil
}

// Concurrent reports true: Records follows Append as it happens.
func (m *Memory) Concurrent() bool {
	return true
}

// Records yields the records in order, waiting for new ones until the spool
// is closed. Consumed records are released. Records supports a single reader.
func (m *Memory) Records(ctx context.Context) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		for {
			m.mu.Lock()
			if len(m.records) > 0 {
				rec := m.records[0]
				m.records[0] = domain.Record{}
				m.records = m.records[1:]
				m.mu.Unlock()
				if !yield(rec, nil) {
					return
				}
				continue
			}
			closed := m.closed
			m.mu.Unlock()
			if closed {
				return
			}

			select {
			case <-ctx.Done():
				yield(domain.Record{}, ctx.Err())
				return
			case <-m.ready:
			}
		}
	}
}

func (m *Memory) signal() {
	select {
	case m.ready <- struct{}{}:
	default:
	}
}
