package domain

import (
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// RecordStatus tells whether a positional record was resolved from the cache.
type RecordStatus uint8

const (
	// StatusPending marks an item that has to go through the translator.
	// Its payload is the cache key.
	StatusPending RecordStatus = iota
	// StatusResolved marks an item whose translation was found in the cache.
	// Its payload is the cached translation.
	StatusResolved
)

const (
	pendingFlag  = "0"
	resolvedFlag = "1"
	fieldSep     = "\t"
)

// String returns a human readable status.
func (s RecordStatus) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Record is the positional record emitted by the split stage for every input
// item, in input order. Index is 1-based.
type Record struct {
	Index   int
	Status  RecordStatus
	Payload string
}

// ResolvedRecord builds a record for an item served from the cache.
func ResolvedRecord(index int, value string) Record {
	return Record{Index: index, Status: StatusResolved, Payload: value}
}

// PendingRecord builds a record for an item queued for translation.
func PendingRecord(index int, key Key) Record {
	return Record{Index: index, Status: StatusPending, Payload: key.String()}
}

// Key returns the cache key of a pending record.
func (r Record) Key() Key {
	return Key(r.Payload)
}

// MarshalText encodes the record as "flag<TAB>index<TAB>payload".
func (r Record) MarshalText() ([]byte, error) {
	if strings.ContainsAny(r.Payload, "\n") {
		return nil, zerr.With(zerr.Wrap(ErrMalformedRecord, "payload spans several lines"), "index", r.Index)
	}

	flag := pendingFlag
	if r.Status == StatusResolved {
		flag = resolvedFlag
	}

	var b strings.Builder
	b.Grow(len(r.Payload) + 16)
	b.WriteString(flag)
	b.WriteString(fieldSep)
	b.WriteString(strconv.Itoa(r.Index))
	b.WriteString(fieldSep)
	b.WriteString(r.Payload)
	return []byte(b.String()), nil
}

// ParseRecord decodes a line produced by MarshalText.
// Trailing whitespace is ignored and the payload may itself contain tabs.
func ParseRecord(line string) (Record, error) {
	fields := strings.SplitN(Canonicalize(line), fieldSep, 3)
	if len(fields) != 3 {
		return Record{}, zerr.With(zerr.Wrap(ErrMalformedRecord, "expected 3 tab separated fields"), "line", line)
	}

	index, err := strconv.Atoi(fields[1])
	if err != nil || index < 1 {
		return Record{}, zerr.With(zerr.Wrap(ErrMalformedRecord, "invalid sequence index"), "line", line)
	}

	switch fields[0] {
	case resolvedFlag:
		return ResolvedRecord(index, fields[2]), nil
	case pendingFlag:
		key, err := ParseKey(fields[2])
		if err != nil {
			return Record{}, zerr.With(zerr.Wrap(ErrMalformedRecord, "invalid pending key"), "line", line)
		}
		return PendingRecord(index, key), nil
	default:
		return Record{}, zerr.With(zerr.Wrap(ErrMalformedRecord, "invalid status flag"), "line", line)
	}
}
