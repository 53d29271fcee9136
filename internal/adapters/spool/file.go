package spool

import (
	"bufio"
	"context"
	"errors"
	"iter"
	"os"
	"sync"

	"github.com/spf13/afero"
	"go.trai.ch/xlcache/internal/adapters/lines"
	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.RecordSpool = (*File)(nil)

// File spools records to a file, one "flag<TAB>index<TAB>payload" line per
// record. The file is complete, and Records readable, only after Close.
type File struct {
	fs   afero.Fs
	path string

	mu     sync.Mutex
	file   afero.File
	bw     *bufio.Writer
	closed bool
}

// NewFile creates, or truncates, the record file at path.
func NewFile(fs afero.Fs, path string) (*File, error) {
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.PrivateFilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSpoolCreateFailed.Error()), "path", path)
	}
	return &File{fs: fs, path: path, file: f, bw: bufio.NewWriter(f)}, nil
}

// OpenFile opens an existing record file for reading.
func OpenFile(fs afero.Fs, path string) (*File, error) {
	if _, err := fs.Stat(path); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSpoolReadFailed.Error()), "path", path)
	}
	return &File{fs: fs, path: path, closed: true}, nil
}

// Path returns the location of the record file.
func (f *File) Path() string {
	return f.path
}

// Append writes rec as the next line of the file.
func (f *File) Append(rec domain.Record) error {
	text, err := rec.MarshalText()
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return domain.ErrSpoolClosed
	}
	if _, err := f.bw.Write(text); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSpoolWriteFailed.Error()), "path", f.path)
	}
	if err := f.bw.WriteByte('\n'); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSpoolWriteFailed.Error()), "path", f.path)
	}
	return nil
}

// Close flushes and closes the file.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	flushErr := f.bw.Flush()
	closeErr := f.file.Close()
	if err := errors.Join(flushErr, closeErr); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrSpoolWriteFailed.Error()), "path", f.path)
	}
	return nil
}

// Concurrent reports false: the file has to be closed before it is read.
func (f *File) Concurrent() bool {
	return false
}

// Records reads the records back from the file.
func (f *File) Records(ctx context.Context) iter.Seq2[domain.Record, error] {
	return func(yield func(domain.Record, error) bool) {
		f.mu.Lock()
		closed := f.closed
		f.mu.Unlock()
		if !closed {
			yield(domain.Record{}, zerr.With(zerr.Wrap(domain.ErrSpoolReadFailed, "record file still open"), "path", f.path))
			return
		}

		file, err := f.fs.Open(f.path)
		if err != nil {
			yield(domain.Record{}, zerr.With(zerr.Wrap(err, domain.ErrSpoolReadFailed.Error()), "path", f.path))
			return
		}
		defer func() { _ = file.Close() }()

		n := 0
		for line, err := range lines.Read(file) {
			if err != nil {
				yield(domain.Record{}, zerr.With(zerr.Wrap(err, domain.ErrSpoolReadFailed.Error()), "path", f.path))
				return
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield(domain.Record{}, ctxErr)
				return
			}
			n++
			rec, err := domain.ParseRecord(line)
			if err != nil {
				yield(domain.Record{}, zerr.With(zerr.With(err, "path", f.path), "line_number", n))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Remove closes the spool and deletes the record file.
func (f *File) Remove() error {
	closeErr := f.Close()
	if err := f.fs.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Join(closeErr, zerr.With(zerr.Wrap(err, domain.ErrSpoolWriteFailed.Error()), "path", f.path))
	}
	return closeErr
}
