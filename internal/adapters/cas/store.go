// Package cas implements the file backend of the translation store: one file
// per entry, addressed by its cache key.
package cas

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"go.trai.ch/zerr"
)

const tempPattern = ".entry-*"

var _ ports.TranslationStore = (*Store)(nil)

// Store keeps the entries of one namespace under
// <root>/<namespace digest>/<key[0:2]>/<key>.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore opens the namespace store below root, creating its directory.
func NewStore(fs afero.Fs, root, namespace string) (*Store, error) {
	dir := NamespaceDir(root, namespace)
	if err := fs.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreOpenFailed.Error()), "path", dir)
	}

	marker := filepath.Join(dir, domain.NamespaceFileName)
	if err := afero.WriteFile(fs, marker, []byte(namespace+"\n"), domain.FilePerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreOpenFailed.Error()), "path", marker)
	}

	return &Store{fs: fs, dir: dir}, nil
}

// NamespaceDir returns the directory holding the entries of namespace.
// The namespace is hashed so any string is a valid namespace.
func NamespaceDir(root, namespace string) string {
	return filepath.Join(root, fmt.Sprintf("%016x", xxhash.Sum64String(namespace)))
}

// Purge removes every entry of namespace.
func Purge(fs afero.Fs, root, namespace string) error {
	dir := NamespaceDir(root, namespace)
	if err := fs.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStorePurgeFailed.Error()), "path", dir)
	}
	return nil
}

// Fetch reads the entry stored under key.
func (s *Store) Fetch(_ context.Context, key domain.Key) (string, error) {
	path := s.entryPath(key)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrNotFound
		}
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", key.String())
	}
	return string(data), nil
}

// Store writes value under key. The value is written to a temporary file and
// renamed into place so readers never observe a partial entry.
func (s *Store) Store(_ context.Context, key domain.Key, value string) error {
	path := s.entryPath(key)
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key.String())
	}

	tmp, err := afero.TempFile(s.fs, dir, tempPattern)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key.String())
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.WriteString(value)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = s.fs.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key.String())
	}

	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key.String())
	}
	return nil
}

// Close is a no-op; every Store call is durable on return.
func (s *Store) Close() error {
	return nil
}

func (s *Store) entryPath(key domain.Key) string {
	k := key.String()
	return filepath.Join(s.dir, k[:2], k)
}
