// Package storage opens the translation store selected by the configuration.
package storage

import (
	"context"

	"github.com/spf13/afero"
	"go.trai.ch/xlcache/internal/adapters/cas"
	"go.trai.ch/xlcache/internal/adapters/redis"
	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StoreOpener = (*Opener)(nil)

// Opener implements ports.StoreOpener for the file and Redis backends.
type Opener struct {
	fs afero.Fs
}

// NewOpener creates an Opener whose file backend lives on fs.
func NewOpener(fs afero.Fs) *Opener {
	return &Opener{fs: fs}
}

// Open opens the store of namespace on the configured backend.
func (o *Opener) Open(ctx context.Context, cfg domain.StoreConfig, namespace string) (ports.TranslationStore, error) {
	if namespace == "" {
		return nil, domain.ErrMissingNamespace
	}

	switch cfg.Backend {
	case domain.BackendFile:
		store, err := cas.NewStore(o.fs, cfg.Path, namespace)
		if err != nil {
			return nil, err
		}
		return store, nil
	case domain.BackendRedis:
		store, err := redis.NewStore(ctx, cfg.Redis, namespace)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownBackend, "open store"), "backend", cfg.Backend)
	}
}

// Purge removes every entry of namespace from the configured backend.
func (o *Opener) Purge(ctx context.Context, cfg domain.StoreConfig, namespace string) error {
	if namespace == "" {
		return domain.ErrMissingNamespace
	}

	switch cfg.Backend {
	case domain.BackendFile:
		return cas.Purge(o.fs, cfg.Path, namespace)
	case domain.BackendRedis:
		return redis.Purge(ctx, cfg.Redis, namespace)
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownBackend, "purge store"), "backend", cfg.Backend)
	}
}
