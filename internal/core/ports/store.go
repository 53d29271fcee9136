package ports

import (
	"context"

	"go.trai.ch/xlcache/internal/core/domain"
)

// TranslationStore is the persistent key-value contract of the cache.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type TranslationStore interface {
	// Fetch returns the translation stored under key.
	// It returns domain.ErrNotFound when the key is absent.
	Fetch(ctx context.Context, key domain.Key) (string, error)

	// Store upserts the translation for key. Storing the same pair twice is harmless.
	Store(ctx context.Context, key domain.Key, value string) error

	// Close flushes and releases the store.
	Close() error
}

// StoreOpener opens the store of a namespace.
type StoreOpener interface {
	// Open opens, creating it if needed, the store of namespace.
	Open(ctx context.Context, cfg domain.StoreConfig, namespace string) (TranslationStore, error)

	// Purge removes every entry of namespace.
	Purge(ctx context.Context, cfg domain.StoreConfig, namespace string) error
}
