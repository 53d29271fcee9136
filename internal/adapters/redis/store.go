// Package redis implements the Redis backend of the translation store.
package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	keySep    = ":"
	scanBatch = 500
)

var _ ports.TranslationStore = (*Store)(nil)

// Store keeps the entries of one namespace under "<prefix>:<namespace>:<key>".
type Store struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewStore connects to Redis and checks the connection.
func NewStore(ctx context.Context, cfg domain.RedisConfig, namespace string) (*Store, error) {
	rdb := newClient(cfg)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreOpenFailed.Error()), "addr", cfg.Addr)
	}
	return &Store{rdb: rdb, prefix: namespacePrefix(cfg, namespace), ttl: cfg.TTL}, nil
}

// Fetch reads the entry stored under key.
func (s *Store) Fetch(ctx context.Context, key domain.Key) (string, error) {
	value, err := s.rdb.Get(ctx, s.fullKey(key)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", key.String())
	}
	return value, nil
}

// Store writes value under key. A configured TTL applies to every write.
func (s *Store) Store(ctx context.Context, key domain.Key, value string) error {
	if err := s.rdb.Set(ctx, s.fullKey(key), value, s.ttl).Err(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key.String())
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) fullKey(key domain.Key) string {
	return s.prefix + key.String()
}

// Purge deletes every key of namespace.
func Purge(ctx context.Context, cfg domain.RedisConfig, namespace string) error {
	rdb := newClient(cfg)
	defer func() { _ = rdb.Close() }()

	pattern := escapeGlob(namespacePrefix(cfg, namespace)) + "*"
	iter := rdb.Scan(ctx, 0, pattern, scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := rdb.Del(ctx, batch...).Err(); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrStorePurgeFailed.Error()), "namespace", namespace)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStorePurgeFailed.Error()), "namespace", namespace)
	}
	if len(batch) > 0 {
		if err := rdb.Del(ctx, batch...).Err(); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrStorePurgeFailed.Error()), "namespace", namespace)
		}
	}
	return nil
}

func newClient(cfg domain.RedisConfig) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func namespacePrefix(cfg domain.RedisConfig, namespace string) string {
	if cfg.Prefix == "" {
		return namespace + keySep
	}
	return cfg.Prefix + keySep + namespace + keySep
}
