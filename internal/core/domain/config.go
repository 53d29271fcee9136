package domain

import (
	"time"

	"go.trai.ch/zerr"
)

const (
	// BackendFile stores one file per entry under the store path.
	BackendFile = "file"
	// BackendRedis stores entries in a Redis database.
	BackendRedis = "redis"

	// SpoolMemory keeps positional records in memory while the pipeline runs.
	SpoolMemory = "memory"
	// SpoolFile writes positional records to a temporary file.
	SpoolFile = "file"

	// DefaultBuffer is the default capacity of the channels between stages.
	DefaultBuffer = 1024

	// DefaultRedisAddr is the Redis address used when none is configured.
	DefaultRedisAddr = "localhost:6379"

	// DefaultRedisPrefix prefixes every Redis key written by the cache.
	DefaultRedisPrefix = "xlcache"
)

// Config is the resolved configuration of a run.
type Config struct {
	// Namespace identifies an independent cache, e.g. one per language pair.
	Namespace  string
	Store      StoreConfig
	Translator TranslatorSpec
	Pipeline   PipelineConfig
}

// StoreConfig selects and configures the persistent store.
type StoreConfig struct {
	Backend string
	Path    string
	Redis   RedisConfig
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// TranslatorSpec describes the external translator process.
type TranslatorSpec struct {
	// Command is the executable followed by its arguments.
	Command []string
	// Dir is the working directory of the process. Empty means the current one.
	Dir string
	// Env holds variables added to the process environment.
	Env map[string]string
}

// PipelineConfig tunes the pipeline.
type PipelineConfig struct {
	Buffer   int
	Spool    string
	SpoolDir string
	// Strict turns integrity warnings into a failing exit status.
	Strict bool
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    DefaultStorePath(),
			Redis: RedisConfig{
				Addr:   DefaultRedisAddr,
				Prefix: DefaultRedisPrefix,
			},
		},
		Translator: TranslatorSpec{
			Env: map[string]string{},
		},
		Pipeline: PipelineConfig{
			Buffer: DefaultBuffer,
			Spool:  SpoolMemory,
		},
	}
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return ErrMissingNamespace
	}

	switch c.Store.Backend {
	case BackendFile, BackendRedis:
	default:
		return zerr.With(zerr.Wrap(ErrUnknownBackend, "validate config"), "backend", c.Store.Backend)
	}

	switch c.Pipeline.Spool {
	case SpoolMemory, SpoolFile:
	default:
		return zerr.With(zerr.Wrap(ErrUnknownSpool, "validate config"), "spool", c.Pipeline.Spool)
	}

	if c.Pipeline.Buffer <= 0 {
		return zerr.With(zerr.Wrap(ErrInvalidBuffer, "validate config"), "buffer", c.Pipeline.Buffer)
	}

	return nil
}
