// Package config provides the configuration loader for xlcache.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	fs     afero.Fs
	logger ports.Logger
	lookupEnv func(string) (string, bool)
}

// envRef matches a braced environment reference such as ${REDIS_PASSWORD}.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// NewLoader creates a new Loader reading from fs.
func NewLoader(fs afero.Fs, logger ports.Logger) *Loader {
	return &Loader{fs: fs, logger: logger, lookupEnv: os.LookupEnv}
}

// Load reads the configuration file at path on top of the defaults.
//
// Braced environment references like ${REDIS_PASSWORD} are expanded in the
// namespace, store, translator dir, env_file and spool_dir fields. References
// to unset variables are left as written. The translator command and env are
// never expanded.
// Relative paths in the file are resolved against the file's directory.
func (l *Loader) Load(path string) (*domain.Config, error) {
	explicit := path != ""
	if !explicit {
		path = domain.ConfigFileName
	}

	if _, err := l.fs.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			l.logger.Debug("no " + domain.ConfigFileName + " found, using defaults")
			return domain.DefaultConfig(), nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "load config"), "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file File
	if err := l.readAndUnmarshalYAML(path, &file); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	l.logger.Debug("loaded configuration from " + path)
	return l.toDomain(filepath.Dir(path), &file)
}

func (l *Loader) readAndUnmarshalYAML(path string, target *File) error {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}
	l.expandEnv(target)
	return nil
}

func (l *Loader) expandEnv(file *File) {
	for _, field := range []*string{
		&file.Namespace,
		&file.Store.Backend,
		&file.Store.Path,
		&file.Store.Redis.Addr,
		&file.Store.Redis.Username,
		&file.Store.Redis.Password,
		&file.Translator.Dir,
		&file.Translator.EnvFile,
		&file.Pipeline.Spool,
		&file.Pipeline.SpoolDir,
	} {
		*field = l.expand(*field)
	}
	if file.Store.Redis.Prefix != nil {
		prefix := l.expand(*file.Store.Redis.Prefix)
		file.Store.Redis.Prefix = &prefix
	}
}

// expand replaces the ${VAR} references of s whose variable is set.
func (l *Loader) expand(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := envRef.FindStringSubmatch(ref)[1]
		if value, ok := l.lookupEnv(name); ok {
			return value
		}
		return ref
	})
}

func (l *Loader) toDomain(baseDir string, file *File) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	cfg.Namespace = file.Namespace

	if file.Store.Backend != "" {
		cfg.Store.Backend = file.Store.Backend
	}
	if file.Store.Path != "" {
		cfg.Store.Path = resolvePath(baseDir, file.Store.Path)
	}
	if file.Store.Redis.Addr != "" {
		cfg.Store.Redis.Addr = file.Store.Redis.Addr
	}
	if file.Store.Redis.Prefix != nil {
		cfg.Store.Redis.Prefix = *file.Store.Redis.Prefix
	}
	cfg.Store.Redis.Username = file.Store.Redis.Username
	cfg.Store.Redis.Password = file.Store.Redis.Password
	cfg.Store.Redis.DB = file.Store.Redis.DB
	cfg.Store.Redis.TTL = file.Store.Redis.TTL

	cfg.Translator.Command = file.Translator.Command
	if file.Translator.Dir != "" {
		cfg.Translator.Dir = resolvePath(baseDir, file.Translator.Dir)
	}
	if file.Translator.EnvFile != "" {
		envPath := resolvePath(baseDir, file.Translator.EnvFile)
		env, err := l.readEnvFile(envPath)
		if err != nil {
			return nil, err
		}
		for k, v := range env {
			cfg.Translator.Env[k] = v
		}
	}
	for k, v := range file.Translator.Env {
		cfg.Translator.Env[k] = v
	}

	if file.Pipeline.Buffer != 0 {
		cfg.Pipeline.Buffer = file.Pipeline.Buffer
	}
	if file.Pipeline.Spool != "" {
		cfg.Pipeline.Spool = file.Pipeline.Spool
	}
	if file.Pipeline.SpoolDir != "" {
		cfg.Pipeline.SpoolDir = resolvePath(baseDir, file.Pipeline.SpoolDir)
	}
	cfg.Pipeline.Strict = file.Pipeline.Strict

	return cfg, nil
}

func (l *Loader) readEnvFile(path string) (map[string]string, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvFileReadFailed.Error()), "path", path)
	}
	defer func() { _ = f.Close() }()

	env, err := godotenv.Parse(f)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvFileReadFailed.Error()), "path", path)
	}
	return env, nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
