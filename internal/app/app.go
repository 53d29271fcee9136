// Package app implements the application layer for xlcache.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.trai.ch/xlcache/internal/adapters/lines"
	"go.trai.ch/xlcache/internal/adapters/spool"
	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"go.trai.ch/xlcache/internal/engine/pipeline"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	stores       ports.StoreOpener
	pipeline     *pipeline.Pipeline
	logger       ports.Logger
	fs           afero.Fs
	newRunID     func() string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	stores ports.StoreOpener,
	pipe *pipeline.Pipeline,
	log ports.Logger,
	fs afero.Fs,
) *App {
	return &App{
		configLoader: loader,
		stores:       stores,
		pipeline:     pipe,
		logger:       log,
		fs:           fs,
		newRunID:     uuid.NewString,
	}
}

// Options holds the settings shared by every command.
type Options struct {
	// ConfigPath is the configuration file. Empty looks for xlcache.yaml.
	ConfigPath string
	// Namespace, Backend, StorePath and RedisAddr override the configuration.
	Namespace string
	Backend   string
	StorePath string
	RedisAddr string

	Verbose bool
	LogJSON bool

	In  io.Reader
	Out io.Writer
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	Options
	// Command overrides the configured translator command.
	Command []string
	Strict  bool
	Spool   string
	Buffer  int
}

// Run translates the lines of opts.In through the cache and the translator,
// writing one output line per input line to opts.Out.
func (a *App) Run(ctx context.Context, opts RunOptions) (err error) {
	cfg, err := a.loadConfig(opts.Options)
	if err != nil {
		return err
	}
	if len(opts.Command) > 0 {
		cfg.Translator.Command = opts.Command
	}
	if opts.Spool != "" {
		cfg.Pipeline.Spool = opts.Spool
	}
	if opts.Buffer > 0 {
		cfg.Pipeline.Buffer = opts.Buffer
	}
	cfg.Pipeline.Strict = cfg.Pipeline.Strict || opts.Strict
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(cfg.Translator.Command) == 0 {
		return domain.ErrMissingTranslatorCommand
	}

	store, err := a.stores.Open(ctx, cfg.Store, cfg.Namespace)
	if err != nil {
		return err
	}
	defer closeStore(store, &err)

	runID := a.newRunID()
	a.logger.Debug(fmt.Sprintf("run %s in namespace %s", runID, cfg.Namespace))

	records, cleanup, err := a.openSpool(cfg.Pipeline, runID)
	if err != nil {
		return err
	}
	defer cleanup()

	w := lines.NewWriter(opts.Out)
	report, err := a.pipeline.Run(ctx, pipeline.RunRequest{
		RunID:      runID,
		Store:      store,
		Spool:      records,
		Inputs:     lines.Read(opts.In),
		Translator: cfg.Translator,
		Emit:       w.WriteLine,
		Buffer:     cfg.Pipeline.Buffer,
	})
	if err != nil {
		_ = w.Flush()
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return checkStrict(cfg.Pipeline.Strict, report.Join)
}

// SplitOptions configuration for the Split method.
type SplitOptions struct {
	Options
	// Records is the positional record file to write.
	Records string
}

// Split runs the split stage alone: the texts to translate and the control
// line go to opts.Out, the positional records to opts.Records.
func (a *App) Split(ctx context.Context, opts SplitOptions) (err error) {
	if opts.Records == "" {
		return domain.ErrMissingRecordsPath
	}

	cfg, err := a.loadValidConfig(opts.Options)
	if err != nil {
		return err
	}

	store, err := a.stores.Open(ctx, cfg.Store, cfg.Namespace)
	if err != nil {
		return err
	}
	defer closeStore(store, &err)

	records, err := spool.NewFile(a.fs, opts.Records)
	if err != nil {
		return err
	}
	defer func() { _ = records.Close() }()

	pending := make(chan domain.Line, cfg.Pipeline.Buffer)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(pending)
		_, err := a.pipeline.Split(gctx, store, lines.Read(opts.In), records, pending)
		return err
	})

	g.Go(func() error {
		return lines.Encode(gctx, opts.Out, pending)
	})

	return g.Wait()
}

// JoinOptions configuration for the Join method.
type JoinOptions struct {
	Options
	// Records is the positional record file written by Split.
	Records string
	Strict  bool
}

// Join runs the join stage alone: translator output is read from opts.In and
// merged with opts.Records into opts.Out.
func (a *App) Join(ctx context.Context, opts JoinOptions) (err error) {
	if opts.Records == "" {
		return domain.ErrMissingRecordsPath
	}

	cfg, err := a.loadValidConfig(opts.Options)
	if err != nil {
		return err
	}

	records, err := spool.OpenFile(a.fs, opts.Records)
	if err != nil {
		return err
	}

	store, err := a.stores.Open(ctx, cfg.Store, cfg.Namespace)
	if err != nil {
		return err
	}
	defer closeStore(store, &err)

	outputs := make(chan domain.Line, cfg.Pipeline.Buffer)
	w := lines.NewWriter(opts.Out)
	var report domain.JoinReport

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(outputs)
		return lines.Decode(gctx, opts.In, outputs)
	})

	g.Go(func() error {
		var err error
		report, err = a.pipeline.Join(gctx, store, records, outputs, w.WriteLine)
		return err
	})

	err = g.Wait()
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}

	return checkStrict(cfg.Pipeline.Strict || opts.Strict, report)
}

// Import stores the "source<TAB>translation" pairs read from opts.In.
func (a *App) Import(ctx context.Context, opts Options) (err error) {
	cfg, err := a.loadValidConfig(opts)
	if err != nil {
		return err
	}

	store, err := a.stores.Open(ctx, cfg.Store, cfg.Namespace)
	if err != nil {
		return err
	}
	defer closeStore(store, &err)

	n, err := a.pipeline.Import(ctx, store, lines.Read(opts.In))
	if err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("imported %d translations into %s", n, cfg.Namespace))
	return nil
}

// Keys writes the cache key of every line of opts.In to opts.Out.
func (a *App) Keys(_ context.Context, opts Options) error {
	a.configureLogger(opts)

	w := lines.NewWriter(opts.Out)
	for text, err := range lines.Read(opts.In) {
		if err != nil {
			_ = w.Flush()
			return zerr.Wrap(err, domain.ErrInputReadFailed.Error())
		}
		if err := w.WriteLine(domain.DeriveKey(domain.Canonicalize(text)).String()); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Clean removes every entry of the configured namespace.
func (a *App) Clean(ctx context.Context, opts Options) error {
	cfg, err := a.loadValidConfig(opts)
	if err != nil {
		return err
	}

	a.logger.Info(fmt.Sprintf("removing namespace %s from %s store...", cfg.Namespace, cfg.Store.Backend))
	if err := a.stores.Purge(ctx, cfg.Store, cfg.Namespace); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("removed namespace %s", cfg.Namespace))
	return nil
}

func (a *App) configureLogger(opts Options) {
	a.logger.SetVerbose(opts.Verbose)
	a.logger.SetJSON(opts.LogJSON)
}

// loadConfig loads the configuration file and applies the command line
// overrides on top of it.
func (a *App) loadConfig(opts Options) (*domain.Config, error) {
	a.configureLogger(opts)

	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.Namespace != "" {
		cfg.Namespace = opts.Namespace
	}
	if opts.Backend != "" {
		cfg.Store.Backend = opts.Backend
	}
	if opts.StorePath != "" {
		cfg.Store.Path = opts.StorePath
	}
	if opts.RedisAddr != "" {
		cfg.Store.Redis.Addr = opts.RedisAddr
	}
	return cfg, nil
}

func (a *App) loadValidConfig(opts Options) (*domain.Config, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSpool creates the record spool of a run. The returned cleanup releases it.
func (a *App) openSpool(cfg domain.PipelineConfig, runID string) (ports.RecordSpool, func(), error) {
	if cfg.Spool != domain.SpoolFile {
		return spool.NewMemory(), func() {}, nil
	}

	dir := cfg.SpoolDir
	if dir == "" {
		dir = os.TempDir()
	}

	f, err := spool.NewFile(a.fs, filepath.Join(dir, "records-"+runID+".tsv"))
	if err != nil {
		return nil, nil, err
	}
	return f, func() {
		if err := f.Remove(); err != nil {
			a.logger.Warn(fmt.Sprintf("failed to remove record spool %s: %v", f.Path(), err))
		}
	}, nil
}

func closeStore(store ports.TranslationStore, errp *error) {
	if err := store.Close(); err != nil {
		*errp = errors.Join(*errp, err)
	}
}

func checkStrict(strict bool, report domain.JoinReport) error {
	if !strict || len(report.Warnings) == 0 {
		return nil
	}
	// The warnings themselves were already logged by the join stage.
	return zerr.With(zerr.Wrap(domain.ErrIntegrityCheckFailed, "strict mode"), "warnings", len(report.Warnings))
}
