package app_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xlcache/internal/adapters/storage"
	"go.trai.ch/xlcache/internal/adapters/telemetry"
	"go.trai.ch/xlcache/internal/app"
	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports/mocks"
	"go.trai.ch/xlcache/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	app        *app.App
	fs         afero.Fs
	loader     *mocks.MockConfigLoader
	translator *mocks.MockTranslator
	stores     *storage.Opener
	cfg        *domain.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().SetVerbose(gomock.Any()).AnyTimes()
	log.EXPECT().SetJSON(gomock.Any()).AnyTimes()
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	fs := afero.NewMemMapFs()
	cfg := domain.DefaultConfig()
	cfg.Namespace = "is-en"
	cfg.Store.Path = "/store"
	cfg.Translator.Command = []string{"translate"}

	f := &fixture{
		fs:         fs,
		loader:     mocks.NewMockConfigLoader(ctrl),
		translator: mocks.NewMockTranslator(ctrl),
		stores:     storage.NewOpener(fs),
		cfg:        cfg,
	}
	pipe := pipeline.New(f.translator, log, telemetry.NewNoOpTracer())
	f.app = app.New(f.loader, f.stores, pipe, log, fs)
	return f
}

func (f *fixture) expectConfig() {
	f.loader.EXPECT().Load("").DoAndReturn(func(string) (*domain.Config, error) {
		c := *f.cfg
		return &c, nil
	}).AnyTimes()
}

// upperTranslator answers every line with its upper-case form.
func upperTranslator(_ context.Context, _ domain.TranslatorSpec, in <-chan domain.Line, out chan<- domain.Line) error {
	defer close(out)
	for line := range in {
		out <- domain.Line{Text: strings.ToUpper(line.Text), End: line.End}
		if line.End {
			return nil
		}
	}
	return nil
}

func (f *fixture) lookup(t *testing.T, text string) (string, error) {
	t.Helper()
	store, err := f.stores.Open(context.Background(), f.cfg.Store, f.cfg.Namespace)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	return store.Fetch(context.Background(), domain.DeriveKey(text))
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expectConfig()
	f.translator.EXPECT().Translate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(upperTranslator).Times(2)

	for range 2 {
		var out bytes.Buffer
		err := f.app.Run(context.Background(), app.RunOptions{
			Options: app.Options{In: strings.NewReader("hello\nworld\nhello\n"), Out: &out},
		})
		require.NoError(t, err)
		assert.Equal(t, "HELLO\nWORLD\nHELLO\n", out.String())
	}

	got, err := f.lookup(t, "world")
	require.NoError(t, err)
	assert.Equal(t, "WORLD", got)
}

func TestApp_Run_Overrides(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expectConfig()

	var spec domain.TranslatorSpec
	f.translator.EXPECT().Translate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, s domain.TranslatorSpec, in <-chan domain.Line, out chan<- domain.Line) error {
			spec = s
			return upperTranslator(ctx, s, in, out)
		})

	var out bytes.Buffer
	err := f.app.Run(context.Background(), app.RunOptions{
		Options: app.Options{
			Namespace: "de-en",
			In:        strings.NewReader("a\n"),
			Out:       &out,
		},
		Command: []string{"other", "--fast"},
		Spool:   domain.SpoolFile,
		Buffer:  1,
	})
	require.NoError(t, err)

	assert.Equal(t, "A\n", out.String())
	assert.Equal(t, []string{"other", "--fast"}, spec.Command)

	_, err = f.lookup(t, "a")
	require.ErrorIs(t, err, domain.ErrNotFound, "the configured namespace is untouched")
}

func TestApp_Run_RemovesFileSpool(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cfg.Pipeline.Spool = domain.SpoolFile
	f.cfg.Pipeline.SpoolDir = "/spool"
	f.expectConfig()
	f.translator.EXPECT().Translate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(upperTranslator)

	var out bytes.Buffer
	err := f.app.Run(context.Background(), app.RunOptions{
		Options: app.Options{In: strings.NewReader("x\ny\n"), Out: &out},
	})
	require.NoError(t, err)
	assert.Equal(t, "X\nY\n", out.String())

	entries, err := afero.ReadDir(f.fs, "/spool")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApp_Run_Strict(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expectConfig()
	// The translator swallows everything.
	f.translator.EXPECT().Translate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.TranslatorSpec, in <-chan domain.Line, out chan<- domain.Line) error {
			defer close(out)
			for range in {
			}
			return nil
		}).Times(2)

	var out bytes.Buffer
	err := f.app.Run(context.Background(), app.RunOptions{
		Options: app.Options{In: strings.NewReader("a\n"), Out: &out},
	})
	require.NoError(t, err, "warnings are not fatal by default")
	assert.Equal(t, "\n", out.String())

	out.Reset()
	err = f.app.Run(context.Background(), app.RunOptions{
		Options: app.Options{In: strings.NewReader("a\n"), Out: &out},
		Strict:  true,
	})
	require.ErrorIs(t, err, domain.ErrIntegrityCheckFailed)
}

func TestApp_Run_MissingCommand(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cfg.Translator.Command = nil
	f.expectConfig()

	err := f.app.Run(context.Background(), app.RunOptions{
		Options: app.Options{In: strings.NewReader("a\n"), Out: &bytes.Buffer{}},
	})
	require.ErrorIs(t, err, domain.ErrMissingTranslatorCommand)
}

func TestApp_Run_InvalidConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.cfg.Namespace = ""
	f.expectConfig()

	err := f.app.Run(context.Background(), app.RunOptions{
		Options: app.Options{In: strings.NewReader(""), Out: &bytes.Buffer{}},
	})
	require.ErrorIs(t, err, domain.ErrMissingNamespace)
}

func TestApp_Run_ConfigLoadFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.loader.EXPECT().Load("custom.yaml").Return(nil, domain.ErrConfigParseFailed)

	err := f.app.Run(context.Background(), app.RunOptions{
		Options: app.Options{ConfigPath: "custom.yaml"},
	})
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestApp_SplitAndJoin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expectConfig()

	var pending bytes.Buffer
	err := f.app.Split(context.Background(), app.SplitOptions{
		Options: app.Options{In: strings.NewReader("hello\nworld\nhello\n"), Out: &pending},
		Records: "/work/records.tsv",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n"+domain.ControlSentinel+"\n", pending.String())

	var out bytes.Buffer
	err = f.app.Join(context.Background(), app.JoinOptions{
		Options: app.Options{In: strings.NewReader("HELLO\nWORLD\nSTEUERZEILE: 42\n"), Out: &out},
		Records: "/work/records.tsv",
		Strict:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "HELLO\nWORLD\nHELLO\n", out.String())

	got, err := f.lookup(t, "hello")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", got)
}

func TestApp_Join_MissingRecords(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	err := f.app.Join(context.Background(), app.JoinOptions{})
	require.ErrorIs(t, err, domain.ErrMissingRecordsPath)

	f.expectConfig()
	err = f.app.Join(context.Background(), app.JoinOptions{
		Options: app.Options{In: strings.NewReader(""), Out: &bytes.Buffer{}},
		Records: "/nope.tsv",
	})
	require.ErrorContains(t, err, domain.ErrSpoolReadFailed.Error())
}

func TestApp_Join_StrictCountMismatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expectConfig()

	err := f.app.Split(context.Background(), app.SplitOptions{
		Options: app.Options{In: strings.NewReader("a\nb\n"), Out: &bytes.Buffer{}},
		Records: "/records.tsv",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	err = f.app.Join(context.Background(), app.JoinOptions{
		Options: app.Options{In: strings.NewReader("A\nEND\n"), Out: &out},
		Records: "/records.tsv",
		Strict:  true,
	})
	require.ErrorIs(t, err, domain.ErrIntegrityCheckFailed)
	assert.Equal(t, "A\n\n", out.String(), "output is complete even when the check fails")
}

func TestApp_Import(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expectConfig()

	err := f.app.Import(context.Background(), app.Options{
		In: strings.NewReader("Hallo\tHello\nHeimur\tWorld\n"),
	})
	require.NoError(t, err)

	got, err := f.lookup(t, "Heimur")
	require.NoError(t, err)
	assert.Equal(t, "World", got)
}

func TestApp_Keys(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	var out bytes.Buffer
	err := f.app.Keys(context.Background(), app.Options{
		In:  strings.NewReader("hello\nworld  \n"),
		Out: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592\n7d793037a0760186574b0282f2f435e7\n", out.String())
}

func TestApp_Clean(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.expectConfig()

	require.NoError(t, f.app.Import(context.Background(), app.Options{In: strings.NewReader("a\tb\n")}))
	require.NoError(t, f.app.Clean(context.Background(), app.Options{}))

	_, err := f.lookup(t, "a")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApp_Split_StoreOpenFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().SetVerbose(false)
	log.EXPECT().SetJSON(false)

	cfg := domain.DefaultConfig()
	cfg.Namespace = "is-en"
	cfg.Store.Backend = domain.BackendRedis

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("").Return(cfg, nil)

	stores := mocks.NewMockStoreOpener(ctrl)
	stores.EXPECT().Open(gomock.Any(), cfg.Store, "is-en").Return(nil, domain.ErrStoreOpenFailed)

	fs := afero.NewMemMapFs()
	a := app.New(loader, stores, pipeline.New(mocks.NewMockTranslator(ctrl), log, telemetry.NewNoOpTracer()), log, fs)

	err := a.Split(context.Background(), app.SplitOptions{
		Options: app.Options{In: strings.NewReader("a\n"), Out: &bytes.Buffer{}},
		Records: "/records.tsv",
	})
	require.ErrorIs(t, err, domain.ErrStoreOpenFailed)

	exists, err := afero.Exists(fs, "/records.tsv")
	require.NoError(t, err)
	assert.False(t, exists)
}
