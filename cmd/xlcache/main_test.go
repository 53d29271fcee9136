package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/xlcache/internal/adapters/storage"
	"go.trai.ch/xlcache/internal/adapters/telemetry"
	"go.trai.ch/xlcache/internal/app"
	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"go.trai.ch/xlcache/internal/core/ports/mocks"
	"go.trai.ch/xlcache/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"xlcache": func() {
			os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, provideComponents))
		},
	})
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			env.Setenv("NO_COLOR", "1")
			env.Setenv("HOME", env.WorkDir)
			return nil
		},
	})
}

func newComponents(t *testing.T, ctrl *gomock.Controller) (*app.Components, *mocks.MockConfigLoader, *mocks.MockLogger) {
	t.Helper()

	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().SetVerbose(gomock.Any()).AnyTimes()
	log.EXPECT().SetJSON(gomock.Any()).AnyTimes()
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	fs := afero.NewMemMapFs()
	pipe := pipeline.New(mocks.NewMockTranslator(ctrl), log, telemetry.NewNoOpTracer())
	application := app.New(loader, storage.NewOpener(fs), pipe, log, fs)

	return &app.Components{App: application, Logger: log}, loader, log
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	components, _, _ := newComponents(t, ctrl)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"key"}, strings.NewReader("hello\n"), stdout, new(bytes.Buffer), provider)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592\n", stdout.String())
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, strings.NewReader(""), new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	components, loader, log := newComponents(t, ctrl)

	loader.EXPECT().Load("").Return(nil, domain.ErrConfigParseFailed)
	log.EXPECT().Error(gomock.Any()).Times(1)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"clean"}, strings.NewReader(""), new(bytes.Buffer), new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_Canceled verifies that a canceled context ends the run with a failure.
func TestRun_Canceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	components, loader, _ := newComponents(t, ctrl)

	cfg := domain.DefaultConfig()
	cfg.Namespace = "is-en"
	cfg.Store.Path = "/store"
	loader.EXPECT().Load("").Return(cfg, nil)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return components, func() {}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stderr := new(bytes.Buffer)
	exitCode := run(ctx, []string{"import"}, strings.NewReader("a\tb\n"), new(bytes.Buffer), stderr, provider)
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "interrupted")
}

// stuckTracer fails to shut down.
type stuckTracer struct {
	ports.Tracer
}

func (stuckTracer) Shutdown(context.Context) error {
	return errors.New("exporter unreachable")
}

func TestCloser_ShutsDownTracer(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	components := &app.Components{Logger: log, Tracer: telemetry.NewNoOpTracer()}
	closer(context.Background(), components)()

	components.Tracer = stuckTracer{}
	log.EXPECT().Warn("shutting down tracer: exporter unreachable")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	closer(ctx, components)()
}
