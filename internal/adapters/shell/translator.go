// Package shell runs the external translator as a child process.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"go.trai.ch/xlcache/internal/adapters/lines"
	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Translator = (*Translator)(nil)

// Translator implements ports.Translator using os/exec. Lines are written to
// the process stdin and read back from its stdout; its stderr goes to the logger.
type Translator struct {
	logger ports.Logger
}

// NewTranslator creates a new Translator.
func NewTranslator(logger ports.Logger) *Translator {
	return &Translator{logger: logger}
}

// Translate runs the command of spec and streams in through it.
// The environment is the system environment overridden by spec.Env.
func (t *Translator) Translate(
	ctx context.Context, spec domain.TranslatorSpec, in <-chan domain.Line, out chan<- domain.Line,
) error {
	defer close(out)

	if len(spec.Command) == 0 {
		return domain.ErrMissingTranslatorCommand
	}

	name := spec.Command[0]
	args := spec.Command[1:]
	env := resolveEnvironment(os.Environ(), spec.Env)

	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // user provided command
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	cmd.Env = env

	stderr := &logWriter{logger: t.logger}
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTranslatorFailed.Error()), "command", name)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTranslatorFailed.Error()), "command", name)
	}

	if err := cmd.Start(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTranslatorFailed.Error()), "command", name)
	}
	t.logger.Debug("started translator " + strings.Join(spec.Command, " "))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		encodeErr := lines.Encode(gctx, stdin, in)
		closeErr := stdin.Close()
		if encodeErr != nil {
			return encodeErr
		}
		if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			return zerr.Wrap(closeErr, domain.ErrOutputWriteFailed.Error())
		}
		return nil
	})
	g.Go(func() error {
		return lines.Decode(gctx, stdout, out)
	})

	ioErr := g.Wait()
	if ioErr != nil {
		// The process may be blocked on a full stdout pipe nobody reads anymore.
		_ = cmd.Process.Kill()
	}
	waitErr := cmd.Wait()
	stderr.Flush()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if waitErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(waitErr, domain.ErrTranslatorFailed.Error()), "command", name), "exit_code", exitCode)
	}
	if ioErr != nil {
		return zerr.With(zerr.Wrap(ioErr, domain.ErrTranslatorFailed.Error()), "command", name)
	}
	return nil
}

// logWriter forwards complete lines written to it to the logger.
type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush logs a trailing partial line.
func (w *logWriter) Flush() {
	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
}

func (w *logWriter) emit(line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return
	}
	w.logger.Info(line)
}

// resolveEnvironment overlays env on the system environment.
func resolveEnvironment(sysEnv []string, env map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(env))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}
	for k, v := range env {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
