package pipeline_test

import (
	"context"
	"iter"
	"strings"
	"sync"
	"testing"

	"go.trai.ch/xlcache/internal/adapters/telemetry"
	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"go.trai.ch/xlcache/internal/core/ports/mocks"
	"go.trai.ch/xlcache/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
)

// mapStore is an in-memory ports.TranslationStore counting writes.
type mapStore struct {
	mu     sync.Mutex
	data   map[domain.Key]string
	writes int
}

func newMapStore(pairs ...string) *mapStore {
	s := &mapStore{data: make(map[domain.Key]string)}
	for i := 0; i+1 < len(pairs); i += 2 {
		s.data[domain.DeriveKey(pairs[i])] = pairs[i+1]
	}
	return s
}

func (s *mapStore) Fetch(_ context.Context, key domain.Key) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (s *mapStore) Store(_ context.Context, key domain.Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.writes++
	return nil
}

func (s *mapStore) Close() error { return nil }

func (s *mapStore) get(text string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[domain.DeriveKey(text)]
	return v, ok
}

func (s *mapStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// funcTranslator translates in-process, answering the control line with its
// own translation like a real engine would.
type funcTranslator struct {
	fn func(string) string

	mu   sync.Mutex
	seen []string
}

func upper() *funcTranslator {
	return &funcTranslator{fn: strings.ToUpper}
}

func (f *funcTranslator) Translate(ctx context.Context, _ domain.TranslatorSpec, in <-chan domain.Line, out chan<- domain.Line) error {
	defer close(out)
	for line := range in {
		f.mu.Lock()
		f.seen = append(f.seen, line.Text)
		f.mu.Unlock()

		answer := domain.Line{Text: f.fn(line.Text), End: line.End}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- answer:
		}
		if line.End {
			return nil
		}
	}
	return nil
}

func (f *funcTranslator) received() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

// quietLogger accepts any log call.
func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	return log
}

func newPipeline(t *testing.T, translator *funcTranslator) *pipeline.Pipeline {
	t.Helper()
	return pipeline.New(translator, quietLogger(t), noopTracer())
}

func noopTracer() ports.Tracer {
	return telemetry.NewNoOpTracer()
}

func seq(items ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

func lineStream(lines ...domain.Line) <-chan domain.Line {
	ch := make(chan domain.Line, len(lines))
	for _, l := range lines {
		ch <- l
	}
	close(ch)
	return ch
}

type collector struct {
	lines []string
}

func (c *collector) emit(s string) error {
	c.lines = append(c.lines, s)
	return nil
}
