package telemetry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/xlcache/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*LogProcessor)(nil)

// LogProcessor implements sdktrace.SpanProcessor by reporting finished spans
// on the debug log, e.g. "split done in 12ms inputs=3 pending=1".
type LogProcessor struct {
	logger ports.Logger
}

// NewLogProcessor returns a LogProcessor writing to logger.
func NewLogProcessor(logger ports.Logger) *LogProcessor {
	return &LogProcessor{logger: logger}
}

// OnStart is called when a span starts.
func (p *LogProcessor) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (p *LogProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if p.logger == nil {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Millisecond)
	verb := "done"
	if s.Status().Code == codes.Error {
		verb = "failed"
	}

	parts := []string{fmt.Sprintf("%s %s in %s", s.Name(), verb, elapsed)}
	attrs := make([]string, 0, len(s.Attributes()))
	for _, kv := range s.Attributes() {
		attrs = append(attrs, string(kv.Key)+"="+kv.Value.Emit())
	}
	sort.Strings(attrs)
	parts = append(parts, attrs...)

	p.logger.Debug(strings.Join(parts, " "))
}

// Shutdown is called when the SDK shuts down.
func (p *LogProcessor) Shutdown(_ context.Context) error {
	return nil
}

// ForceFlush does nothing; spans are reported as they end.
func (p *LogProcessor) ForceFlush(_ context.Context) error {
	return nil
}
