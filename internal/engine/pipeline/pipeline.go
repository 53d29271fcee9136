// Package pipeline implements the split, translate and join stages of the
// translation cache.
package pipeline

import (
	"context"
	"iter"

	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Pipeline runs the stages around an external translator.
type Pipeline struct {
	translator ports.Translator
	logger     ports.Logger
	tracer     ports.Tracer
}

// New creates a new Pipeline.
func New(translator ports.Translator, logger ports.Logger, tracer ports.Tracer) *Pipeline {
	return &Pipeline{
		translator: translator,
		logger:     logger,
		tracer:     tracer,
	}
}

// RunRequest describes one full pipeline run.
type RunRequest struct {
	// RunID identifies the run in spans and logs.
	RunID string
	// Store is the opened store of the run's namespace.
	Store ports.TranslationStore
	// Spool carries the positional records from split to join.
	Spool ports.RecordSpool
	// Inputs yields the input items in order.
	Inputs iter.Seq2[string, error]
	// Translator describes the external translator process.
	Translator domain.TranslatorSpec
	// Emit receives the final output lines in input order.
	Emit func(string) error
	// Buffer is the capacity of the channels between the stages.
	Buffer int
}

// Run executes split, translate and join concurrently. The first fatal error
// cancels the other stages. The returned report carries the join warnings.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (domain.Report, error) {
	ctx, span := p.tracer.Start(ctx, "run")
	defer span.End()
	span.SetAttribute("run_id", req.RunID)

	buffer := req.Buffer
	if buffer <= 0 {
		buffer = domain.DefaultBuffer
	}

	pending := make(chan domain.Line, buffer)
	outputs := make(chan domain.Line, buffer)
	report := domain.Report{RunID: req.RunID}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(pending)
		var err error
		report.Split, err = p.Split(gctx, req.Store, req.Inputs, req.Spool, pending)
		return err
	})

	g.Go(func() error {
		tctx, tspan := p.tracer.Start(gctx, "translate")
		defer tspan.End()
		err := p.translator.Translate(tctx, req.Translator, pending, outputs)
		if err != nil {
			tspan.RecordError(err)
		}
		return err
	})

	g.Go(func() error {
		var err error
		report.Join, err = p.Join(gctx, req.Store, req.Spool, outputs, req.Emit)
		return err
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return report, err
	}

	span.SetAttribute("warnings", len(report.Join.Warnings))
	return report, nil
}

func send(ctx context.Context, ch chan<- domain.Line, line domain.Line) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case ch <- line:
		return nil
	}
}
