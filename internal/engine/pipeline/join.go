package pipeline

import (
	"context"
	"fmt"

	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// Join merges the positional records of spool with the translator outputs,
// emitting one line per record in input order. Every output consumed for a
// pending record is stored under the record's key before it is emitted.
//
// Integrity problems are not fatal: a missing control line or a count
// mismatch is logged and returned in the report's warnings.
func (p *Pipeline) Join(
	ctx context.Context,
	store ports.TranslationStore,
	spool ports.RecordSpool,
	outputs <-chan domain.Line,
	emit func(string) error,
) (domain.JoinReport, error) {
	ctx, span := p.tracer.Start(ctx, "join")
	defer span.End()

	report, err := p.join(ctx, store, spool, outputs, emit)

	span.SetAttribute("records", report.Records)
	span.SetAttribute("translated", report.Translated)
	span.SetAttribute("reused", report.Reused)
	span.SetAttribute("missing", report.Missing)
	span.SetAttribute("surplus", report.Surplus)
	if err != nil {
		span.RecordError(err)
	}
	return report, err
}

func (p *Pipeline) join(
	ctx context.Context,
	store ports.TranslationStore,
	spool ports.RecordSpool,
	outputs <-chan domain.Line,
	emit func(string) error,
) (domain.JoinReport, error) {
	var report domain.JoinReport
	src := &outputSource{ch: outputs}

	if !spool.Concurrent() {
		if err := src.drain(ctx); err != nil {
			return report, err
		}
	}

	fresh := make(map[domain.Key]string)
	prev := 0
	for rec, err := range spool.Records(ctx) {
		if err != nil {
			return report, err
		}
		if rec.Index != prev+1 {
			err := zerr.With(zerr.Wrap(domain.ErrMalformedRecord, "record out of sequence"), "expected", prev+1)
			return report, zerr.With(err, "index", rec.Index)
		}
		prev = rec.Index
		report.Records++

		if rec.Status == domain.StatusResolved {
			if err := emit(rec.Payload); err != nil {
				return report, err
			}
			report.Resolved++
			continue
		}

		key := rec.Key()
		if value, ok := fresh[key]; ok {
			if err := emit(value); err != nil {
				return report, err
			}
			report.Reused++
			continue
		}

		line, ok, err := src.next(ctx)
		if err != nil {
			return report, err
		}
		if !ok {
			if err := emit(""); err != nil {
				return report, err
			}
			report.Missing++
			continue
		}

		value := domain.Canonicalize(line.Text)
		if err := store.Store(ctx, key, value); err != nil {
			return report, zerr.With(zerr.With(err, "index", rec.Index), "key", key.String())
		}
		fresh[key] = value
		if err := emit(value); err != nil {
			return report, err
		}
		report.Translated++
	}

	for {
		_, ok, err := src.next(ctx)
		if err != nil {
			return report, err
		}
		if !ok {
			break
		}
		report.Surplus++
	}
	report.SentinelSeen = src.ended

	p.check(&report)
	p.logger.Debug(joinSummary(report))
	return report, nil
}

// check records the integrity warnings of report.
func (p *Pipeline) check(report *domain.JoinReport) {
	if !report.SentinelSeen {
		report.Warnings = append(report.Warnings, domain.ErrMissingSentinel)
		p.logger.Warn(domain.ErrMissingSentinel.Error())
	}

	if report.Missing > 0 || report.Surplus > 0 {
		err := zerr.With(zerr.Wrap(domain.ErrCountMismatch, "join"), "expected", report.Expected())
		report.Warnings = append(report.Warnings, zerr.With(err, "received", report.Received()))
		p.logger.Warn(fmt.Sprintf("%s: expected %d, received %d",
			domain.ErrCountMismatch.Error(), report.Expected(), report.Received()))
	}
}

// outputSource reads data lines from the translator output until its End
// line or until the channel is closed.
type outputSource struct {
	ch       <-chan domain.Line
	buf      []domain.Line
	buffered bool
	ended    bool
	done     bool
}

// drain reads the whole stream into memory.
func (s *outputSource) drain(ctx context.Context) error {
	for {
		line, ok, err := s.receive(ctx)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		s.buf = append(s.buf, line)
	}
	s.buffered = true
	return nil
}

// next returns the next data line. ok is false once the stream is over.
func (s *outputSource) next(ctx context.Context) (domain.Line, bool, error) {
	if !s.buffered {
		return s.receive(ctx)
	}
	if len(s.buf) == 0 {
		return domain.Line{}, false, nil
	}
	line := s.buf[0]
	s.buf = s.buf[1:]
	return line, true, nil
}

func (s *outputSource) receive(ctx context.Context) (domain.Line, bool, error) {
	if s.done {
		return domain.Line{}, false, nil
	}

	select {
	case <-ctx.Done():
		return domain.Line{}, false, ctx.Err()
	case line, ok := <-s.ch:
		if !ok {
			s.done = true
			return domain.Line{}, false, nil
		}
		if line.End {
			s.ended = true
			s.done = true
			return domain.Line{}, false, nil
		}
		return line, true, nil
	}
}
