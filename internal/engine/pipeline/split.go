package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// Split resolves every input against store. Each input gets a positional
// record appended to records, in input order. The text of every distinct
// miss is sent on pending. After the last input records is closed and the
// end-of-stream marker is sent on pending.
func (p *Pipeline) Split(
	ctx context.Context,
	store ports.TranslationStore,
	inputs iter.Seq2[string, error],
	records ports.RecordWriter,
	pending chan<- domain.Line,
) (domain.SplitReport, error) {
	ctx, span := p.tracer.Start(ctx, "split")
	defer span.End()

	report, err := p.split(ctx, store, inputs, records, pending)

	span.SetAttribute("inputs", report.Inputs)
	span.SetAttribute("resolved", report.Resolved)
	span.SetAttribute("pending", report.Pending)
	span.SetAttribute("deduplicated", report.Deduplicated)
	if err != nil {
		span.RecordError(err)
	}
	return report, err
}

func (p *Pipeline) split(
	ctx context.Context,
	store ports.TranslationStore,
	inputs iter.Seq2[string, error],
	records ports.RecordWriter,
	pending chan<- domain.Line,
) (domain.SplitReport, error) {
	var report domain.SplitReport
	queued := make(map[domain.Key]struct{})

	for text, err := range inputs {
		if err != nil {
			return report, zerr.With(zerr.Wrap(err, domain.ErrInputReadFailed.Error()), "index", report.Inputs+1)
		}
		report.Inputs++
		index := report.Inputs

		text = domain.Canonicalize(text)
		key := domain.DeriveKey(text)

		value, err := store.Fetch(ctx, key)
		if err == nil && strings.Contains(value, "\n") {
			// One input line must yield one output line, so the entry is
			// translated again and overwritten.
			p.logger.Warn(fmt.Sprintf("ignoring cached value spanning several lines for input %d (key %s)", index, key))
			err = domain.ErrNotFound
		}
		switch {
		case err == nil:
			if err := records.Append(domain.ResolvedRecord(index, domain.Canonicalize(value))); err != nil {
				return report, zerr.With(err, "index", index)
			}
			report.Resolved++

		case errors.Is(err, domain.ErrNotFound):
			if err := records.Append(domain.PendingRecord(index, key)); err != nil {
				return report, zerr.With(err, "index", index)
			}
			if _, ok := queued[key]; ok {
				report.Deduplicated++
				continue
			}
			queued[key] = struct{}{}
			if err := send(ctx, pending, domain.DataLine(text)); err != nil {
				return report, err
			}
			report.Pending++

		default:
			return report, zerr.With(zerr.With(err, "index", index), "key", key.String())
		}
	}

	if err := records.Close(); err != nil {
		return report, err
	}
	if err := send(ctx, pending, domain.EndOfStream()); err != nil {
		return report, err
	}

	p.logger.Debug(splitSummary(report))
	return report, nil
}
