package pipeline

import (
	"context"
	"iter"
	"strings"

	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/xlcache/internal/core/ports"
	"go.trai.ch/zerr"
)

const pairSep = "\t"

// Import stores "source<TAB>translation" pairs directly, bypassing the
// translator. Both sides are canonicalized. Blank lines are skipped; any other
// line without exactly one tab stops the import. It returns the number of
// pairs stored.
func (p *Pipeline) Import(ctx context.Context, store ports.TranslationStore, pairs iter.Seq2[string, error]) (int, error) {
	ctx, span := p.tracer.Start(ctx, "import")
	defer span.End()

	n, err := p.importPairs(ctx, store, pairs)
	span.SetAttribute("imported", n)
	if err != nil {
		span.RecordError(err)
	}
	return n, err
}

func (p *Pipeline) importPairs(ctx context.Context, store ports.TranslationStore, pairs iter.Seq2[string, error]) (int, error) {
	imported := 0
	lineNo := 0
	for line, err := range pairs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return imported, ctxErr
		}
		lineNo++
		if err != nil {
			return imported, zerr.With(zerr.Wrap(err, domain.ErrInputReadFailed.Error()), "line", lineNo)
		}
		if domain.Canonicalize(line) == "" {
			continue
		}

		fields := strings.Split(line, pairSep)
		if len(fields) != 2 {
			return imported, zerr.With(zerr.Wrap(domain.ErrMalformedPair, "import"), "line", lineNo)
		}

		source := domain.Canonicalize(fields[0])
		key := domain.DeriveKey(source)
		if err := store.Store(ctx, key, domain.Canonicalize(fields[1])); err != nil {
			return imported, zerr.With(zerr.With(err, "line", lineNo), "key", key.String())
		}
		imported++
	}

	p.logger.Debug(importSummary(imported))
	return imported, nil
}
