// Package lines converts between byte streams and the line streams exchanged
// by the pipeline stages and the translator.
package lines

import (
	"bufio"
	"context"
	"errors"
	"io"
	"iter"
	"strings"

	"go.trai.ch/xlcache/internal/core/domain"
	"go.trai.ch/zerr"
)

const newline = '\n'

// Read yields the lines of r without their trailing newline. Lines have no
// length limit. A final line without a newline is yielded as well. Read
// errors are yielded unwrapped.
func Read(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString(newline)
			if len(line) > 0 && (err == nil || errors.Is(err, io.EOF)) {
				if !yield(strings.TrimSuffix(line, "\n"), nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
		}
	}
}

// Encode writes the lines received from in to w, one per line. The End line
// is written as the control sentinel and terminates the stream. Buffered
// output is flushed whenever in has nothing ready.
func Encode(ctx context.Context, w io.Writer, in <-chan domain.Line) error {
	bw := bufio.NewWriter(w)
	for {
		if len(in) == 0 {
			if err := bw.Flush(); err != nil {
				return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
			}
		}

		var (
			line domain.Line
			ok   bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-in:
		}
		if !ok {
			return flush(bw)
		}

		text := line.Text
		if line.End {
			text = domain.ControlSentinel
		}
		if _, err := bw.WriteString(text); err != nil {
			return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
		}
		if err := bw.WriteByte(newline); err != nil {
			return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
		}
		if line.End {
			return flush(bw)
		}
	}
}

// Decode reads the lines of r and sends them on out. The last line of the
// stream is sent as an End line whatever its text, since the translator
// answers the control sentinel with a line of its own. An empty stream sends
// nothing. Decode does not close out.
func Decode(ctx context.Context, r io.Reader, out chan<- domain.Line) error {
	var (
		prev    string
		hasPrev bool
	)
	for line, err := range Read(r) {
		if err != nil {
			return zerr.Wrap(err, domain.ErrInputReadFailed.Error())
		}
		if hasPrev {
			if err := send(ctx, out, domain.DataLine(prev)); err != nil {
				return err
			}
		}
		prev, hasPrev = line, true
	}
	if !hasPrev {
		return nil
	}
	return send(ctx, out, domain.Line{Text: prev, End: true})
}

func send(ctx context.Context, out chan<- domain.Line, line domain.Line) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case out <- line:
		return nil
	}
}

func flush(bw *bufio.Writer) error {
	if err := bw.Flush(); err != nil {
		return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
	}
	return nil
}

// Writer emits output lines through a buffer.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteLine writes text followed by a newline.
func (w *Writer) WriteLine(text string) error {
	if _, err := w.bw.WriteString(text); err != nil {
		return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
	}
	if err := w.bw.WriteByte(newline); err != nil {
		return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return flush(w.bw)
}
