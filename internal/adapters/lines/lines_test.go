package lines_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xlcache/internal/adapters/lines"
	"go.trai.ch/xlcache/internal/core/domain"
)

func collect(t *testing.T, input string) []string {
	t.Helper()
	var got []string
	for line, err := range lines.Read(strings.NewReader(input)) {
		require.NoError(t, err)
		got = append(got, line)
	}
	return got
}

func TestRead(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, collect(t, "a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, collect(t, "a\nb"))
	assert.Equal(t, []string{"", "x "}, collect(t, "\nx \n"))
	assert.Equal(t, []string{"crlf\r"}, collect(t, "crlf\r\n"))
	assert.Empty(t, collect(t, ""))
}

func TestRead_LongLine(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 1<<20)
	assert.Equal(t, []string{long, "y"}, collect(t, long+"\ny\n"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestRead_Error(t *testing.T) {
	t.Parallel()

	for _, err := range lines.Read(failingReader{}) {
		require.EqualError(t, err, "boom")
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	in := make(chan domain.Line, 4)
	in <- domain.DataLine("hello")
	in <- domain.DataLine("world")
	in <- domain.EndOfStream()
	in <- domain.DataLine("ignored")

	var buf bytes.Buffer
	require.NoError(t, lines.Encode(context.Background(), &buf, in))
	assert.Equal(t, "hello\nworld\nCONTROL LINE: 42\n", buf.String())
}

func TestEncode_ClosedWithoutEnd(t *testing.T) {
	t.Parallel()

	in := make(chan domain.Line, 1)
	in <- domain.DataLine("only")
	close(in)

	var buf bytes.Buffer
	require.NoError(t, lines.Encode(context.Background(), &buf, in))
	assert.Equal(t, "only\n", buf.String())
}

func TestEncode_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := lines.Encode(ctx, &buf, make(chan domain.Line))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []domain.Line
	}{
		{
			name:  "sentinel echoed",
			input: "HELLO\nWORLD\nCONTROL LINE: 42\n",
			want: []domain.Line{
				domain.DataLine("HELLO"),
				domain.DataLine("WORLD"),
				{Text: "CONTROL LINE: 42", End: true},
			},
		},
		{
			name:  "sentinel translated",
			input: "Hallo\nSTEUERZEILE: 42\n",
			want: []domain.Line{
				domain.DataLine("Hallo"),
				{Text: "STEUERZEILE: 42", End: true},
			},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := make(chan domain.Line, 8)
			require.NoError(t, lines.Decode(context.Background(), strings.NewReader(tt.input), out))
			close(out)

			var got []domain.Line
			for line := range out {
				got = append(got, line)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := lines.NewWriter(&buf)
	require.NoError(t, w.WriteLine("a"))
	require.NoError(t, w.WriteLine(""))
	assert.Empty(t, buf.String())
	require.NoError(t, w.Flush())
	assert.Equal(t, "a\n\n", buf.String())
}
