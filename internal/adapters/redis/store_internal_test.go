package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "xlcache:en-de:", want: "xlcache:en-de:"},
		{in: "xlcache:en*:", want: `xlcache:en\*:`},
		{in: "a?b", want: `a\?b`},
		{in: "[en]", want: `\[en\]`},
		{in: `back\slash`, want: `back\\slash`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeGlob(tt.in), tt.in)
	}
}
