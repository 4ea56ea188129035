package clearurls

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepeatedlyURLDecode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https%3A%2F%2Freal.site%2F", "https://real.site/"},
		{"https%253A%252F%252Freal.site%252F", "https://real.site/"},
		{"real.site%2Fpage", "http://real.site/page"},
		{"www.example.com", "http://www.example.com"},
		{"http://already.plain/", "http://already.plain/"},
		{"https://x.com/a+b", "https://x.com/a+b"},
		{"https://x.com/100%", "https://x.com/100%"},
		{"https://x.com/%zz", "https://x.com/%zz"},
		{"https%3A%2F%2Fx.com%2Fcaf%C3%A9", "https://x.com/café"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := repeatedlyURLDecode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepeatedlyURLDecodeInvalidUTF8(t *testing.T) {
	_, err := repeatedlyURLDecode("https%3A%2F%2Fx.com%2F%FF")
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr), "expected DecodeError, got %v", err)
	assert.Equal(t, "https%3A%2F%2Fx.com%2F%FF", decodeErr.Input)
}

func TestRepeatedlyURLDecodePassLimit(t *testing.T) {
	nested := func(levels int) string {
		s := "%41"
		for i := 0; i < levels; i++ {
			s = strings.ReplaceAll(s, "%", "%25")
		}
		return s
	}

	got, err := repeatedlyURLDecode(nested(10))
	require.NoError(t, err)
	assert.Equal(t, "http://A", got)

	_, err = repeatedlyURLDecode(nested(maxDecodePasses + 5))
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr), "expected DecodeError, got %v", err)
}

func TestPercentDecode(t *testing.T) {
	decoded, changed := percentDecode("a%20b")
	assert.True(t, changed)
	assert.Equal(t, "a b", decoded)

	decoded, changed = percentDecode("a+b%2")
	assert.False(t, changed)
	assert.Equal(t, "a+b%2", decoded)

	decoded, changed = percentDecode("%4a%4A")
	assert.True(t, changed)
	assert.Equal(t, "JJ", decoded)
}
