package clearurls

import (
	"strings"
)

const upperHex = "0123456789ABCDEF"

// param is one key/value pair of a query string or fragment. Order and
// duplicates are kept.
type param struct {
	key   string
	value string
}

// parseParams decodes s as application/x-www-form-urlencoded data.
func parseParams(s string) []param {
	var out []param
	for _, segment := range strings.Split(s, "&") {
		if segment == "" {
			continue
		}
		key, value, _ := strings.Cut(segment, "=")
		out = append(out, param{key: formDecode(key), value: formDecode(value)})
	}
	return out
}

func formDecode(s string) string {
	decoded, _ := percentDecode(strings.ReplaceAll(s, "+", " "))
	return strings.ToValidUTF8(decoded, "\uFFFD")
}

// serializeParams encodes params back into form data. A lone key with an
// empty value is written bare, without '='. No params gives "".
func serializeParams(params []param) string {
	switch {
	case len(params) == 0:
		return ""
	case len(params) == 1 && params[0].value == "":
		return escapeBare(params[0].key)
	}
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		formEncode(&b, p.key)
		b.WriteByte('=')
		formEncode(&b, p.value)
	}
	return b.String()
}

func formEncode(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9',
			c == '*', c == '-', c == '.', c == '_':
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('+')
		default:
			writeEscaped(b, c)
		}
	}
}

// escapeBare escapes what can't appear literally in a query or fragment, and
// the bytes formDecode would read back differently.
func escapeBare(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte("\"#<>`&=+%", c) >= 0 {
			writeEscaped(&b, c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func writeEscaped(b *strings.Builder, c byte) {
	b.WriteByte('%')
	b.WriteByte(upperHex[c>>4])
	b.WriteByte(upperHex[c&15])
}
