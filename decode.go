package clearurls

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxDecodePasses bounds repeatedlyURLDecode. Real redirect targets settle in
// one or two passes.
const maxDecodePasses = 32

// repeatedlyURLDecode percent-decodes s until decoding no longer changes it,
// then makes sure the result carries a scheme.
func repeatedlyURLDecode(s string) (string, error) {
	current := s
	for pass := 0; pass < maxDecodePasses; pass++ {
		decoded, changed := percentDecode(current)
		if !utf8.ValidString(decoded) {
			return "", &DecodeError{Input: s, Reason: "invalid utf-8"}
		}
		if !changed {
			if strings.HasPrefix(decoded, "http") {
				return decoded, nil
			}
			return "http://" + decoded, nil
		}
		current = decoded
	}
	return "", &DecodeError{Input: s, Reason: fmt.Sprintf("still changing after %d passes", maxDecodePasses)}
}

// percentDecode decodes every valid %XX sequence in s. Malformed sequences
// and '+' are left alone. changed is false if nothing was decoded.
func percentDecode(s string) (decoded string, changed bool) {
	if strings.IndexByte(s, '%') < 0 {
		return s, false
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			changed = true
			continue
		}
		b.WriteByte(c)
	}
	if !changed {
		return s, false
	}
	return b.String(), true
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
