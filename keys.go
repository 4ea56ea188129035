package clearurls

import (
	"iter"
	"strings"

	"github.com/armon/go-radix"
)

// keyPatternPrefix is the scheme and optional subdomain prefix that rule
// authors put in front of a literal domain.
const keyPatternPrefix = `^https?://(?:[a-z0-9-]+\.)*?`

// DomainKey returns a label that every URL matched by this provider must
// contain, as yielded by KeysFromURL. If the URL pattern doesn't start with a
// plain literal domain label, there is no key and ok is false.
func (p *Provider) DomainKey() (key string, ok bool) {
	pattern := p.urlPattern.String()
	pattern = strings.ReplaceAll(pattern, `\/`, "/")
	pattern = strings.ReplaceAll(pattern, `\-`, "-")
	rest, found := strings.CutPrefix(pattern, keyPatternPrefix)
	if !found {
		return "", false
	}
	for label := range labels(rest, `\.`) {
		return label, true
	}
	return "", false
}

// KeysFromURL yields the leading domain labels of an http or https URL, each
// one terminated by a dot. The sequence is lazy, can be iterated any number
// of times and yields substrings of url without copying.
func KeysFromURL(url string) iter.Seq[string] {
	rest, ok := strings.CutPrefix(url, "http")
	if ok {
		rest = strings.TrimPrefix(rest, "s")
		rest, ok = strings.CutPrefix(rest, "://")
	}
	if !ok {
		return func(func(string) bool) {}
	}
	return labels(rest, ".")
}

// labels yields delimiter-terminated labels of s until it reaches one that is
// empty or has characters that can't be part of a domain. Trailing text with
// no delimiter is skipped.
func labels(s, delimiter string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := s
		for {
			i := strings.Index(rest, delimiter)
			if i < 0 {
				return
			}
			label := rest[:i]
			if !isDomainLabel(label) {
				return
			}
			if !yield(label) {
				return
			}
			rest = rest[i+len(delimiter):]
		}
	}
}

func isDomainLabel(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || '0' <= c && c <= '9' || c == '-') {
			return false
		}
	}
	return true
}

// keyIndex narrows the providers of a RuleSet down to the ones that could
// possibly match a URL, without running their patterns.
type keyIndex struct {
	// domain key -> []int provider positions, ascending
	keyed *radix.Tree
	// positions of providers without a key; these are always candidates
	unkeyed []int
	size    int
}

func newKeyIndex(providers []*Provider) *keyIndex {
	idx := &keyIndex{keyed: radix.New(), size: len(providers)}
	for i, p := range providers {
		key, ok := p.DomainKey()
		if !ok {
			idx.unkeyed = append(idx.unkeyed, i)
			continue
		}
		var positions []int
		if existing, found := idx.keyed.Get(key); found {
			positions = existing.([]int)
		}
		idx.keyed.Insert(key, append(positions, i))
	}
	log.Debugf("Indexed %v providers under %v keys, %v without key", len(providers), idx.keyed.Len(), len(idx.unkeyed))
	return idx
}

// allowed reports, per provider position, whether the provider may match
// url.
func (idx *keyIndex) allowed(url string) []bool {
	ok := make([]bool, idx.size)
	for _, i := range idx.unkeyed {
		ok[i] = true
	}
	for label := range KeysFromURL(url) {
		if positions, found := idx.keyed.Get(label); found {
			for _, i := range positions.([]int) {
				ok[i] = true
			}
		}
	}
	return ok
}
