package clearurls

import (
	"errors"
	"net/url"
	"slices"
	"strings"
)

var errNotAbsolute = errors.New("not an absolute url")

// RemoveFieldsFromURL returns a copy of u with this provider's rules applied.
// If one of the provider's redirections matches, the decoded redirect target
// is returned as is and no other rule runs. u is not modified.
func (p *Provider) RemoveFieldsFromURL(u *url.URL, stripReferralMarketing bool) (*url.URL, error) {
	cleaned, _, err := p.removeFields(u.String(), stripReferralMarketing)
	if err != nil {
		return nil, err
	}
	return cleaned, nil
}

// removeFields does the work of RemoveFieldsFromURL on the URL text and also
// reports whether the result came from a redirection.
func (p *Provider) removeFields(raw string, stripReferralMarketing bool) (*url.URL, bool, error) {
	target, redirected, err := p.getRedirection(raw)
	if err != nil {
		return nil, false, err
	}
	if redirected {
		decoded, err := repeatedlyURLDecode(target)
		if err != nil {
			return nil, false, err
		}
		u, err := parseURL(decoded)
		if err != nil {
			return nil, false, err
		}
		return u, true, nil
	}

	rewritten := raw
	for _, r := range p.rawRules {
		rewritten = r.ReplaceAllLiteralString(rewritten, "")
	}
	u, err := parseURL(rewritten)
	if err != nil {
		return nil, false, err
	}

	fields := parseParams(u.RawQuery)
	fragments := parseParams(u.EscapedFragment())
	for _, r := range p.removalRules(stripReferralMarketing) {
		matches := func(f param) bool { return isFullMatch(r, f.key) }
		fields = slices.DeleteFunc(fields, matches)
		fragments = slices.DeleteFunc(fragments, matches)
	}

	u.RawQuery = serializeParams(fields)
	u.ForceQuery = false
	setFragment(u, serializeParams(fragments))
	return u, false, nil
}

// parseURL parses an absolute URL and normalizes it the way browsers do:
// lower case host and a root path for hierarchical URLs without one.
func parseURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, &InvalidURLError{URL: s, Err: err}
	}
	if !u.IsAbs() {
		return nil, &InvalidURLError{URL: s, Err: errNotAbsolute}
	}
	u.Host = strings.ToLower(u.Host)
	if u.Opaque == "" && u.Host != "" && u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	return u, nil
}

// setFragment installs an already escaped fragment on u.
func setFragment(u *url.URL, escaped string) {
	fragment, err := url.PathUnescape(escaped)
	if err != nil {
		u.Fragment = escaped
		u.RawFragment = ""
		return
	}
	u.Fragment = fragment
	u.RawFragment = escaped
}
