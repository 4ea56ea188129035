package clearurls

import (
	"regexp"
	"slices"
)

// javascriptVoid is never cleaned, whatever the provider patterns say.
const javascriptVoid = "javascript:void(0)"

// Provider is a named bundle of patterns describing which URLs it claims and
// which parts of them to remove.
type Provider struct {
	name              string
	urlPattern        *regexp.Regexp
	rules             []*regexp.Regexp
	rawRules          []*regexp.Regexp
	referralMarketing []*regexp.Regexp
	exceptions        []*regexp.Regexp
	redirections      []*regexp.Regexp
}

func newProvider(name string, src *ProviderSource) (*Provider, error) {
	if src.URLPattern == "" {
		return nil, &RuleLoadError{Provider: name, Field: "urlPattern", Err: errMissingURLPattern}
	}
	urlPattern, err := regexp.Compile(src.URLPattern)
	if err != nil {
		return nil, &RuleLoadError{Provider: name, Field: "urlPattern", Pattern: src.URLPattern, Err: err}
	}
	p := &Provider{name: name, urlPattern: urlPattern}
	fields := []struct {
		name     string
		patterns []string
		dst      *[]*regexp.Regexp
	}{
		{"rules", src.Rules, &p.rules},
		{"rawRules", src.RawRules, &p.rawRules},
		{"referralMarketing", src.ReferralMarketing, &p.referralMarketing},
		{"exceptions", src.Exceptions, &p.exceptions},
		{"redirections", src.Redirections, &p.redirections},
	}
	for _, f := range fields {
		compiled, err := compileAll(name, f.name, f.patterns)
		if err != nil {
			return nil, err
		}
		*f.dst = compiled
	}
	return p, nil
}

func compileAll(provider, field string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &RuleLoadError{Provider: provider, Field: field, Pattern: pattern, Err: err}
		}
		out = append(out, re)
	}
	return out, nil
}

// Name returns the provider name from the rule source.
func (p *Provider) Name() string {
	return p.name
}

// MatchURL reports whether this provider applies to url. Exceptions always
// win over the URL pattern.
func (p *Provider) MatchURL(url string) bool {
	return p.urlPattern.MatchString(url) && !p.matchException(url)
}

func (p *Provider) matchException(url string) bool {
	if url == javascriptVoid {
		return true
	}
	for _, exception := range p.exceptions {
		if exception.MatchString(url) {
			return true
		}
	}
	return false
}

// getRedirection returns the capture of the first redirection pattern that
// matches url. The capture group is only checked once a pattern matches.
func (p *Provider) getRedirection(url string) (string, bool, error) {
	for _, r := range p.redirections {
		loc := r.FindStringSubmatchIndex(url)
		if loc == nil {
			continue
		}
		if len(loc) < 4 || loc[2] < 0 {
			return "", false, &RedirectionError{Provider: p.name, Pattern: r.String()}
		}
		log.Debugf("Provider %v redirects %v", p.name, url)
		return url[loc[2]:loc[3]], true, nil
	}
	return "", false, nil
}

func (p *Provider) removalRules(stripReferralMarketing bool) []*regexp.Regexp {
	if stripReferralMarketing {
		return slices.Concat(p.rules, p.referralMarketing)
	}
	return p.rules
}

// isFullMatch reports whether the leftmost match of re spans all of s.
func isFullMatch(re *regexp.Regexp, s string) bool {
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}
