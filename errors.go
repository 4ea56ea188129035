package clearurls

import (
	"fmt"
)

// RuleLoadError is returned when a rule source can't be turned into a RuleSet,
// usually because one of its patterns doesn't compile.
type RuleLoadError struct {
	Provider string
	Field    string
	Pattern  string
	Err      error
}

func (e *RuleLoadError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("load rules: %v", e.Err)
	}
	if e.Field == "" {
		return fmt.Sprintf("load rules: provider %q: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("load rules: provider %q: %v pattern %q: %v", e.Provider, e.Field, e.Pattern, e.Err)
}

func (e *RuleLoadError) Unwrap() error {
	return e.Err
}

// RedirectionError means a redirection pattern matched a URL but didn't
// capture a target. This is always a mistake in the rule file.
type RedirectionError struct {
	Provider string
	Pattern  string
}

func (e *RedirectionError) Error() string {
	return fmt.Sprintf("provider %q: redirection %q has no capturing group", e.Provider, e.Pattern)
}

// InvalidURLError is returned when rewritten or redirected text isn't an
// absolute URL.
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url %q: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a redirect target doesn't percent-decode to
// valid UTF-8.
type DecodeError struct {
	Input  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Input, e.Reason)
}
