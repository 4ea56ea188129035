package clearurls

import (
	"regexp"

	"github.com/getlantern/golog"
)

// Preprocessor checks rule sources before they're deployed.
var Preprocessor = &preprocessor{
	log: golog.LoggerFor("clearurls-preprocessor"),
}

type preprocessor struct {
	log golog.Logger
}

// Vet compiles every pattern of every provider in a rule source. Unlike Load
// it doesn't stop at the first problem: it returns the names of the providers
// that are fine and one error per broken pattern or provider.
func (p *preprocessor) Vet(data []byte) ([]string, []error) {
	var good []string
	var errs []error
	err := eachProvider(data, func(name string, src *ProviderSource, err error) error {
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if providerErrs := p.vetProvider(name, src); len(providerErrs) > 0 {
			errs = append(errs, providerErrs...)
			return nil
		}
		good = append(good, name)
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	p.log.Debugf("Vetted rules: %v providers ok, %v errors", len(good), len(errs))
	return good, errs
}

func (p *preprocessor) vetProvider(name string, src *ProviderSource) []error {
	var errs []error
	if src.URLPattern == "" {
		errs = append(errs, &RuleLoadError{Provider: name, Field: "urlPattern", Err: errMissingURLPattern})
	} else if _, err := regexp.Compile(src.URLPattern); err != nil {
		errs = append(errs, &RuleLoadError{Provider: name, Field: "urlPattern", Pattern: src.URLPattern, Err: err})
	}
	fields := []struct {
		name     string
		patterns []string
	}{
		{"rules", src.Rules},
		{"rawRules", src.RawRules},
		{"referralMarketing", src.ReferralMarketing},
		{"exceptions", src.Exceptions},
	}
	for _, f := range fields {
		for _, pattern := range f.patterns {
			if _, err := regexp.Compile(pattern); err != nil {
				errs = append(errs, &RuleLoadError{Provider: name, Field: f.name, Pattern: pattern, Err: err})
			}
		}
	}
	for _, pattern := range src.Redirections {
		re, err := regexp.Compile(pattern)
		switch {
		case err != nil:
			errs = append(errs, &RuleLoadError{Provider: name, Field: "redirections", Pattern: pattern, Err: err})
		case re.NumSubexp() == 0:
			// Load accepts this and only fails once the pattern matches.
			errs = append(errs, &RedirectionError{Provider: name, Pattern: pattern})
		}
	}
	return errs
}
