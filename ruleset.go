package clearurls

// ProviderSource is a provider as it appears in a rule file. All patterns are
// kept as text here; they're compiled when the provider is built.
type ProviderSource struct {
	URLPattern        string   `yaml:"urlPattern"`
	Rules             []string `yaml:"rules"`
	RawRules          []string `yaml:"rawRules"`
	ReferralMarketing []string `yaml:"referralMarketing"`
	Exceptions        []string `yaml:"exceptions"`
	Redirections      []string `yaml:"redirections"`
}

// RuleSet is the ordered list of providers loaded from a rule source. It is
// never modified after it's built, so it can be shared by any number of
// goroutines.
type RuleSet struct {
	providers []*Provider
}

// Providers returns the providers in the order they appeared in the source.
func (rs *RuleSet) Providers() []*Provider {
	out := make([]*Provider, len(rs.providers))
	copy(out, rs.providers)
	return out
}

// Len returns the number of providers.
func (rs *RuleSet) Len() int {
	return len(rs.providers)
}
