// Package clearurls removes tracking and referral marketing parameters from
// URLs using per-site rules in the ClearURLs rule format.
package clearurls

import (
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getlantern/golog"
	"github.com/getlantern/mtime"
)

var (
	log = golog.LoggerFor("clearurls")
)

// Cleaner applies every matching provider of a RuleSet to URLs. It's safe for
// concurrent use, including concurrent calls to Replace.
type Cleaner struct {
	current                atomic.Value // *snapshot
	stripReferralMarketing bool
	// useIndex is only turned off by tests, to check the index never changes
	// results.
	useIndex bool

	statM sync.Mutex
	stats Stats
}

// Stats summarizes the time spent cleaning.
type Stats struct {
	Runs   int64
	Total  time.Duration
	Max    time.Duration
	MaxURL string
}

type snapshot struct {
	rules *RuleSet
	index *keyIndex
}

// NewCleaner creates a Cleaner for rs. If stripReferralMarketing is set,
// referral marketing parameters are removed along with tracking parameters.
func NewCleaner(rs *RuleSet, stripReferralMarketing bool) *Cleaner {
	c := &Cleaner{
		stripReferralMarketing: stripReferralMarketing,
		useIndex:               true,
	}
	c.Replace(rs)
	return c
}

// Replace swaps in a new RuleSet. The index for it is built before it's
// published, so a Clean that's already running keeps using the old rules.
func (c *Cleaner) Replace(rs *RuleSet) {
	if rs == nil {
		rs = &RuleSet{}
	}
	c.current.Store(&snapshot{rules: rs, index: newKeyIndex(rs.providers)})
}

// Rules returns the RuleSet currently in use.
func (c *Cleaner) Rules() *RuleSet {
	return c.current.Load().(*snapshot).rules
}

// Clean returns a cleaned copy of u. Matching providers are applied in rule
// order, each to the output of the previous one, until a provider resolves a
// redirection. data: URLs are returned unchanged.
func (c *Cleaner) Clean(u *url.URL) (*url.URL, error) {
	start := mtime.Now()
	raw := u.String()
	defer func() {
		c.addTiming(mtime.Now().Sub(start), raw)
	}()

	current, err := parseURL(raw)
	if err != nil {
		return nil, err
	}
	if current.Scheme == "data" {
		return current, nil
	}

	snap := c.current.Load().(*snapshot)
	s := current.String()
	allowed := snap.index.allowed(s)
	for i, p := range snap.rules.providers {
		if c.useIndex && !allowed[i] {
			continue
		}
		if !p.MatchURL(s) {
			continue
		}
		cleaned, redirected, err := p.removeFields(s, c.stripReferralMarketing)
		if err != nil {
			return nil, err
		}
		current = cleaned
		if redirected {
			log.Debugf("Provider %v redirected %v to %v", p.name, s, current)
			return current, nil
		}
		if next := current.String(); next != s {
			log.Debugf("Provider %v cleaned %v to %v", p.name, s, next)
			s = next
			allowed = snap.index.allowed(s)
		}
	}
	return current, nil
}

// CleanString is Clean for URL text.
func (c *Cleaner) CleanString(s string) (string, error) {
	u, err := parseURL(s)
	if err != nil {
		return "", err
	}
	cleaned, err := c.Clean(u)
	if err != nil {
		return "", err
	}
	return cleaned.String(), nil
}

// Stats returns timing information for all calls to Clean so far.
func (c *Cleaner) Stats() Stats {
	c.statM.Lock()
	defer c.statM.Unlock()
	return c.stats
}

func (c *Cleaner) addTiming(dur time.Duration, url string) {
	c.statM.Lock()
	c.stats.Runs++
	c.stats.Total += dur
	if dur > c.stats.Max {
		c.stats.Max = dur
		c.stats.MaxURL = url
	}
	runs, total, max, maxURL := c.stats.Runs, c.stats.Total, c.stats.Max, c.stats.MaxURL
	c.statM.Unlock()

	log.Tracef("Average running time: %v", total/time.Duration(runs))
	log.Tracef("Max running time: %v for url: %v", max, maxURL)
}
