package clearurls

import (
	"context"
	"crypto/md5"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/getlantern/golog"
)

const defaultReloadInterval = 30 * time.Second

// Reloader keeps a Cleaner in sync with a rule file on disk. A file that
// fails to load leaves the current rules in place.
type Reloader struct {
	path     string
	cleaner  *Cleaner
	interval time.Duration
	log      golog.Logger

	mu      sync.Mutex
	lastVer string
}

// NewReloader creates a Reloader that checks path every interval. A
// non-positive interval means 30 seconds.
func NewReloader(path string, c *Cleaner, interval time.Duration) *Reloader {
	if interval <= 0 {
		interval = defaultReloadInterval
	}
	return &Reloader{
		path:     path,
		cleaner:  c,
		interval: interval,
		log:      golog.LoggerFor("clearurls-reloader"),
	}
}

// SyncOnce loads the rule file if its content changed since the last
// successful load and reports whether the Cleaner got new rules.
func (r *Reloader) SyncOnce() (bool, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return false, fmt.Errorf("read rules %v: %w", r.path, err)
	}
	sum := md5.Sum(data)
	version := fmt.Sprintf("%x", sum[:])

	r.mu.Lock()
	defer r.mu.Unlock()
	if version == r.lastVer {
		return false, nil
	}
	rs, err := Load(data)
	if err != nil {
		return false, err
	}
	r.cleaner.Replace(rs)
	r.lastVer = version
	r.log.Debugf("Loaded %v providers from %v (version %v)", rs.Len(), r.path, version)
	return true, nil
}

// Start checks the rule file right away and then on every tick until ctx is
// done.
func (r *Reloader) Start(ctx context.Context) {
	if _, err := r.SyncOnce(); err != nil {
		r.log.Errorf("Unable to load rules on startup: %v", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.SyncOnce(); err != nil {
				r.log.Errorf("Unable to reload rules: %v", err)
			}
		}
	}
}
