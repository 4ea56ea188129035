package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getlantern/clearurls"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("CLEANURL_RULES", "/etc/clearurls/data.min.json")
	path := writeFile(t, "config.yaml", `
rules: ${CLEANURL_RULES}
stripReferralMarketing: true
reloadIntervalSec: 15
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/etc/clearurls/data.min.json", cfg.Rules)
	assert.True(t, cfg.StripReferralMarketing)
	assert.Equal(t, 15*time.Second, cfg.reloadInterval())

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = loadConfig(writeFile(t, "bad.yaml", "rules: [unterminated"))
	assert.Error(t, err)
}

func TestVetRules(t *testing.T) {
	var out bytes.Buffer
	good := writeFile(t, "good.json", `{"providers": {"a": {"urlPattern": ".*", "rules": ["utm_.*"]}}}`)
	assert.Equal(t, 0, vetRules(good, &out))
	assert.Contains(t, out.String(), "1 providers ok, 0 errors")

	out.Reset()
	bad := writeFile(t, "bad.json", `{"providers": {"a": {"urlPattern": ".*", "rules": ["("]}}}`)
	assert.Equal(t, 1, vetRules(bad, &out))
	assert.Contains(t, out.String(), `provider "a"`)

	out.Reset()
	assert.Equal(t, 1, vetRules(filepath.Join(t.TempDir(), "missing.json"), &out))
}

func TestLoadRules(t *testing.T) {
	path := writeFile(t, "rules.json", `{"providers": {"a": {"urlPattern": ".*", "rules": ["utm_.*"]}}}`)
	cfg := &Config{Rules: path}

	c, r, err := loadRules(cfg)
	require.NoError(t, err)
	loaded := c.Rules()
	assert.Equal(t, 1, loaded.Len())

	changed, err := r.SyncOnce()
	require.NoError(t, err)
	assert.False(t, changed, "the initial load should already be recorded")
	assert.Same(t, loaded, c.Rules())

	_, _, err = loadRules(&Config{Rules: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}

func TestCleanOne(t *testing.T) {
	rs, err := clearurls.Load([]byte(`{"providers": {"a": {"urlPattern": ".*", "rules": ["utm_.*"]}}}`))
	require.NoError(t, err)
	c := clearurls.NewCleaner(rs, false)

	assert.Equal(t, "https://example.com/?a=1", cleanOne(c, "https://example.com/?a=1&utm_source=x"))
	assert.Equal(t, "not a url", cleanOne(c, "not a url"), "errors should leave the input alone")
}
