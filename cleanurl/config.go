package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration of cleanurl. Environment
// variables in the file are expanded.
type Config struct {
	Rules                  string `yaml:"rules"`                  // path of the rule file
	StripReferralMarketing bool   `yaml:"stripReferralMarketing"` // also strip referral marketing fields
	ReloadIntervalSec      int    `yaml:"reloadIntervalSec"`      // rule file check interval with -watch
}

func loadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) reloadInterval() time.Duration {
	return time.Duration(c.ReloadIntervalSec) * time.Second
}
