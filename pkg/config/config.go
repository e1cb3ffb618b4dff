// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package config loads the pyextras configuration file.
package config

import (
	"net/url"
	"os"

	"github.com/google/pypi-extras/pkg/names"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings consumed by the CLI.
type Config struct {
	// Registry is the base URL of the package index.
	Registry string `yaml:"registry"`
	// UserAgent is sent on every registry request.
	UserAgent string `yaml:"user-agent"`
	// Concurrency bounds the number of simultaneous registry fetches.
	Concurrency int `yaml:"concurrency"`
	// DefaultExtras is the fallback policy for manifests that do not declare
	// their own. The zero value enables no extras.
	DefaultExtras names.DefaultExtras `yaml:"default-extras"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Registry:    "https://pypi.org",
		UserAgent:   "pyextras/1.0",
		Concurrency: 4,
	}
}

// Load reads the configuration at path, layered over Default. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return errors.Errorf("concurrency must be positive: %d", c.Concurrency)
	}
	if _, err := c.RegistryURL(); err != nil {
		return err
	}
	return nil
}

// RegistryURL returns the parsed registry base URL.
func (c *Config) RegistryURL() (*url.URL, error) {
	u, err := url.Parse(c.Registry)
	if err != nil {
		return nil, errors.Wrap(err, "parsing registry URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("registry URL must be absolute: %q", c.Registry)
	}
	return u, nil
}
