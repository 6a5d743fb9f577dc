// Copyright Vespa.ai. Licensed under the terms of the Apache 2.0 license. See LICENSE in the project root.

// Package config holds the persistent option store of the jsbridge CLI.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config is a thread-safe set of option values, stored as YAML.
type Config struct {
	values map[string]string
	mu     sync.RWMutex
}

// New creates an empty config.
func New() *Config { return &Config{values: make(map[string]string)} }

// Keys returns the sorted names of all options set in this config.
func (c *Config) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of option key.
func (c *Config) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Set assigns value to option key.
func (c *Config) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

// Del removes option key. It reports whether the option was set.
func (c *Config) Del(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	delete(c.values, key)
	return ok
}

// Write writes the config as YAML to w.
func (c *Config) Write(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(c.values); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return enc.Close()
}

// WriteFile writes the config to a temporary file next to filename and renames it into place, so that readers never
// observe a partially written file. Parent directories are created as needed.
func (c *Config) WriteFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "config")
	if err != nil {
		return err
	}
	defer func() {
		f.Close()
		os.Remove(f.Name())
	}()
	if err := c.Write(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), filename)
}

// Read reads a config in YAML format from r. An empty document yields an empty config.
func Read(r io.Reader) (*Config, error) {
	config := New()
	if err := yaml.NewDecoder(r).Decode(&config.values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// ReadFile reads the config stored in filename. A missing file yields an empty config.
func ReadFile(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	} else if err != nil {
		return nil, err
	}
	defer f.Close()
	config, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return config, nil
}
