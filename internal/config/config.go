// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the faas-form configuration file and applies
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tombee/faas-form/internal/log"
	fferrors "github.com/tombee/faas-form/pkg/errors"
)

// Provider names.
const (
	ProviderLambda = "lambda"
	ProviderHTTP   = "http"
)

// Config represents the complete faas-form configuration.
type Config struct {
	// Provider selects the function platform (lambda, http).
	// Environment: FAAS_FORM_PROVIDER
	// Default: lambda
	Provider string `yaml:"provider" json:"provider"`

	AWS       AWSConfig       `yaml:"aws" json:"aws"`
	HTTP      HTTPConfig      `yaml:"http" json:"http"`
	Discovery DiscoveryConfig `yaml:"discovery" json:"discovery"`
	Log       LogConfig       `yaml:"log" json:"log"`
}

// AWSConfig configures the Lambda provider.
type AWSConfig struct {
	// Region is the AWS region.
	// Environment: FAAS_FORM_REGION, then AWS_REGION
	Region string `yaml:"region,omitempty" json:"region,omitempty"`

	// Profile is the shared config profile.
	// Environment: AWS_PROFILE
	Profile string `yaml:"profile,omitempty" json:"profile,omitempty"`
}

// HTTPConfig configures the HTTP provider.
type HTTPConfig struct {
	// BaseURL is joined with a function name to form its endpoint.
	// Environment: FAAS_FORM_HTTP_BASE_URL
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`

	// Timeout bounds each request.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Headers are added to every request.
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`

	// Functions lists known endpoints by name.
	Functions map[string]HTTPFunction `yaml:"functions,omitempty" json:"functions,omitempty"`
}

// HTTPFunction is a named HTTP function endpoint.
type HTTPFunction struct {
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// DiscoveryConfig sets the defaults of the ls command.
type DiscoveryConfig struct {
	// Tags lists functions carrying the faasform tag.
	// Default: true
	Tags bool `yaml:"tags" json:"tags"`

	// Env lists functions carrying the faasform environment variable.
	// Default: false
	Env bool `yaml:"env" json:"env"`
}

// LogConfig configures logging behavior.
type LogConfig struct {
	// Level sets the minimum log level (debug, info, warn, error).
	// Environment: LOG_LEVEL
	// Default: warn
	Level string `yaml:"level" json:"level"`

	// Format sets the output format (json, text).
	// Environment: LOG_FORMAT
	// Default: text
	Format string `yaml:"format" json:"format"`

	// AddSource adds source file and line information to logs.
	// Environment: LOG_SOURCE
	AddSource bool `yaml:"add_source,omitempty" json:"add_source,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Provider: ProviderLambda,
		HTTP: HTTPConfig{
			Timeout: 60 * time.Second,
		},
		Discovery: DiscoveryConfig{
			Tags: true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads configuration from configPath, or from the default location
// when configPath is empty, then applies environment overrides and
// validates the result. A missing file at the default location yields the
// defaults; a missing explicit file is an error.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	path := configPath
	if path == "" {
		p, err := ConfigPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		err := cfg.loadFromFile(path)
		switch {
		case err == nil:
		case configPath == "" && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, &fferrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("failed to load from %s", path),
				Cause:  err,
			}
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() {
	if val := os.Getenv("FAAS_FORM_PROVIDER"); val != "" {
		c.Provider = strings.ToLower(val)
	}

	if val := os.Getenv("FAAS_FORM_REGION"); val != "" {
		c.AWS.Region = val
	} else if val := os.Getenv("AWS_REGION"); val != "" && c.AWS.Region == "" {
		c.AWS.Region = val
	}
	if val := os.Getenv("AWS_PROFILE"); val != "" {
		c.AWS.Profile = val
	}

	if val := os.Getenv("FAAS_FORM_HTTP_BASE_URL"); val != "" {
		c.HTTP.BaseURL = val
	}
}

// Validate checks that the configuration is valid. Every problem found is
// reported as a *ConfigError, joined into one error.
func (c *Config) Validate() error {
	var errs []error
	add := func(key, format string, args ...any) {
		errs = append(errs, &fferrors.ConfigError{Key: key, Reason: fmt.Sprintf(format, args...)})
	}

	switch c.Provider {
	case ProviderLambda:
	case ProviderHTTP:
		if c.HTTP.BaseURL == "" && len(c.HTTP.Functions) == 0 {
			add("http", "the http provider needs base_url or functions")
		}
	default:
		add("provider", "must be one of [lambda, http], got %q", c.Provider)
	}

	if c.HTTP.BaseURL != "" && !isAbsoluteURL(c.HTTP.BaseURL) {
		add("http.base_url", "must be an absolute http(s) URL, got %q", c.HTTP.BaseURL)
	}
	if c.HTTP.Timeout <= 0 {
		add("http.timeout", "must be positive, got %v", c.HTTP.Timeout)
	}
	for _, name := range sortedKeys(c.HTTP.Functions) {
		if fn := c.HTTP.Functions[name]; !isAbsoluteURL(fn.URL) {
			add("http.functions."+name+".url", "must be an absolute http(s) URL, got %q", fn.URL)
		}
	}
	for name := range c.HTTP.Headers {
		if strings.TrimSpace(name) == "" {
			add("http.headers", "header names must not be empty")
			break
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[c.Log.Level] {
		add("log.level", "must be one of [debug, info, warn, error], got %q", c.Log.Level)
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Log.Format] {
		add("log.format", "must be one of [json, text], got %q", c.Log.Format)
	}

	return errors.Join(errs...)
}

// Logging returns the logger configuration: the file values overridden by
// the logging environment variables.
func (c *Config) Logging() *log.Config {
	lc := log.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Format = log.Format(c.Log.Format)
	lc.AddSource = c.Log.AddSource
	return log.ApplyEnv(lc)
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
