package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/hitbase/packages/core/env"
)

// Config represents the hitbase project configuration
type Config struct {
	Strategy    string            `json:"strategy,omitempty" yaml:"strategy,omitempty"`       // direct or port
	Environment string            `json:"environment,omitempty" yaml:"environment,omitempty"` // env tag when no property sets one
	EnvFile     string            `json:"envFile,omitempty" yaml:"envFile,omitempty"`
	Properties  env.PropertyNames `json:"properties,omitempty" yaml:"properties,omitempty"`
	Probe       ProbeConfig       `json:"probe,omitempty" yaml:"probe,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"` // sent with every probe request
	History     string            `json:"history,omitempty" yaml:"history,omitempty"` // e.g. sqlite:./hitbase.db
	Output      string            `json:"output,omitempty" yaml:"output,omitempty"`
	Verbose     *bool             `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor     *bool             `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// ProbeConfig controls the readiness and smoke check against the target
type ProbeConfig struct {
	Path         string      `json:"path,omitempty" yaml:"path,omitempty"`
	ExpectStatus int         `json:"expectStatus,omitempty" yaml:"expectStatus,omitempty"`
	Attempts     int         `json:"attempts,omitempty" yaml:"attempts,omitempty"`
	Rate         float64     `json:"rate,omitempty" yaml:"rate,omitempty"`               // attempts per second
	WaitTimeout  int         `json:"waitTimeout,omitempty" yaml:"waitTimeout,omitempty"` // milliseconds, 0 disables waiting
	Interval     int         `json:"interval,omitempty" yaml:"interval,omitempty"`       // milliseconds
	Expect       []BodyCheck `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// BodyCheck asserts that a gjson path in the response body equals a value
type BodyCheck struct {
	Path   string `json:"path" yaml:"path"`
	Equals any    `json:"equals" yaml:"equals"`
}

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".hitbase.yaml",
	".hitbase.yml",
	".hitbase.json",
	"hitbase.yaml",
	"hitbase.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	if path := FindConfigFile(dir); path != "" {
		return loadConfigFromFile(path)
	}
	return DefaultConfig(), nil
}

// FindConfigFile returns the first config file present in dir, or ""
func FindConfigFile(dir string) string {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}
	return ""
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Parse validates a config document against the schema and decodes it over
// the defaults. YAML documents are converted to JSON first.
func Parse(data []byte, asYAML bool) (*Config, error) {
	if asYAML {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		if doc == nil {
			return DefaultConfig(), nil
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("converting YAML: %w", err)
		}
		data = converted
	}

	if err := Validate(data); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Strategy != "" {
		result.Strategy = other.Strategy
	}
	if other.Environment != "" {
		result.Environment = other.Environment
	}
	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}
	if other.Properties.BaseURL != "" {
		result.Properties.BaseURL = other.Properties.BaseURL
	}
	if other.Properties.ServerPort != "" {
		result.Properties.ServerPort = other.Properties.ServerPort
	}
	if other.Properties.Env != "" {
		result.Properties.Env = other.Properties.Env
	}
	if other.History != "" {
		result.History = other.History
	}
	if other.Output != "" {
		result.Output = other.Output
	}

	if other.Probe.Path != "" {
		result.Probe.Path = other.Probe.Path
	}
	if other.Probe.ExpectStatus > 0 {
		result.Probe.ExpectStatus = other.Probe.ExpectStatus
	}
	if other.Probe.Attempts > 0 {
		result.Probe.Attempts = other.Probe.Attempts
	}
	if other.Probe.Rate > 0 {
		result.Probe.Rate = other.Probe.Rate
	}
	if other.Probe.WaitTimeout > 0 {
		result.Probe.WaitTimeout = other.Probe.WaitTimeout
	}
	if other.Probe.Interval > 0 {
		result.Probe.Interval = other.Probe.Interval
	}
	if len(other.Probe.Expect) > 0 {
		result.Probe.Expect = other.Probe.Expect
	}

	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Headers) > 0 {
		headers := make(map[string]string, len(c.Headers)+len(other.Headers))
		for k, v := range c.Headers {
			headers[k] = v
		}
		for k, v := range other.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}

	return &result
}

// SaveConfig writes the configuration as YAML or JSON depending on the extension
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
