// Package config loads checker settings from .modcheck.yaml with
// environment overrides. Command-line flags are applied last by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/orizon-lang/modcheck/internal/resolver"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = ".modcheck.yaml"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats lists the supported report formats.
var ValidFormats = []string{FormatText, FormatJSON, FormatYAML}

// Config holds all checker settings.
type Config struct {
	Jobs    int           `yaml:"jobs"`
	Policy  string        `yaml:"policy"`
	Format  string        `yaml:"format"`
	Oracle  bool          `yaml:"oracle"`
	Suite   string        `yaml:"suite,omitempty"`
	Watch   WatchConfig   `yaml:"watch"`
	Prelude PreludeConfig `yaml:"prelude"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is how long the watcher waits for further changes before
	// re-running the checks.
	Debounce time.Duration `yaml:"debounce"`
}

// PreludeConfig adds names to the default prelude, or replaces it.
type PreludeConfig struct {
	Replace          bool `yaml:"replace"`
	resolver.Prelude `yaml:",inline"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Jobs:   runtime.NumCPU(),
		Policy: resolver.PolicyStrict.String(),
		Format: FormatText,
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. A missing file yields the defaults unless required
// is set.
func Load(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !required:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// ApplyEnv applies MODCHECK_JOBS, MODCHECK_POLICY and MODCHECK_FORMAT.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("MODCHECK_JOBS"); ok && v != "" {
		jobs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MODCHECK_JOBS %q: %w", v, err)
		}
		c.Jobs = jobs
	}
	if v, ok := lookup("MODCHECK_POLICY"); ok && v != "" {
		c.Policy = v
	}
	if v, ok := lookup("MODCHECK_FORMAT"); ok && v != "" {
		c.Format = v
	}

	return nil
}

// Validate checks the settings after all overrides.
func (c *Config) Validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if _, err := resolver.ParsePolicy(c.Policy); err != nil {
		return err
	}

	validFormat := false
	for _, f := range ValidFormats {
		if c.Format == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid format: %s (valid: %v)", c.Format, ValidFormats)
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}

	return nil
}

// VisibilityPolicy returns the parsed policy. Call Validate first.
func (c *Config) VisibilityPolicy() resolver.VisibilityPolicy {
	p, _ := resolver.ParsePolicy(c.Policy)
	return p
}

// PreludeNames returns the prelude fixtures are checked against.
func (c *Config) PreludeNames() *resolver.Prelude {
	if c.Prelude.Replace {
		p := c.Prelude.Prelude
		return &p
	}

	return resolver.DefaultPrelude().Merge(&c.Prelude.Prelude)
}
