package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orizon-lang/modcheck/internal/resolver"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, "strict", cfg.Policy)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
	assert.GreaterOrEqual(t, cfg.Jobs, 1)

	_, err = Load(path, true)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("MODCHECK_JOBS", "")
	t.Setenv("MODCHECK_POLICY", "")
	t.Setenv("MODCHECK_FORMAT", "")

	path := writeConfig(t, `jobs: 3
policy: permissive
format: json
oracle: true
watch:
  debounce: 50ms
prelude:
  traits: [Display]
  crates: [serde]
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, resolver.PolicyPermissive, cfg.VisibilityPolicy())
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.True(t, cfg.Oracle)
	assert.Equal(t, 50*time.Millisecond, cfg.Watch.Debounce)

	p := cfg.PreludeNames()
	assert.Contains(t, p.Traits, "Display")
	assert.Contains(t, p.Traits, "Clone", "configured names extend the default prelude")
	assert.Contains(t, p.Crates, "serde")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "jobz: 3\n")

	_, err := Load(path, true)
	assert.Error(t, err)
}

func TestPreludeReplace(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Prelude.Replace = true
	cfg.Prelude.Types = []string{"i32"}

	p := cfg.PreludeNames()
	assert.Equal(t, []string{"i32"}, p.Types)
	assert.Empty(t, p.Traits)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MODCHECK_JOBS":   "7",
		"MODCHECK_POLICY": "permissive",
		"MODCHECK_FORMAT": "yaml",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, 7, cfg.Jobs)
	assert.Equal(t, "permissive", cfg.Policy)
	assert.Equal(t, FormatYAML, cfg.Format)

	env["MODCHECK_JOBS"] = "many"
	assert.Error(t, cfg.ApplyEnv(lookup))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero jobs", func(c *Config) { c.Jobs = 0 }, true},
		{"unknown policy", func(c *Config) { c.Policy = "loose" }, true},
		{"unknown format", func(c *Config) { c.Format = "xml" }, true},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
