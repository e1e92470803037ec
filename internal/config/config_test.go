package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, found, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 100*time.Millisecond, cfg.FrameInterval())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
target_fps: 20
key_delay: 30ms
debug_mode: true
playbook:
  heal_slot: 3
telemetry:
  addr: ":8090"
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, found, err := Load(path)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 20.0, cfg.TargetFPS)
	assert.Equal(t, 30*time.Millisecond, cfg.KeyDelay.Std())
	assert.True(t, cfg.DebugMode)
	assert.Equal(t, 3, cfg.Playbook.HealSlot)
	assert.Equal(t, 1, cfg.Playbook.WeaponSlot, "unset nested keys keep defaults")
	assert.Equal(t, ":8090", cfg.Telemetry.Addr)
	assert.Equal(t, 0.5, cfg.ConfidenceThreshold)
}

func TestParseKeyDelayForms(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"key_delay: 0.05\ntarget_fps: 10\n", 50 * time.Millisecond},
		{"key_delay: 1\n", time.Second},
		{"key_delay: 75ms\n", 75 * time.Millisecond},
		{"key_delay: 0\n", 0},
	}
	for _, tc := range cases {
		cfg := Default()
		require.NoError(t, Parse([]byte(tc.in), cfg), tc.in)
		assert.Equal(t, tc.want, cfg.KeyDelay.Std(), tc.in)
	}

	err := Parse([]byte("key_delay: soon\n"), Default())
	assert.ErrorIs(t, err, ErrInvalid)
	err = Parse([]byte("key_delay: -0.5\n"), Default())
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseEmpty(t *testing.T) {
	cfg := Default()
	require.NoError(t, Parse([]byte("  \n"), cfg))
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	err := Parse([]byte("target_fsp: 3\n"), Default())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"confidence", func(c *Config) { c.ConfidenceThreshold = 1.5 }},
		{"fps", func(c *Config) { c.TargetFPS = 0 }},
		{"sensitivity", func(c *Config) { c.MouseSensitivity = -1 }},
		{"window", func(c *Config) { c.WindowWidth = 0 }},
		{"heal slot", func(c *Config) { c.Playbook.HealSlot = 7 }},
		{"weapon slot", func(c *Config) { c.Playbook.WeaponSlot = 0 }},
		{"arrive area", func(c *Config) { c.Playbook.ArriveArea = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
	assert.NoError(t, Default().Validate())
}
