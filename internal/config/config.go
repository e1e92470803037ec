package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/raidbot/internal/core/observability/log"
)

// Config is the bot configuration. Keys that existed in earlier config.yaml
// files keep their names and value forms, so key_delay still accepts float
// seconds.
type Config struct {
	Monitor             int     `yaml:"monitor"`
	ModelPath           string  `yaml:"model_path"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	KeyDelay            Seconds `yaml:"key_delay"`
	MouseSensitivity    float64 `yaml:"mouse_sensitivity"`
	TargetFPS           float64 `yaml:"target_fps"`
	DebugMode           bool    `yaml:"debug_mode"`

	WindowX      int `yaml:"window_x"`
	WindowY      int `yaml:"window_y"`
	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`

	LogLevel      string `yaml:"log_level"`
	TreeFile      string `yaml:"tree_file"`
	DryRun        bool   `yaml:"dry_run"`
	ResetOnSwitch bool   `yaml:"reset_on_switch"`

	Playbook  Playbook  `yaml:"playbook"`
	Telemetry Telemetry `yaml:"telemetry"`
	Journal   Journal   `yaml:"journal"`
}

// Playbook tunes the built-in behavior tree.
type Playbook struct {
	CoverThreshold  float64       `yaml:"cover_threshold"`
	HealSlot        int           `yaml:"heal_slot"`
	WeaponSlot      int           `yaml:"weapon_slot"`
	MoveDuration    time.Duration `yaml:"move_duration"`
	ArriveArea      float64       `yaml:"arrive_area"`
	GatherDuration  time.Duration `yaml:"gather_duration"`
	FireDuration    time.Duration `yaml:"fire_duration"`
	HealDuration    time.Duration `yaml:"heal_duration"`
	ExploreTurn     float64       `yaml:"explore_turn"`
	ExploreDuration time.Duration `yaml:"explore_duration"`
}

type Telemetry struct {
	// Addr is the listen address of the debug server; empty disables it.
	Addr string `yaml:"addr"`
}

type Journal struct {
	// Addr of the Redis server; empty disables the journal.
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
	MaxLen   int64  `yaml:"max_len"`
}

func Default() *Config {
	return &Config{
		Monitor:             1,
		ConfidenceThreshold: 0.5,
		KeyDelay:            Seconds(50 * time.Millisecond),
		MouseSensitivity:    1.0,
		TargetFPS:           10,
		WindowWidth:         1920,
		WindowHeight:        1080,
		LogLevel:            "info",
		ResetOnSwitch:       true,
		Playbook: Playbook{
			CoverThreshold:  30,
			HealSlot:        2,
			WeaponSlot:      1,
			MoveDuration:    500 * time.Millisecond,
			ArriveArea:      40000,
			GatherDuration:  time.Second,
			FireDuration:    200 * time.Millisecond,
			HealDuration:    1500 * time.Millisecond,
			ExploreTurn:     45,
			ExploreDuration: time.Second,
		},
		Journal: Journal{
			Prefix: "raidbot",
			MaxLen: 10000,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error: the
// defaults are returned and found is false so the caller can say so.
func Load(path string) (cfg *Config, found bool, err error) {
	cfg = Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, false, nil
		}
		return nil, false, fmt.Errorf("read config: %w", err)
	}
	if err = Parse(data, cfg); err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Parse decodes YAML into cfg, rejecting unknown keys, and validates the
// result.
func Parse(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.ConfidenceThreshold >= 0 && c.ConfidenceThreshold <= 1, "confidence_threshold %v not in [0,1]", c.ConfidenceThreshold)
	check(c.TargetFPS > 0, "target_fps must be positive, got %v", c.TargetFPS)
	check(c.KeyDelay >= 0, "key_delay must not be negative")
	check(c.MouseSensitivity > 0, "mouse_sensitivity must be positive, got %v", c.MouseSensitivity)
	check(c.WindowWidth > 0 && c.WindowHeight > 0, "window size %dx%d", c.WindowWidth, c.WindowHeight)
	check(c.Playbook.HealSlot >= 1 && c.Playbook.HealSlot <= 6, "playbook.heal_slot %d not in 1..6", c.Playbook.HealSlot)
	check(c.Playbook.WeaponSlot >= 1 && c.Playbook.WeaponSlot <= 6, "playbook.weapon_slot %d not in 1..6", c.Playbook.WeaponSlot)
	check(c.Playbook.ArriveArea > 0, "playbook.arrive_area must be positive")
	check(c.Journal.MaxLen >= 0, "journal.max_len must not be negative")
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel))
	}
	return errors.Join(errs...)
}

// FrameInterval is the target time between frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.TargetFPS)
}
