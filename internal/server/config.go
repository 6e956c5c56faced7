package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Flattop/internal/game"
)

// Config is the server's YAML-backed configuration. Every field has a default
// so a missing file or a partial file still yields a runnable server.
type Config struct {
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// TurnTimeoutSec force-resolves a turn this many seconds after the first
	// side stages orders. 0 disables the timeout (play waits forever).
	TurnTimeoutSec int `yaml:"turn_timeout_sec"`

	BotDifficulty string `yaml:"bot_difficulty"`

	Balance game.Balance `yaml:"balance"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Addr:           ":8714",
		LogLevel:       "info",
		LogFile:        "flattop.log",
		TurnTimeoutSec: 60,
		BotDifficulty:  "normal",
		Balance:        game.DefaultBalance(),
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error;
// unparseable YAML or nonsense values are.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.TurnTimeoutSec < 0 {
		return fmt.Errorf("turn_timeout_sec %d is negative", c.TurnTimeoutSec)
	}
	if _, err := game.ParseDifficulty(c.BotDifficulty); err != nil {
		return err
	}
	if c.Balance.MapWidth < 8 || c.Balance.MapHeight < 8 {
		return fmt.Errorf("map %dx%d too small for the carrier anchorages",
			c.Balance.MapWidth, c.Balance.MapHeight)
	}
	if c.Balance.MaxTurns < 1 {
		return errors.New("max_turns must be at least 1")
	}
	return nil
}

// TurnTimeout returns the configured timeout as a duration, 0 when disabled.
func (c Config) TurnTimeout() time.Duration {
	return time.Duration(c.TurnTimeoutSec) * time.Second
}

// Difficulty returns the parsed bot difficulty. validate already checked it.
func (c Config) Difficulty() game.Difficulty {
	d, _ := game.ParseDifficulty(c.BotDifficulty)
	return d
}
