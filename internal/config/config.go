// Package config loads bot configuration from an optional JSON5 file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/titanous/json5"

	"github.com/mementomori/mementobot/internal/trigger"
)

// StoreFileName is the trigger store file inside DataDir.
const StoreFileName = "triggers.json"

// Config holds all runtime configuration.
type Config struct {
	// Token is the Discord bot token. Required to run; absence is a
	// fatal startup error.
	Token string `json:"token"`

	// GuildID, when set, registers slash commands against that guild
	// only (instant propagation, handy for development). Empty means
	// global registration.
	GuildID string `json:"guild_id"`

	// DataDir holds the trigger store. Defaults to /data, matching the
	// volume mount the bot is usually deployed with.
	DataDir string `json:"data_dir"`

	// PhraseLimit caps trigger phrases per guild.
	PhraseLimit int `json:"phrase_limit"`

	// WatchStore reloads the trigger store when the backing file is
	// edited externally.
	WatchStore bool `json:"watch_store"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:     "/data",
		PhraseLimit: trigger.DefaultPhraseLimit,
		WatchStore:  true,
	}
}

// Load reads the JSON5 config at path (missing file is fine, defaults
// apply) and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No config file: env + defaults only.
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := json5.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// ApplyEnvOverrides lets the environment win over file values:
// DISCORD_TOKEN, GUILD_ID, DATA_DIR, PHRASE_LIMIT.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("GUILD_ID"); v != "" {
		c.GuildID = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("PHRASE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PhraseLimit = n
		}
	}
}

// StorePath returns the trigger store path under DataDir.
func (c *Config) StorePath() string {
	return filepath.Join(ExpandHome(c.DataDir), StoreFileName)
}

// ExpandHome expands a leading "~" to the user's home directory.
func ExpandHome(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	return path
}
