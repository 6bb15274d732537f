// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DBFilename is the canonical database filename; backup archives store the
// database under db/<DBFilename>.
const DBFilename = "ajib.sqlite3"

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string  `yaml:"token"`
	Username string  `yaml:"username"`
	Workers  int     `yaml:"workers"` // concurrent update handlers
	AdminIDs []int64 `yaml:"admin_ids"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type OpsConfig struct {
	Port int `yaml:"port"` // health + metrics listener
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	EnvPath string `yaml:"env_path"` // configuration file bundled into backups; optional
	Locale  string `yaml:"default_locale"`
}

type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Log     LogConfig     `yaml:"log"`
	Ops     OpsConfig     `yaml:"ops"`
	Storage StorageConfig `yaml:"storage"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Ops.Port == 0 {
		cfg.Ops.Port = 8081
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "/opt/ajib"
	}
	if cfg.Storage.Locale == "" {
		cfg.Storage.Locale = "en"
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if len(cfg.Bot.AdminIDs) == 0 {
		return nil, errors.New("bot.admin_ids is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// SQLitePath is the live database file inside the data directory.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.Storage.DataDir, DBFilename)
}

// BackupsDir holds created backups and the restore staging file.
func (c *Config) BackupsDir() string {
	return filepath.Join(c.Storage.DataDir, "backups")
}

// PlansPath is the plan catalog document.
func (c *Config) PlansPath() string {
	return filepath.Join(c.Storage.DataDir, "plans.json")
}
