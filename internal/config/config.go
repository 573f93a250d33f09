package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/csvutils-cli/internal/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
	Quotes     bool   `mapstructure:"quotes" yaml:"quotes"`
	SkipHeader bool   `mapstructure:"skip_header" yaml:"skip_header"`
	MaxRecords int    `mapstructure:"max_records" yaml:"max_records"`
	Encoding   string `mapstructure:"encoding" yaml:"encoding"`

	// Output
	Format    string `mapstructure:"format" yaml:"format"`
	Precision int    `mapstructure:"precision" yaml:"precision"`

	// Run history (SQLite)
	HistoryEnabled bool   `mapstructure:"history_enabled" yaml:"history_enabled"`
	HistoryDB      string `mapstructure:"history_db" yaml:"history_db"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.csvutils/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := utils.ConfigDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Command-line flags are applied
// on top by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CSVUTILS")
	v.AutomaticEnv()

	v.SetDefault("delimiter", ",")
	v.SetDefault("quotes", false)
	v.SetDefault("skip_header", false)
	v.SetDefault("max_records", 0)
	v.SetDefault("encoding", "utf-8")
	v.SetDefault("format", "text")
	v.SetDefault("precision", 4)
	v.SetDefault("history_enabled", false)
	v.SetDefault("history_db", "")
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := utils.ConfigDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.HistoryDB == "" {
		db, err := DefaultHistoryDB()
		if err != nil {
			return nil, err
		}
		c.HistoryDB = db
	}
	return &c, nil
}

// DefaultHistoryDB is ~/.csvutils/history.db.
func DefaultHistoryDB() (string, error) {
	dir, err := utils.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}
