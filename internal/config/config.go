// Package config loads relq CLI settings from relq.yaml, RELQ_* environment
// variables and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bawdo/relq/engine"
)

const maxWalkDepth = 25

// Config is the CLI configuration.
type Config struct {
	// Engine is the SQL dialect: postgres, mysql or sqlite.
	Engine   string `mapstructure:"engine"`
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"log_level"`
	// Pretty renders SQL over several lines.
	Pretty     bool             `mapstructure:"pretty"`
	SoftDelete SoftDeleteConfig `mapstructure:"soft_delete"`
}

// SoftDeleteConfig configures the soft-delete transformer.
type SoftDeleteConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Column  string   `mapstructure:"column"`
	Tables  []string `mapstructure:"tables"`
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"engine":    "engine",
	"dsn":       "dsn",
	"log-level": "log_level",
	"pretty":    "pretty",
}

// Load discovers and loads configuration with precedence
// flags > env > config file > defaults. flags may be nil.
//
// It returns the config and the path of the file it was read from (empty
// when none was found).
func Load(explicitPath string, flags *pflag.FlagSet) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RELQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, "", fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	path, err := findConfigFile(explicitPath)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, path, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, path, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine", engine.Postgres)
	v.SetDefault("dsn", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("pretty", false)
	v.SetDefault("soft_delete.enabled", false)
	v.SetDefault("soft_delete.column", "deleted_at")
	v.SetDefault("soft_delete.tables", []string{})
}

// findConfigFile returns explicitPath if it exists. Otherwise it walks up
// from the working directory looking for relq.yaml or relq.yml, stopping
// at a .git directory.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}
	for i := 0; i < maxWalkDepth; i++ {
		for _, name := range []string{"relq.yaml", "relq.yml"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

// Validate checks the dialect and log level.
func (c *Config) Validate() error {
	if _, err := engine.NewQuoter(c.Engine); err != nil {
		return fmt.Errorf("invalid engine: %w", err)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel (debug, info, warn, error).
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
