package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
	Timezone   string
	MoodWeeks  int `mapstructure:"mood_weeks"`
}

// LogConfig controls the zap logger. An empty File logs to stderr.
type LogConfig struct {
	Level string
	File  string
}

// MetricsConfig enables the prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string
}

func defaultDataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "haven")
}

// Path returns the config file location, honouring HAVEN_CONFIG.
func Path() string {
	if p := os.Getenv("HAVEN_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "haven", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix HAVEN_.
// An explicit file path takes precedence over HAVEN_CONFIG.
func Load(file string) (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(defaultDataDir(), "haven.db"))
	v.SetDefault("ui.date_format", "Mon 02 Jan")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.mood_weeks", 6)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(defaultDataDir(), "haven.log"))
	v.SetDefault("metrics.addr", "")

	v.SetConfigType("toml")

	switch {
	case file != "":
		v.SetConfigFile(file)
	case os.Getenv("HAVEN_CONFIG") != "":
		v.SetConfigFile(os.Getenv("HAVEN_CONFIG"))
	default:
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "haven"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("HAVEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.MoodWeeks <= 0 {
		c.UI.MoodWeeks = 6
	}
	return c, nil
}

// Save writes the provided config to path (Path() when empty), creating the
// config directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.mood_weeks", cfg.UI.MoodWeeks)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("metrics.addr", cfg.Metrics.Addr)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
