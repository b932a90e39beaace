package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Category match modes for CSV import.
const (
	MatchExact = "exact"
	MatchFuzzy = "fuzzy"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig
	UI      UIConfig
	Import  ImportConfig
	Export  ExportConfig
	Log     LogConfig
}

// StorageConfig selects where the transaction snapshot lives.
type StorageConfig struct {
	Backend string
	Path    string
	Key     string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone       string
	CurrencySymbol string        `mapstructure:"currency_symbol"`
	LongPress      time.Duration `mapstructure:"long_press"`
}

// ImportConfig controls how CSV category names are resolved.
type ImportConfig struct {
	CategoryMatch string `mapstructure:"category_match"`
	MaxDistance   int    `mapstructure:"max_distance"`
}

// ExportConfig controls where CSV exports are written and how they are named.
type ExportConfig struct {
	Dir   string
	Label string
}

// LogConfig holds log file settings.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use prefix EASYBOOK_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("EASYBOOK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "easybook"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("EASYBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.path", filepath.Join(home, ".local", "share", "easybook", "easybook.db"))
	v.SetDefault("storage.key", "easybook_transactions")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.currency_symbol", "¥")
	v.SetDefault("ui.long_press", "600ms")
	v.SetDefault("import.category_match", MatchExact)
	v.SetDefault("import.max_distance", 1)
	v.SetDefault("export.dir", ".")
	v.SetDefault("export.label", "乐龄记账")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "easybook", "easybook.log"))
	v.SetDefault("log.level", "info")
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
		if strings.TrimSpace(c.Storage.Path) == "" {
			problems = append(problems, fmt.Sprintf("storage.path is required for the %s backend", c.Storage.Backend))
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid storage.backend %q: must be one of %s, %s, %s",
			c.Storage.Backend, BackendSQLite, BackendFile, BackendMemory))
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		problems = append(problems, "storage.key cannot be empty")
	}

	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid ui.timezone %q: %v", c.UI.Timezone, err))
	}
	if c.UI.LongPress <= 0 {
		problems = append(problems, fmt.Sprintf("invalid ui.long_press %v: must be positive", c.UI.LongPress))
	}

	switch c.Import.CategoryMatch {
	case MatchExact, MatchFuzzy:
	default:
		problems = append(problems, fmt.Sprintf("invalid import.category_match %q: must be %s or %s",
			c.Import.CategoryMatch, MatchExact, MatchFuzzy))
	}
	if c.Import.MaxDistance < 0 {
		problems = append(problems, fmt.Sprintf("invalid import.max_distance %d: must not be negative", c.Import.MaxDistance))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		problems = append(problems, fmt.Sprintf("invalid log.level %q", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Location resolves the configured time zone. "Local" and "" mean the
// process zone.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.UI.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// Path is the config file Load reads and Save writes.
func Path() string {
	if p := os.Getenv("EASYBOOK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "easybook", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("storage.key", cfg.Storage.Key)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.long_press", cfg.UI.LongPress.String())
	v.Set("import.category_match", cfg.Import.CategoryMatch)
	v.Set("import.max_distance", cfg.Import.MaxDistance)
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("export.label", cfg.Export.Label)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
